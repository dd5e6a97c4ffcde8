// Package clientip resolves the address of the client behind a request.
//
// Proxy headers are attacker-controlled unless a proxy rewrites them, so a
// Resolver only reads the headers it was told to trust:
//
//	res := clientip.NewResolver()                           // RemoteAddr only
//	res := clientip.NewResolver(clientip.DefaultHeaders...) // behind a proxy
//	r.Use(res.Middleware)
package clientip
