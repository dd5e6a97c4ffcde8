// Package environment describes the deployment environment the service runs
// in (development, staging or production) and carries it through request
// contexts.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	r.Use(environment.Middleware(env))
//
// Handlers read it back with FromContext, for example to decide whether
// internal error details may be shown to the client.
package environment
