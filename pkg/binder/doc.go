// Package binder fills request structs from HTTP request bodies.
//
// Form reads url-encoded and multipart forms through `form` tags, JSON reads
// a flat JSON object through `json` tags, and Body chooses between them from
// the Content-Type header. All binders report failures wrapped in one of the
// package sentinel errors, which the handler layer maps to 400/415
// responses.
package binder
