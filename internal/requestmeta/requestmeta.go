// Package requestmeta carries the identity of the HTTP request being served
// through a context, for logging and audit entries.
package requestmeta

import "context"

type key struct{}

// Meta identifies the HTTP request behind a unit of work
type Meta struct {
	RequestID string
	IPAddress string
	UserAgent string
}

// With stores meta in ctx
func With(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, key{}, meta)
}

// From returns the metadata stored in ctx by With
func From(ctx context.Context) (Meta, bool) {
	meta, ok := ctx.Value(key{}).(Meta)
	return meta, ok
}
