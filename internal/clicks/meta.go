// Package clicks turns redirect request metadata into persisted click events.
// Derivation is pure and header-driven so the geo source can be swapped for a
// real IP lookup service without touching the pipeline.
package clicks

import "context"

// RequestMeta holds the raw HTTP request metadata a click is derived from.
// All fields are best effort and may be empty.
type RequestMeta struct {
	ForwardedFor   string // X-Forwarded-For header, unparsed
	RemoteAddr     string // direct connection host
	UserAgent      string
	Referrer       string
	CountryHeader  string // trusted geo header set by an edge proxy
	AcceptLanguage string
}

type metaKey struct{}

// ContextWithMeta attaches request metadata to the context.
func ContextWithMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

// MetaFromContext extracts request metadata, zero-valued when absent.
func MetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(metaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
