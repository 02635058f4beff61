package shortener

import (
	"context"
	"time"
)

// Resolver translates a shortcode into its destination URL, enforcing the
// validity window. It performs no writes; recording the click is the
// caller's responsibility.
type Resolver struct {
	store Repository
	now   func() time.Time
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store Repository) *Resolver {
	return &Resolver{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the resolver's time source.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now

	return r
}

// Resolve returns the destination URL for code. A malformed code is reported
// as ErrNotFound, indistinguishable from an absent one: the redirect path is
// public and should not leak validation detail.
func (r *Resolver) Resolve(ctx context.Context, code Code) (string, error) {
	if !ValidCode(code) {
		return "", ErrNotFound
	}

	link, err := r.store.GetLink(ctx, code)
	if err != nil {
		return "", err
	}

	if link.Expired(r.now()) {
		return "", ErrExpired
	}

	return link.OriginalURL, nil
}
