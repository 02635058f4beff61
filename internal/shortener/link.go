// Package shortener contains the core domain of the service: link records,
// click events, shortcode rules, and the allocation / resolution / stats
// operations built on top of the Repository contract.
package shortener

import (
	"errors"
	"time"
)

// Code represents a short URL code.
type Code string

// Link binds a shortcode to a destination URL and its validity window.
// Links are immutable once created and are never swept after expiry; a link
// is expired purely as a function of the current time vs ExpiresAt.
type Link struct {
	Code        Code
	OriginalURL string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the link is past its validity window at time now.
// The boundary instant itself still resolves: a link expires strictly after
// ExpiresAt.
func (l *Link) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// Domain errors. Handlers map these to HTTP statuses at the boundary.
var (
	ErrInvalidURL          = errors.New("original url must be absolute http or https")
	ErrInvalidValidity     = errors.New("validity must be a positive number of minutes")
	ErrInvalidCode         = errors.New("shortcode must be 4-20 alphanumeric characters")
	ErrCodeTaken           = errors.New("shortcode already exists")
	ErrAllocationExhausted = errors.New("could not allocate a free shortcode")
	ErrNotFound            = errors.New("link not found")
	ErrExpired             = errors.New("link expired")
)
