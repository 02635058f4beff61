package shortener

import (
	"context"
	"errors"
	"net/url"
	"time"
)

const (
	// DefaultValidityMinutes applies when a creation request omits validity.
	DefaultValidityMinutes = 30

	// maxGenerateAttempts bounds the random-code retry loop. Fixed policy
	// constant, not derived from the keyspace.
	maxGenerateAttempts = 6
)

// AllocateInput carries a creation request into the allocator.
type AllocateInput struct {
	URL             string
	CustomCode      Code // empty means generate one
	ValidityMinutes *int // nil means DefaultValidityMinutes
}

// Allocator decides the shortcode for a new link and persists the record.
type Allocator struct {
	store        Repository
	generateCode CodeGenerator
	now          func() time.Time
}

// NewAllocator creates an allocator backed by the given store and generator.
func NewAllocator(store Repository, generator CodeGenerator) *Allocator {
	return &Allocator{
		store:        store,
		generateCode: generator,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the allocator's time source.
func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now

	return a
}

// Allocate validates the input, picks a shortcode, and inserts the link.
// The store's uniqueness guard is authoritative: a code that slips past the
// pre-check still surfaces as ErrCodeTaken at insert time.
func (a *Allocator) Allocate(ctx context.Context, input AllocateInput) (*Link, error) {
	if err := validateURL(input.URL); err != nil {
		return nil, err
	}

	validity := DefaultValidityMinutes
	if input.ValidityMinutes != nil {
		if *input.ValidityMinutes <= 0 {
			return nil, ErrInvalidValidity
		}

		validity = *input.ValidityMinutes
	}

	code := input.CustomCode
	if code != "" {
		if !ValidCode(code) {
			return nil, ErrInvalidCode
		}

		if _, err := a.store.GetLink(ctx, code); err == nil {
			return nil, ErrCodeTaken
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	} else {
		picked, err := a.pickFreeCode(ctx)
		if err != nil {
			return nil, err
		}

		code = picked
	}

	now := a.now()
	link := &Link{
		Code:        code,
		OriginalURL: input.URL,
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Duration(validity) * time.Minute),
	}

	if err := a.store.InsertLink(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// pickFreeCode draws random candidates until one does not exist yet.
func (a *Allocator) pickFreeCode(ctx context.Context) (Code, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		candidate := a.generateCode()

		_, err := a.store.GetLink(ctx, candidate)
		if errors.Is(err, ErrNotFound) {
			return candidate, nil
		}

		if err != nil {
			return "", err
		}
	}

	return "", ErrAllocationExhausted
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}

	return nil
}
