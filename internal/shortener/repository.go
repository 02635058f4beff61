package shortener

import "context"

// Repository is the single shared mutable resource of the service. It stores
// links keyed by unique shortcode plus an append-only log of click events
// referencing a shortcode.
//
// InsertLink is the authoritative uniqueness guard: the existence check and
// the write are indivisible from the perspective of concurrent callers, so
// two concurrent inserts of the same code yield exactly one success and one
// ErrCodeTaken. Any pre-insert existence check performed by callers is an
// optimization only.
type Repository interface {
	InsertLink(ctx context.Context, link *Link) error
	GetLink(ctx context.Context, code Code) (*Link, error)
	InsertClick(ctx context.Context, click *ClickEvent) error
	CountClicks(ctx context.Context, code Code) (int64, error)
	// RecentClicks returns up to limit events for the code, newest first.
	RecentClicks(ctx context.Context, code Code, limit int) ([]ClickEvent, error)
}
