package shortener

import (
	"context"
	"time"
)

// MaxRecentClicks caps the click history returned in a summary.
const MaxRecentClicks = 200

// Summary combines a link's public fields with its click history.
type Summary struct {
	Code        Code
	OriginalURL string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	TotalClicks int64
	Clicks      []ClickEvent // newest first, at most MaxRecentClicks
}

// StatsAggregator assembles link performance summaries.
type StatsAggregator struct {
	store Repository
}

// NewStatsAggregator creates an aggregator backed by the given store.
func NewStatsAggregator(store Repository) *StatsAggregator {
	return &StatsAggregator{store: store}
}

// Stats returns the summary for code. Pure read: expired links still report
// their history, and repeated calls never mutate counts.
func (s *StatsAggregator) Stats(ctx context.Context, code Code) (*Summary, error) {
	if !ValidCode(code) {
		return nil, ErrInvalidCode
	}

	link, err := s.store.GetLink(ctx, code)
	if err != nil {
		return nil, err
	}

	total, err := s.store.CountClicks(ctx, code)
	if err != nil {
		return nil, err
	}

	recent, err := s.store.RecentClicks(ctx, code, MaxRecentClicks)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Code:        link.Code,
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
		ExpiresAt:   link.ExpiresAt,
		TotalClicks: total,
		Clicks:      recent,
	}, nil
}
