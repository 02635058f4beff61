package clicks

import (
	"context"

	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// Topic is the message topic for click events.
const Topic = "link.clicked"

// NewPersistHandler returns a consumer handler that appends click events to
// the store. Recording is best effort: a failed write is logged and the event
// dropped, never redelivered, and never surfaced to the redirect caller,
// which has long since been answered.
func NewPersistHandler(store shortener.Repository, logger *zap.Logger) messaging.Handler[shortener.ClickEvent] {
	return func(ctx context.Context, event *shortener.ClickEvent) error {
		if err := store.InsertClick(ctx, event); err != nil {
			logger.Error("failed to record click",
				zap.String("code", string(event.Code)),
				zap.Error(err),
			)
		}

		return nil
	}
}
