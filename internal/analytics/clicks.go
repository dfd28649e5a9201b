package analytics

import (
	"context"

	"go.uber.org/zap"

	"github.com/hmendes/linkly/internal/messaging"
	"github.com/hmendes/linkly/internal/shortener"
)

// NewClickHandler returns a handler that applies the click increment for a
// visited link. Increment failures are logged and swallowed: the redirect
// has already been served, and a link deleted between lookup and increment
// is a silent no-op at the repository level.
func NewClickHandler(repo shortener.Repository, logger *zap.Logger) messaging.Handler[LinkVisitedEvent] {
	return func(ctx context.Context, event *LinkVisitedEvent) error {
		if err := repo.IncrementClicks(ctx, shortener.Code(event.Code)); err != nil {
			logger.Error("failed to apply click increment",
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}

		return nil
	}
}
