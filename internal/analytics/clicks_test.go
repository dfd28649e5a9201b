package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hmendes/linkly/internal/analytics"
	"github.com/hmendes/linkly/internal/shortener"
	"github.com/hmendes/linkly/internal/store"
)

type brokenRepo struct {
	shortener.Repository
}

func (r *brokenRepo) IncrementClicks(_ context.Context, _ shortener.Code) error {
	return errors.New("repository unavailable")
}

func TestClickHandler(t *testing.T) {
	t.Run("applies the increment for the visited code", func(t *testing.T) {
		repo := store.NewMemoryStore()
		_, err := repo.Create(context.Background(), "https://example.com", "abc12345", "alice@example.com")
		require.NoError(t, err)

		handler := analytics.NewClickHandler(repo, zap.NewNop())

		err = handler(context.Background(), &analytics.LinkVisitedEvent{Code: "abc12345"})

		require.NoError(t, err)

		link, err := repo.GetByCode(context.Background(), "abc12345")
		require.NoError(t, err)
		assert.Equal(t, int64(1), link.Clicks)
	})

	t.Run("a visit to a deleted link is a no-op", func(t *testing.T) {
		handler := analytics.NewClickHandler(store.NewMemoryStore(), zap.NewNop())

		err := handler(context.Background(), &analytics.LinkVisitedEvent{Code: "missing1"})

		assert.NoError(t, err)
	})

	t.Run("swallows repository errors so the message is acked", func(t *testing.T) {
		handler := analytics.NewClickHandler(&brokenRepo{}, zap.NewNop())

		err := handler(context.Background(), &analytics.LinkVisitedEvent{Code: "abc12345"})

		assert.NoError(t, err)
	})
}
