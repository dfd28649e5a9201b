package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/hmendes/linkly/internal/analytics"
)

const recentVisitsMax = 100

// Redis persists analytics events to Redis: per-code visit counters, a
// per-owner created counter, and a capped stream of recent visits.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed analytics store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) SaveLinkCreated(ctx context.Context, event *analytics.LinkCreatedEvent) error {
	return r.client.HIncrBy(ctx, "analytics:created_by_owner", event.OwnerEmail, 1).Err()
}

func (r *Redis) SaveLinkVisited(ctx context.Context, event *analytics.LinkVisitedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.HIncrBy(ctx, "analytics:visits_by_code", event.Code, 1)
	pipe.LPush(ctx, "analytics:recent_visits", payload)
	pipe.LTrim(ctx, "analytics:recent_visits", 0, recentVisitsMax-1)
	_, err = pipe.Exec(ctx)

	return err
}

func (r *Redis) SaveLinkDeleted(ctx context.Context, event *analytics.LinkDeletedEvent) error {
	return r.client.HDel(ctx, "analytics:visits_by_code", event.Code).Err()
}

// Compile-time check.
var _ analytics.Store = (*Redis)(nil)
