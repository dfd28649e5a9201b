package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hmendes/linkly/internal/shortener"
)

// RedisCacheRepository wraps a Repository with Redis caching for the
// redirect hot path. Writes go through to the underlying store; increments
// and deletes invalidate the cached entry so stale click counts or deleted
// links are never served from cache.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

func (r *RedisCacheRepository) Create(
	ctx context.Context, originalURL string, code shortener.Code, owner string,
) (*shortener.Link, error) {
	link, err := r.store.Create(ctx, originalURL, code, owner)
	if err != nil {
		return nil, err
	}

	// Write-through: populate cache after successful create
	r.cacheLink(ctx, link)

	return link, nil
}

func (r *RedisCacheRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	if link, err := r.getFromCache(ctx, code); err == nil {
		return link, nil
	}

	link, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cacheLink(ctx, link)

	return link, nil
}

func (r *RedisCacheRepository) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+string(code)).Result()
	if err == nil && n > 0 {
		return true, nil
	}

	return r.store.Exists(ctx, code)
}

func (r *RedisCacheRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]*shortener.Link, error) {
	return r.store.ListByOwner(ctx, owner, limit)
}

func (r *RedisCacheRepository) IncrementClicks(ctx context.Context, code shortener.Code) error {
	if err := r.store.IncrementClicks(ctx, code); err != nil {
		return err
	}

	// Cached click counts would go stale; drop the entry instead of
	// maintaining a second counter.
	r.client.Del(ctx, r.prefix+string(code))

	return nil
}

func (r *RedisCacheRepository) DeleteByOwner(ctx context.Context, owner string, code shortener.Code) (bool, error) {
	deleted, err := r.store.DeleteByOwner(ctx, owner, code)
	if err != nil {
		return false, err
	}

	if deleted {
		r.client.Del(ctx, r.prefix+string(code))
	}

	return deleted, nil
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	link := &shortener.Link{
		Code:        shortener.Code(result["code"]),
		OriginalURL: result["original_url"],
		OwnerEmail:  result["owner_email"],
	}

	if id, err := strconv.ParseInt(result["id"], 10, 64); err == nil {
		link.ID = id
	}

	if clicks, err := strconv.ParseInt(result["clicks"], 10, 64); err == nil {
		link.Clicks = clicks
	}

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		link.CreatedAt = time.Unix(0, nanos)
	}

	return link, nil
}

func (r *RedisCacheRepository) cacheLink(ctx context.Context, link *shortener.Link) {
	key := r.prefix + string(link.Code)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"id":           link.ID,
		"code":         string(link.Code),
		"original_url": link.OriginalURL,
		"owner_email":  link.OwnerEmail,
		"clicks":       link.Clicks,
		"created_at":   link.CreatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
