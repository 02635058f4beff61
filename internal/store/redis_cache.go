package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
)

// CachedStore wraps a Repository with Redis caching on the link lookup path.
// The redirect path is read-heavy; clicks and counts always go to the
// underlying store so stats stay consistent.
type CachedStore struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCachedStore creates a Redis-cached repository decorator.
func NewCachedStore(store shortener.Repository, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		store:  store,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

// InsertLink writes through to the store and seeds the cache on success.
func (c *CachedStore) InsertLink(ctx context.Context, link *shortener.Link) error {
	if err := c.store.InsertLink(ctx, link); err != nil {
		return err
	}

	c.cacheLink(ctx, link)

	return nil
}

// GetLink returns the cached record when present, falling back to the store.
// Cache failures are never fatal; the store remains authoritative.
func (c *CachedStore) GetLink(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	if link, err := c.getFromCache(ctx, code); err == nil {
		return link, nil
	}

	link, err := c.store.GetLink(ctx, code)
	if err != nil {
		return nil, err
	}

	c.cacheLink(ctx, link)

	return link, nil
}

func (c *CachedStore) InsertClick(ctx context.Context, click *shortener.ClickEvent) error {
	return c.store.InsertClick(ctx, click)
}

func (c *CachedStore) CountClicks(ctx context.Context, code shortener.Code) (int64, error) {
	return c.store.CountClicks(ctx, code)
}

func (c *CachedStore) RecentClicks(
	ctx context.Context, code shortener.Code, limit int,
) ([]shortener.ClickEvent, error) {
	return c.store.RecentClicks(ctx, code, limit)
}

func (c *CachedStore) getFromCache(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	result, err := c.client.HGetAll(ctx, c.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	link := &shortener.Link{
		Code:        shortener.Code(result["code"]),
		OriginalURL: result["original_url"],
	}

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		link.CreatedAt = time.Unix(0, nanos).UTC()
	}

	if nanos, err := strconv.ParseInt(result["expires_at"], 10, 64); err == nil {
		link.ExpiresAt = time.Unix(0, nanos).UTC()
	}

	return link, nil
}

func (c *CachedStore) cacheLink(ctx context.Context, link *shortener.Link) {
	pipe := c.client.Pipeline()
	key := c.prefix + string(link.Code)

	pipe.HSet(ctx, key, map[string]interface{}{
		"code":         string(link.Code),
		"original_url": link.OriginalURL,
		"created_at":   link.CreatedAt.UnixNano(),
		"expires_at":   link.ExpiresAt.UnixNano(),
	})

	// Expired entries still resolve to ErrExpired, so cap the cache entry at
	// the configured TTL; no need to keep it past that even if the link lives
	// longer.
	ttl := c.ttl
	if remaining := time.Until(link.ExpiresAt); remaining > 0 && remaining < ttl {
		ttl = remaining
	}

	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Compile-time check.
var _ shortener.Repository = (*CachedStore)(nil)
