package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/course"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE PROGRESS AND CATALOG CACHES
// The per-user progress cache is the optimistic mutation's rollback target;
// the catalog cache is organization-wide with a longer TTL.
// ══════════════════════════════════════════════════════════════════════════════

// ProgressCache is the Redis-backed per-user course progress cache.
type ProgressCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProgressCache creates a new ProgressCache. A non-positive TTL falls
// back to the default.
func NewProgressCache(client *redis.Client, ttl time.Duration) *ProgressCache {
	if ttl <= 0 {
		ttl = TTLProgressCache
	}
	return &ProgressCache{client: client, ttl: ttl}
}

// Get returns the cached collection and whether a cached value exists.
func (c *ProgressCache) Get(ctx context.Context, userID string) ([]course.ProgressEntry, bool, error) {
	if userID == "" {
		return nil, false, ErrKeyEmpty
	}

	data, err := c.client.Get(ctx, PrefixProgress+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var entries []course.ProgressEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// Set replaces the cached collection.
func (c *ProgressCache) Set(ctx context.Context, userID string, entries []course.ProgressEntry) error {
	if userID == "" {
		return ErrKeyEmpty
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, PrefixProgress+userID, data, c.ttl).Err()
}

// Invalidate drops the cached collection. Idempotent.
func (c *ProgressCache) Invalidate(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrKeyEmpty
	}
	return c.client.Del(ctx, PrefixProgress+userID).Err()
}

// CatalogCache is the Redis-backed organization-wide catalog cache.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a new CatalogCache. A non-positive TTL falls back
// to the default.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = TTLCatalogCache
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get returns the cached catalog and whether a cached value exists.
func (c *CatalogCache) Get(ctx context.Context) ([]course.Course, bool, error) {
	data, err := c.client.Get(ctx, KeyCatalog).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var courses []course.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, false, err
	}
	return courses, true, nil
}

// Set replaces the cached catalog.
func (c *CatalogCache) Set(ctx context.Context, courses []course.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, KeyCatalog, data, c.ttl).Err()
}

// Invalidate drops the cached catalog. Idempotent.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, KeyCatalog).Err()
}
