package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/terra-clan/jury-engine/internal/models"
)

// errCacheMiss is returned by a Cache when the key is absent
var errCacheMiss = errors.New("cache miss")

// Cache is the key/value store behind CachedRepository
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache adapts a go-redis client to Cache
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a cache on the given client
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached bytes or errCacheMiss
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss
	}
	return data, err
}

// Set stores value under key for ttl
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// CachedRepository is a read-through cache of reference data (units and
// elements). Enrollment and scores always go to the underlying repository.
type CachedRepository struct {
	Repository
	cache Cache
	ttl   time.Duration
}

// NewCachedRepository wraps repo with cache
func NewCachedRepository(repo Repository, cache Cache, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedRepository{Repository: repo, cache: cache, ttl: ttl}
}

// FetchUnitsForJury returns cached units or loads and caches them
func (r *CachedRepository) FetchUnitsForJury(ctx context.Context, juryID int64) ([]models.UnitRow, error) {
	key := fmt.Sprintf("jury:%d:units", juryID)

	var units []models.UnitRow
	if r.load(ctx, key, &units) {
		return units, nil
	}

	units, err := r.Repository.FetchUnitsForJury(ctx, juryID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, units)

	return units, nil
}

// FetchElementsForUnit returns cached elements or loads and caches them
func (r *CachedRepository) FetchElementsForUnit(ctx context.Context, unitID int64) ([]*models.Element, error) {
	key := fmt.Sprintf("unit:%d:elements", unitID)

	var elements []*models.Element
	if r.load(ctx, key, &elements) {
		return elements, nil
	}

	elements, err := r.Repository.FetchElementsForUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, elements)

	return elements, nil
}

// load reports whether key was found and decoded into dst. Cache failures
// are logged and treated as misses.
func (r *CachedRepository) load(ctx context.Context, key string, dst any) bool {
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, errCacheMiss) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("discarding corrupt cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (r *CachedRepository) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}
