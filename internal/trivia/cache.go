package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultCategoryTTL = 5 * time.Minute
	categoryCacheKey   = "trivia:categories"
)

type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CategoryCache is a Redis read-through cache in front of a CategoryRepository.
// Categories have no write path, so entries only expire.
type CategoryCache struct {
	next   CategoryRepository
	client cacheClient
	ttl    time.Duration
	logger zerolog.Logger
}

var _ CategoryRepository = (*CategoryCache)(nil)

func NewCategoryCache(next CategoryRepository, client cacheClient, ttl time.Duration, logger zerolog.Logger) *CategoryCache {
	if ttl <= 0 {
		ttl = defaultCategoryTTL
	}
	return &CategoryCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "category_cache").Logger(),
	}
}

// List serves categories from Redis, falling back to the wrapped repository.
// Redis failures never fail the call.
func (c *CategoryCache) List(ctx context.Context) ([]Category, error) {
	data, err := c.client.Get(ctx, categoryCacheKey).Bytes()
	switch {
	case err == nil:
		var cats []Category
		jsonErr := json.Unmarshal(data, &cats)
		if jsonErr == nil {
			return cats, nil
		}
		c.logger.Warn().Err(jsonErr).Msg("discarding undecodable category cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Msg("category cache read failed")
	}

	cats, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	// An empty table is not cached so newly seeded categories show up immediately.
	if len(cats) == 0 {
		return cats, nil
	}

	payload, err := json.Marshal(cats)
	if err != nil {
		return cats, nil
	}
	if err := c.client.Set(ctx, categoryCacheKey, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("category cache write failed")
	}
	return cats, nil
}
