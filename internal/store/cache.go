package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/pittrivia/internal/trivia"
)

const categoriesKey = "pittrivia:categories"

// CategoryStore is the question bank as the HTTP layer and the game manager
// see it.
type CategoryStore interface {
	ListCategories(ctx context.Context, enabledOnly bool) ([]trivia.Category, error)
	GetCategories(ctx context.Context, ids []string) ([]trivia.Category, error)
	SaveCategories(ctx context.Context, cats []trivia.Category) (SaveResult, error)
}

// CachedCategories keeps the whole question bank in Redis. Redis failures
// are logged and reads fall through to the wrapped store.
type CachedCategories struct {
	next   CategoryStore
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedCategories(next CategoryStore, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedCategories {
	return &CachedCategories{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedCategories) ListCategories(ctx context.Context, enabledOnly bool) ([]trivia.Category, error) {
	all, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	if !enabledOnly {
		return all, nil
	}
	out := make([]trivia.Category, 0, len(all))
	for _, cat := range all {
		if cat.Enabled {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (c *CachedCategories) GetCategories(ctx context.Context, ids []string) ([]trivia.Category, error) {
	all, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]trivia.Category, len(all))
	for _, cat := range all {
		byID[cat.ID] = cat
	}
	return pick(byID, ids), nil
}

// SaveCategories writes through and drops the cached bank.
func (c *CachedCategories) SaveCategories(ctx context.Context, cats []trivia.Category) (SaveResult, error) {
	res, err := c.next.SaveCategories(ctx, cats)
	if err != nil {
		return res, err
	}
	if err := c.rdb.Del(ctx, categoriesKey).Err(); err != nil {
		c.logger.Error("invalidating category cache", "error", err)
	}
	return res, nil
}

func (c *CachedCategories) all(ctx context.Context) ([]trivia.Category, error) {
	data, err := c.rdb.Get(ctx, categoriesKey).Bytes()
	switch {
	case err == nil:
		var cats []trivia.Category
		if err := json.Unmarshal(data, &cats); err == nil {
			return cats, nil
		}
		c.logger.Warn("discarding corrupt category cache")
	case !errors.Is(err, redis.Nil):
		c.logger.Error("reading category cache", "error", err)
	}

	cats, err := c.next.ListCategories(ctx, false)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(cats); err == nil {
		if err := c.rdb.Set(ctx, categoriesKey, data, c.ttl).Err(); err != nil {
			c.logger.Error("writing category cache", "error", err)
		}
	}
	return cats, nil
}

// RedisChecker adapts a Redis client to a health check.
type RedisChecker struct{ Client *redis.Client }

func (r RedisChecker) Check(ctx context.Context) error { return r.Client.Ping(ctx).Err() }
