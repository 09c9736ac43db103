package store

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/pittrivia/internal/trivia"
)

// countingStore records how often the wrapped store is read.
type countingStore struct {
	CategoryStore
	lists int
}

func (c *countingStore) ListCategories(ctx context.Context, enabledOnly bool) ([]trivia.Category, error) {
	c.lists++
	return c.CategoryStore.ListCategories(ctx, enabledOnly)
}

func newCache(t *testing.T) (*CachedCategories, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	next := &countingStore{CategoryStore: newTestStore(t)}
	_, err := next.SaveCategories(context.Background(), []trivia.Category{
		category("a", 0, true), category("b", 1, false), category("c", 2, true),
	})
	require.NoError(t, err)
	return NewCachedCategories(next, rdb, time.Minute, slog.Default()), next, mr
}

func TestCacheServesRepeatReads(t *testing.T) {
	c, next, mr := newCache(t)
	ctx := context.Background()

	got, err := c.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(got))
	assert.True(t, mr.Exists(categoriesKey))

	got, err = c.GetCategories(ctx, []string{"c", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(got))

	all, err := c.ListCategories(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 1, next.lists)
}

func TestCacheInvalidatedOnSave(t *testing.T) {
	c, next, mr := newCache(t)
	ctx := context.Background()

	_, err := c.ListCategories(ctx, false)
	require.NoError(t, err)

	_, err = c.SaveCategories(ctx, []trivia.Category{category("z", 0, true)})
	require.NoError(t, err)
	assert.False(t, mr.Exists(categoriesKey))

	got, err := c.ListCategories(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, ids(got))
	assert.Equal(t, 2, next.lists)
}

func TestCacheExpires(t *testing.T) {
	c, next, mr := newCache(t)
	ctx := context.Background()

	_, err := c.ListCategories(ctx, false)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = c.ListCategories(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, next.lists)
}

func TestCacheFallsThroughWhenRedisIsDown(t *testing.T) {
	c, next, mr := newCache(t)
	mr.Close()

	got, err := c.ListCategories(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(got))
	assert.Equal(t, 1, next.lists)
}
