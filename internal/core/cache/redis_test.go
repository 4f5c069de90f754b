package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetOrLoadJSON_CachesAfterFirstLoad(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*item, error) {
		calls++
		return &item{ID: 1, Email: "a@x.com"}, nil
	}

	got, err := GetOrLoadJSON(c, ctx, "user:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	got, err = GetOrLoadJSON(c, ctx, "user:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, 1, calls)

	assert.True(t, mr.Exists("authmini:user:1"))
	assert.Equal(t, time.Minute, mr.TTL("authmini:user:1"))
}

func TestGetOrLoadJSON_MissingNotCached(t *testing.T) {
	c, mr := newTestCache(t)

	got, err := GetOrLoadJSON(c, context.Background(), "user:9", time.Minute, func(context.Context) (*item, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("authmini:user:9"))
}

func TestGetOrLoadJSON_LoadError(t *testing.T) {
	c, _ := newTestCache(t)
	boom := errors.New("db down")

	_, err := GetOrLoadJSON(c, context.Background(), "user:2", time.Minute, func(context.Context) (*item, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestDelete_ForcesReload(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	email := "old@x.com"
	load := func(context.Context) (*item, error) { return &item{ID: 3, Email: email}, nil }

	_, err := GetOrLoadJSON(c, ctx, "user:3", time.Minute, load)
	require.NoError(t, err)

	email = "new@x.com"
	require.NoError(t, c.Delete(ctx, "user:3"))

	got, err := GetOrLoadJSON(c, ctx, "user:3", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", got.Email)
}

func TestDelete_DuringLoadDiscardsStaleValue(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	email := "old@x.com"
	calls := 0
	load := func(context.Context) (*item, error) {
		calls++
		v := &item{ID: 4, Email: email}
		if calls == 1 {
			// 回源读到旧行之后，写操作提交并失效缓存
			email = "new@x.com"
			require.NoError(t, c.Delete(ctx, "user:4"))
		}
		return v, nil
	}

	got, err := GetOrLoadJSON(c, ctx, "user:4", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "old@x.com", got.Email)
	assert.False(t, mr.Exists("authmini:user:4"))

	got, err = GetOrLoadJSON(c, ctx, "user:4", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", got.Email)
	assert.Equal(t, 2, calls)
	assert.True(t, mr.Exists("authmini:user:4"))
}

func TestNilCache_PassesThrough(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	calls := 0
	for i := 0; i < 2; i++ {
		got, err := GetOrLoadJSON(c, ctx, "user:1", time.Minute, func(context.Context) (*item, error) {
			calls++
			return &item{ID: 1}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
	}
	assert.Equal(t, 2, calls)
	assert.NoError(t, c.Delete(ctx, "user:1"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestGetOrLoad_RedisDownFallsBack(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	b, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("v"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))
}
