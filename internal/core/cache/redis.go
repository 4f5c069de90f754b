package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache 读穿缓存；nil *Cache 可直接使用，等同于关闭缓存
type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(rdb *redis.Client) *Cache {
	return &Cache{RDB: rdb, Prefix: "authmini:"}
}

func (c *Cache) key(k string) string { return c.Prefix + k }

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

// genTTL 代数键的有效期，需远大于任何一次回源耗时
const genTTL = 24 * time.Hour

// 代数未变才写入：回源期间发生过 Delete 时丢弃旧值
var setIfGen = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') == ARGV[1] then
  return redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
end
return 0
`)

func genKey(full string) string { return full + ":gen" }

// GetOrLoad redis 不可用时直接回源，写缓存失败忽略
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	full := c.key(key)
	// 先读缓存
	if b, err := c.RDB.Get(ctx, full).Bytes(); err == nil {
		return b, nil
	}
	gen, err := c.RDB.Get(ctx, genKey(full)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		return load(ctx)
	}
	// single flight 按代数合并回源，Delete 之后的读取不会拿到之前那次回源的结果
	v, err, _ := c.sf.Do(full+"#"+gen, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = setIfGen.Run(ctx, c.RDB, []string{full, genKey(full)}, gen, b, ttl.Milliseconds()).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Delete 写操作后调用：先推进代数再删键，使进行中的回源不能回填旧值
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			fk := c.key(k)
			full = append(full, fk)
			p.Incr(ctx, genKey(fk))
			p.Expire(ctx, genKey(fk), genTTL)
		}
		p.Del(ctx, full...)
		return nil
	})
	return err
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}
