package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"authmini/internal/core/cache"
	"authmini/internal/domain"
)

// DefaultUserTTL 用户缓存默认有效期
const DefaultUserTTL = 5 * time.Minute

// UserStore 用户仓储 + 读穿缓存。cache 为 nil 时直接读库
type UserStore struct {
	repo  domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewUserStore(repo domain.UserRepository, c *cache.Cache, ttl time.Duration) *UserStore {
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	return &UserStore{repo: repo, cache: c, ttl: ttl}
}

func userKey(id int64) string { return "user:" + strconv.FormatInt(id, 10) }

// Get 缓存里的用户不含密码摘要，只能用于展示
func (s *UserStore) Get(ctx context.Context, id int64) (*domain.User, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, userKey(id), s.ttl, func(ctx context.Context) (*domain.User, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// Forget 所有写操作之后调用
func (s *UserStore) Forget(ctx context.Context, id int64) {
	_ = s.cache.Delete(ctx, userKey(id))
}

// wrap 业务错误原样返回，其余包成 Internal
func wrap(msg string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Internal(msg, err)
}
