package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"authmini/internal/domain"
)

// MinPasswordLen 修改密码时的最短长度
const MinPasswordLen = 6

type UserService struct {
	users    *UserStore
	hasher   Hasher
	activity *ActivityService
	log      *zap.Logger
}

func NewUserService(users *UserStore, h Hasher, act *ActivityService, log *zap.Logger) *UserService {
	return &UserService{users: users, hasher: h, activity: act, log: log}
}

func (s *UserService) UpdateProfile(ctx context.Context, id int64, p domain.Profile) error {
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if err := s.users.repo.UpsertProfile(ctx, id, p); err != nil {
		return wrap("update profile failed", err)
	}
	s.users.Forget(ctx, id)
	s.activity.Record(ctx, id, "Profile updated")
	return nil
}

func (s *UserService) UpdateSettings(ctx context.Context, id int64, st domain.Settings) error {
	if err := s.users.repo.UpsertSettings(ctx, id, st); err != nil {
		return wrap("update settings failed", err)
	}
	s.users.Forget(ctx, id)
	s.activity.Record(ctx, id, "Settings updated")
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, id int64, newPassword string) error {
	if len(newPassword) < MinPasswordLen {
		return domain.Validation("password must be at least 6 characters")
	}
	hash, err := s.hasher.Hash(newPassword)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return domain.Validation("password is too long")
	}
	if err != nil {
		return domain.Internal("hash password failed", err)
	}
	if err := s.users.repo.UpdatePassword(ctx, id, hash); err != nil {
		return wrap("change password failed", err)
	}
	s.users.Forget(ctx, id)
	s.activity.Record(ctx, id, "Password changed")
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	f.Search = strings.TrimSpace(f.Search)
	list, err := s.users.repo.List(ctx, f)
	if err != nil {
		return nil, domain.Internal("list users failed", err)
	}
	return list, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, domain.Internal("load user failed", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// SetActive 只影响之后的登录，已签发的令牌到期前仍有效
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	u, err := s.users.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, wrap("set active failed", err)
	}
	s.users.Forget(ctx, id)
	action := "User disabled"
	if active {
		action = "User enabled"
	}
	s.activity.Record(ctx, id, action)
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.repo.Delete(ctx, id); err != nil {
		return wrap("delete user failed", err)
	}
	s.users.Forget(ctx, id)
	s.log.Info("user deleted", zap.Int64("user_id", id))
	return nil
}
