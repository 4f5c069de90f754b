// Package seed 本地/测试环境的初始数据
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"authmini/internal/domain"
	"authmini/internal/service"
)

type Account struct {
	Email    string
	Password string
	Role     domain.Role
	Active   bool
	Profile  *domain.Profile
	Settings *domain.Settings
}

// Demo 演示账号；管理员只能通过这里或 create-admin 创建
var Demo = []Account{
	{Email: "admin@example.com", Password: "admin123", Role: domain.RoleAdmin, Active: true,
		Profile: &domain.Profile{DisplayName: "Administrator"}, Settings: &domain.Settings{Theme: "dark", Notifications: true}},
	{Email: "user1@example.com", Password: "user123", Role: domain.RoleUser, Active: true,
		Profile: &domain.Profile{DisplayName: "User One", Bio: "First demo user"}, Settings: &domain.Settings{Theme: "light", Notifications: true}},
	{Email: "user2@example.com", Password: "user123", Role: domain.RoleUser, Active: true,
		Profile: &domain.Profile{DisplayName: "User Two"}, Settings: &domain.Settings{Theme: "light"}},
	{Email: "disabled@example.com", Password: "user123", Role: domain.RoleUser, Active: false},
}

type Seeder struct {
	Users  domain.UserRepository
	Hasher service.Hasher
	Log    *zap.Logger
}

// Run 已存在的邮箱跳过，可重复执行
func (s *Seeder) Run(ctx context.Context, accounts []Account) (int, error) {
	created := 0
	for _, a := range accounts {
		ok, err := s.Create(ctx, a)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// Create 返回 false 表示邮箱已存在
func (s *Seeder) Create(ctx context.Context, a Account) (bool, error) {
	if a.Email == "" || a.Password == "" {
		return false, domain.Validation("email and password are required")
	}
	if !a.Role.Valid() {
		return false, domain.Validation(fmt.Sprintf("invalid role %q", a.Role))
	}
	hash, err := s.Hasher.Hash(a.Password)
	if err != nil {
		return false, fmt.Errorf("hash %s: %w", a.Email, err)
	}
	u := &domain.User{Email: a.Email, PasswordHash: hash, Role: a.Role, IsActive: a.Active}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			s.Log.Info("seed skip existing", zap.String("email", a.Email))
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", a.Email, err)
	}
	if a.Profile != nil {
		if err := s.Users.UpsertProfile(ctx, u.ID, *a.Profile); err != nil {
			return false, fmt.Errorf("profile %s: %w", a.Email, err)
		}
	}
	if a.Settings != nil {
		if err := s.Users.UpsertSettings(ctx, u.ID, *a.Settings); err != nil {
			return false, fmt.Errorf("settings %s: %w", a.Email, err)
		}
	}
	s.Log.Info("seed created", zap.String("email", a.Email), zap.String("role", string(a.Role)), zap.Int64("id", u.ID))
	return true, nil
}
