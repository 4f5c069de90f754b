package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"authmini/internal/domain"
)

// Hasher 口令摘要，实现见 pkg/utils.PasswordHasher
type Hasher interface {
	Hash(pw string) (string, error)
	Verify(pw, hashed string) bool
}

// TokenIssuer 实现见 auth.JWTer
type TokenIssuer interface {
	Issue(id int64, email string, role domain.Role) (string, error)
}

// Identity 登录返回的用户视图，不含摘要
type Identity struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type LoginResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

type AuthService struct {
	users    *UserStore
	hasher   Hasher
	tokens   TokenIssuer
	activity *ActivityService
	log      *zap.Logger

	dummyHash string // 用户不存在时也做一次校验，耗时对齐
}

func NewAuthService(users *UserStore, h Hasher, t TokenIssuer, act *ActivityService, log *zap.Logger) *AuthService {
	dummy, _ := h.Hash("authmini-dummy-password")
	return &AuthService{users: users, hasher: h, tokens: t, activity: act, log: log, dummyHash: dummy}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (int64, error) {
	if email == "" || password == "" {
		registrations.WithLabelValues("rejected").Inc()
		return 0, domain.Validation("email and password are required")
	}
	existing, err := s.users.repo.FindByEmail(ctx, email)
	if err != nil {
		registrations.WithLabelValues("error").Inc()
		return 0, domain.Internal("lookup user failed", err)
	}
	if existing != nil {
		registrations.WithLabelValues("rejected").Inc()
		return 0, domain.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		registrations.WithLabelValues("rejected").Inc()
		return 0, domain.Validation("password is too long")
	}
	if err != nil {
		registrations.WithLabelValues("error").Inc()
		return 0, domain.Internal("hash password failed", err)
	}

	u := &domain.User{Email: email, PasswordHash: hash, Role: domain.RoleUser, IsActive: true}
	if err := s.users.repo.Create(ctx, u); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, domain.ErrDuplicateKey) {
			registrations.WithLabelValues("rejected").Inc()
			return 0, domain.ErrDuplicateEmail
		}
		registrations.WithLabelValues("error").Inc()
		return 0, domain.Internal("create user failed", err)
	}
	registrations.WithLabelValues("success").Inc()
	s.activity.Record(ctx, u.ID, "User registered")
	return u.ID, nil
}

// Login 不存在 / 已禁用 / 密码错误 三种情况返回同一个错误
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.repo.FindByEmail(ctx, email)
	if err != nil {
		loginAttempts.WithLabelValues("error").Inc()
		return nil, domain.Internal("lookup user failed", err)
	}
	if u == nil {
		s.hasher.Verify(password, s.dummyHash)
		loginAttempts.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	ok := s.hasher.Verify(password, u.PasswordHash)
	if !ok || !u.IsActive {
		loginAttempts.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		loginAttempts.WithLabelValues("error").Inc()
		return nil, domain.Internal("issue token failed", err)
	}
	loginAttempts.WithLabelValues("success").Inc()
	s.activity.Record(ctx, u.ID, "User logged in")
	return &LoginResult{
		Token: token,
		User:  Identity{ID: u.ID, Email: u.Email, Role: u.Role},
	}, nil
}

// Me 令牌已由网关校验，这里按 id 重新取最新数据
func (s *AuthService) Me(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, domain.Internal("load user failed", err)
	}
	if u == nil {
		return nil, domain.ErrInvalidToken
	}
	return u, nil
}
