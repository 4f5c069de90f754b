package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

type Profile struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
}

type Settings struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Profile      *Profile  `json:"profile,omitempty"`
	Settings     *Settings `json:"settings,omitempty"`
}

// UserFilter 后台列表筛选；Active 为 nil 表示不过滤
type UserFilter struct {
	Search string
	Active *bool
}

// UserRepository 查不到时 FindBy* 返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f UserFilter) ([]User, error)
	SetActive(ctx context.Context, id int64, active bool) (*User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpsertProfile(ctx context.Context, id int64, p Profile) error
	UpsertSettings(ctx context.Context, id int64, s Settings) error
	Delete(ctx context.Context, id int64) error
}
