package user

import (
	"time"

	"gorm.io/gorm"
)

type UserModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	Role         string `gorm:"size:16;not null;default:user;check:chk_users_role,role IN ('user','admin')"`
	IsActive     bool   `gorm:"not null"` // 不设 default，否则 false 会被库默认值覆盖

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Profile  *ProfileModel  `gorm:"foreignKey:UserID"`
	Settings *SettingsModel `gorm:"foreignKey:UserID"`
}

func (UserModel) TableName() string { return "users" }

type ProfileModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	UserID      int64  `gorm:"uniqueIndex;not null"`
	DisplayName string `gorm:"size:120"`
	Bio         string `gorm:"size:1024"`
	AvatarURL   string `gorm:"size:512"`

	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ProfileModel) TableName() string { return "profiles" }

type SettingsModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	UserID        int64  `gorm:"uniqueIndex;not null"`
	Theme         string `gorm:"size:32"`
	Notifications bool

	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SettingsModel) TableName() string { return "settings" }

// ActivityLogModel 只追加，不更新
type ActivityLogModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"index;not null"`
	Action    string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	User *UserModel `gorm:"foreignKey:UserID"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }

// Models 需要迁移的全部表
func Models() []any {
	return []any{&UserModel{}, &ProfileModel{}, &SettingsModel{}, &ActivityLogModel{}}
}

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
