package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"authmini/internal/domain"
	"authmini/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("create user: %w", err)
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	if u.Role == "" {
		u.Role = domain.Role(m.Role)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).Preload("Profile").Preload("Settings").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return toDomain(&m), nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return toDomain(&m), nil
}

// likeEscaper 搜索词按字面匹配；'!' 作转义符，MySQL 字符串里的反斜杠本身要转义
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// List 邮箱模糊匹配不区分大小写，按 id 升序
func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Model(&user.UserModel{}).Preload("Profile")
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(email) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(s))+"%")
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	var ms []user.UserModel
	if err := q.Order("id ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(ms))
	for i := range ms {
		out = append(out, *toDomain(&ms[i]))
	}
	return out, nil
}

// SetActive 先查再改；MySQL 值未变化时 RowsAffected 为 0，不能据此判断不存在
func (r *UserRepo) SetActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&m).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("set user active: %w", err)
	}
	m.IsActive = active
	return toDomain(&m), nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if err := r.mustExist(ctx, r.db, id); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id).Update("password_hash", hash).Error
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *UserRepo) UpsertProfile(ctx context.Context, id int64, p domain.Profile) error {
	if err := r.mustExist(ctx, r.db, id); err != nil {
		return err
	}
	m := user.ProfileModel{UserID: id, DisplayName: p.DisplayName, Bio: p.Bio, AvatarURL: p.AvatarURL}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "bio", "avatar_url", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *UserRepo) UpsertSettings(ctx context.Context, id int64, s domain.Settings) error {
	if err := r.mustExist(ctx, r.db, id); err != nil {
		return err
	}
	m := user.SettingsModel{UserID: id, Theme: s.Theme, Notifications: s.Notifications}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"theme", "notifications", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// Delete 物理删除，先清理外键关联表
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.mustExist(ctx, tx, id); err != nil {
			return err
		}
		for _, m := range []any{&user.ProfileModel{}, &user.SettingsModel{}, &user.ActivityLogModel{}} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("delete user relations: %w", err)
			}
		}
		if err := tx.Delete(&user.UserModel{}, id).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

func (r *UserRepo) mustExist(ctx context.Context, db *gorm.DB, id int64) error {
	var n int64
	if err := db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func toDomain(m *user.UserModel) *domain.User {
	u := &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
	if m.Profile != nil {
		u.Profile = &domain.Profile{DisplayName: m.Profile.DisplayName, Bio: m.Profile.Bio, AvatarURL: m.Profile.AvatarURL}
	}
	if m.Settings != nil {
		u.Settings = &domain.Settings{Theme: m.Settings.Theme, Notifications: m.Settings.Notifications}
	}
	return u
}

// isDupKey 按驱动错误码判断；sqlite 依赖 TranslateError 翻译成 gorm.ErrDuplicatedKey
func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}
