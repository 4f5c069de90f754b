package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"authmini/internal/domain"
	"authmini/internal/feature/user"
)

type ActivityRepo struct{ db *gorm.DB }

func NewActivityRepo(db *gorm.DB) *ActivityRepo { return &ActivityRepo{db: db} }

var _ domain.ActivityRepository = (*ActivityRepo)(nil)

func (r *ActivityRepo) Append(ctx context.Context, userID int64, action string) error {
	m := user.ActivityLogModel{UserID: userID, Action: action}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// List 最新的在前，附带用户邮箱
func (r *ActivityRepo) List(ctx context.Context, f domain.ActivityFilter) ([]domain.ActivityLog, error) {
	q := r.db.WithContext(ctx).Model(&user.ActivityLogModel{}).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "email") })
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	var ms []user.ActivityLogModel
	if err := q.Order("created_at DESC").Order("id DESC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	out := make([]domain.ActivityLog, 0, len(ms))
	for _, m := range ms {
		l := domain.ActivityLog{ID: m.ID, UserID: m.UserID, Action: m.Action, CreatedAt: m.CreatedAt}
		if m.User != nil {
			l.UserEmail = m.User.Email
		}
		out = append(out, l)
	}
	return out, nil
}
