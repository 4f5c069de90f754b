package domain

import (
	"context"
	"time"
)

type ActivityLog struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
	UserEmail string    `json:"userEmail,omitempty"`
}

// ActivityFilter 零值字段不参与过滤
type ActivityFilter struct {
	UserID int64
	Since  time.Time
}

type ActivityRepository interface {
	Append(ctx context.Context, userID int64, action string) error
	List(ctx context.Context, f ActivityFilter) ([]ActivityLog, error)
}
