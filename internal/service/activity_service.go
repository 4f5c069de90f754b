package service

import (
	"context"

	"go.uber.org/zap"

	"authmini/internal/domain"
)

type ActivityService struct {
	repo domain.ActivityRepository
	log  *zap.Logger
}

func NewActivityService(repo domain.ActivityRepository, log *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, log: log}
}

// Record 尽力而为：失败只记日志，不影响主流程
func (s *ActivityService) Record(ctx context.Context, userID int64, action string) {
	if s == nil || s.repo == nil {
		return
	}
	if err := s.repo.Append(ctx, userID, action); err != nil {
		s.log.Warn("activity log write failed",
			zap.Int64("user_id", userID),
			zap.String("action", action),
			zap.Error(err))
	}
}

func (s *ActivityService) List(ctx context.Context, f domain.ActivityFilter) ([]domain.ActivityLog, error) {
	logs, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, domain.Internal("list activity failed", err)
	}
	return logs, nil
}
