// Package testutil 测试共用的数据库与日志构造
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"authmini/internal/core/database"
	"authmini/internal/feature/user"
)

// NewDB 单连接的内存 sqlite，已迁移；连接关闭即数据消失
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file::memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := user.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func NopLogger() *zap.Logger { return zap.NewNop() }
