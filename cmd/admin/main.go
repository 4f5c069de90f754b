// admin 运维命令：建表、灌演示数据、创建管理员
//
//	admin migrate
//	admin seed
//	admin create-admin -email ops@example.com -password 's3cret!'
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"authmini/internal/core/config"
	"authmini/internal/core/database"
	"authmini/internal/core/logger"
	"authmini/internal/domain"
	"authmini/internal/feature/user"
	"authmini/internal/repo"
	"authmini/internal/seed"
	"authmini/pkg/utils"
)

const usage = `usage: admin <command> [flags]

commands:
  migrate        create or update tables
  seed           insert demo accounts (existing emails are skipped)
  create-admin   create an admin account (-email, -password)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.NewFromConfig(cfg.Log)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.Error("admin command failed", zap.String("cmd", os.Args[1]), zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, cmd string, args []string) error {
	switch cmd {
	case "migrate", "seed", "create-admin":
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := user.AutoMigrate(db); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if cmd == "migrate" {
		log.Info("automigrate done", zap.String("driver", cfg.DB.Driver))
		return nil
	}

	s := &seed.Seeder{
		Users:  repo.NewUserRepo(db),
		Hasher: utils.NewPasswordHasher(cfg.Security.BcryptCost),
		Log:    log,
	}

	if cmd == "seed" {
		n, err := s.Run(ctx, seed.Demo)
		if err != nil {
			return err
		}
		log.Info("seed done", zap.Int("created", n))
		return nil
	}

	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ok, err := s.Create(ctx, seed.Account{Email: *email, Password: *password, Role: domain.RoleAdmin, Active: true})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("email %s already registered", *email)
	}
	return nil
}

func openDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	return database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
}
