package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nft-gate.backend/internal/app"
	"nft-gate.backend/internal/config"
	"nft-gate.backend/internal/infrastructure/datasources/postgres"
	"nft-gate.backend/internal/infrastructure/jobs"
	"nft-gate.backend/pkg/logger"
	"nft-gate.backend/pkg/redis"
)

type cycleRunner interface {
	RunCycle(ctx context.Context) (*jobs.CycleReport, error)
}

type recheckDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (cycleRunner, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type dbCloser struct{ db *gorm.DB }

func (c dbCloser) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func defaultRecheckDeps() recheckDeps {
	return recheckDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (cycleRunner, io.Closer, error) {
			if cfg.Redis.Enabled() {
				if err := redis.Init(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
					return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
				}
			}

			db, err := postgres.NewConnection(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			if err := postgres.Migrate(db); err != nil {
				_ = dbCloser{db}.Close()
				return nil, nil, fmt.Errorf("failed to migrate db: %w", err)
			}

			container, err := app.NewContainer(cfg, db)
			if err != nil {
				_ = dbCloser{db}.Close()
				return nil, nil, err
			}
			return container.Scheduler, dbCloser{db}, nil
		},
		out: os.Stdout,
	}
}

func runRecheck(ctx context.Context, args []string, deps recheckDeps) error {
	def := defaultRecheckDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("recheck", flag.ContinueOnError)
	maxUsers := fs.Int("max-users", 0, "override SCHEDULER_MAX_USERS_PER_CYCLE")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	if *maxUsers > 0 {
		cfg.Scheduler.MaxUsersPerCycle = *maxUsers
	}
	logger.Init(cfg.Server.Env)

	runner, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	report, err := runner.RunCycle(ctx)
	if report != nil {
		enc := json.NewEncoder(deps.out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	}
	if err != nil {
		logger.Error(ctx, "Re-verification cycle failed", zap.Error(err))
		return fmt.Errorf("re-verification cycle failed: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runRecheck(ctx, os.Args[1:], defaultRecheckDeps()); err != nil {
		log.Fatal(err)
	}
}
