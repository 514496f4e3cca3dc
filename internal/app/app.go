package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ishuesiah/time-tracker-sevalla/internal/audit"
	"github.com/ishuesiah/time-tracker-sevalla/internal/config"
	"github.com/ishuesiah/time-tracker-sevalla/internal/ledger"
	"github.com/ishuesiah/time-tracker-sevalla/internal/report"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/connection"
)

// BuildApp connects the infrastructure, runs migrations, and registers
// every module's routes on the router.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DatabaseURL, 5)
	if err != nil {
		return err
	}

	if err := gormDB.AutoMigrate(
		&ledger.ClockEvent{},
		&ledger.RemoteEmployee{},
		&audit.Entry{},
	); err != nil {
		return err
	}

	// Redis backs push idempotency only; the app runs without it.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
		if err != nil {
			zap.L().Warn("redis unavailable, idempotency disabled", zap.Error(err))
			rdb = nil
		}
	}

	mailer, err := report.NewSESMailer(context.Background())
	if err != nil {
		return err
	}

	return registerModules(router, cfg, gormDB, rdb, mailer)
}
