package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ishuesiah/time-tracker-sevalla/internal/config"
	"github.com/ishuesiah/time-tracker-sevalla/internal/ledger"
	"github.com/ishuesiah/time-tracker-sevalla/internal/report"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/connection"
)

// One-shot report sender, meant to be run from cron. Exits non-zero when
// the report could not be built or delivered.
func main() {
	weeks := flag.Int("weeks", 1, "number of weeks the report covers")
	to := flag.String("to", "", "comma-separated recipient override")
	flag.Parse()

	_ = godotenv.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DatabaseURL, 3)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	mailer, err := report.NewSESMailer(ctx)
	if err != nil {
		logger.Fatal("mailer setup failed", zap.Error(err))
	}

	events := ledger.NewRepository(gormDB, cfg.Timezone.String())
	svc := report.NewService(events, mailer, cfg.Timezone, cfg.ReportFrom, cfg.ReportTo)

	var recipients []string
	if *to != "" {
		for _, addr := range strings.Split(*to, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				recipients = append(recipients, addr)
			}
		}
	}

	res, err := svc.Send(ctx, *weeks, recipients)
	if err != nil {
		logger.Fatal("report failed", zap.Error(err))
	}
	if !res.Sent {
		logger.Fatal("report built but delivery failed",
			zap.String("start", res.Start), zap.String("end", res.End))
	}
	logger.Info("report sent",
		zap.String("start", res.Start),
		zap.String("end", res.End),
		zap.Int("recipients", res.Recipients))
}
