package app

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/ishuesiah/time-tracker-sevalla/internal/audit"
	"github.com/ishuesiah/time-tracker-sevalla/internal/config"
	"github.com/ishuesiah/time-tracker-sevalla/internal/dashboard"
	"github.com/ishuesiah/time-tracker-sevalla/internal/health"
	"github.com/ishuesiah/time-tracker-sevalla/internal/ledger"
	"github.com/ishuesiah/time-tracker-sevalla/internal/middleware"
	"github.com/ishuesiah/time-tracker-sevalla/internal/notify"
	"github.com/ishuesiah/time-tracker-sevalla/internal/rbac"
	"github.com/ishuesiah/time-tracker-sevalla/internal/report"
	"github.com/ishuesiah/time-tracker-sevalla/internal/slackcmd"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	gormDB *gorm.DB,
	rdb *redis.Client,
	mailer report.Mailer,
) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	// --- Repositories ---
	eventRepo := ledger.NewRepository(gormDB, cfg.Timezone.String())
	auditRepo := audit.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	ledgerService := ledger.NewService(sqlDB, eventRepo, cfg.Timezone)
	notifier := notify.NewSlackNotifier(cfg.SlackWebhookURL)
	slackService := slackcmd.NewService(ledgerService, notifier, cfg.Timezone)
	dashboardService := dashboard.NewService(sqlDB, eventRepo, auditRepo, cfg.Timezone)
	reportService := report.NewService(eventRepo, mailer, cfg.Timezone, cfg.ReportFrom, cfg.ReportTo)

	// --- Handlers ---
	ledgerHandler := ledger.NewHandler(ledgerService, cfg.Timezone)
	slackHandler := slackcmd.NewHandler(slackService)
	dashboardHandler := dashboard.NewHandler(dashboardService, cfg.Timezone)
	authHandler := dashboard.NewAuthHandler(cfg)
	reportHandler := report.NewHandler(reportService)
	healthHandler := health.NewHandler(sqlDB)

	// --- Middleware + Routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	secretGuard := middleware.APISecret(cfg.APISecret)
	root := router.Group("")
	ledger.RegisterRoutes(root, ledgerHandler, secretGuard, middleware.Idempotency(rdb))
	report.RegisterRoutes(root, reportHandler, secretGuard)
	slackcmd.RegisterRoutes(root, slackHandler, slackcmd.VerifySignature(cfg.SlackSigningSecret))
	dashboard.RegisterRoutes(router, dashboardHandler, authHandler, cfg.SessionSecret, enforcer)
	healthHandler.RegisterRoutes(router)

	return nil
}
