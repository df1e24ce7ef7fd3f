// Command server runs the fleet-operations HTTP API: the fuel ledger,
// mileage-threshold maintenance counters, compliance expiry scanner, and
// monthly budget monitor, all behind a Gin transport.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-fleet-backend/internal/alerting"
	"github.com/tbourn/go-fleet-backend/internal/config"
	httpapi "github.com/tbourn/go-fleet-backend/internal/http"
	"github.com/tbourn/go-fleet-backend/internal/observability"
	"github.com/tbourn/go-fleet-backend/internal/repo"
	"github.com/tbourn/go-fleet-backend/internal/services"
	"github.com/tbourn/go-fleet-backend/internal/sysutil"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing (no-op unless enabled).
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Database.
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	// Alert dispatcher with optional outbound webhook.
	var notifiers []alerting.Notifier
	if cfg.AlertWebhookURL != "" {
		notifiers = append(notifiers, alerting.NewWebhookNotifier(cfg.AlertWebhookURL, cfg.AlertWebhookSecret, cfg.AlertSendTimeout))
	}
	alerts := alerting.NewDispatcher(notifiers, cfg.AlertWorkers, cfg.AlertQueueSize, cfg.AlertSendTimeout)
	alerts.Start()
	defer alerts.Close()

	// Background compliance expiry scanner.
	compliance := services.NewComplianceService(db, alerts, cfg.ComplianceLookaheadDays, cfg.ComplianceScanInterval)
	go compliance.Run(ctx)

	// HTTP transport.
	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, alerts, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
