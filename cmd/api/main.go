package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/carepointhealth/patient-flow-backend/internal/infrastructure/cache"
	"github.com/carepointhealth/patient-flow-backend/internal/infrastructure/config"
	"github.com/carepointhealth/patient-flow-backend/internal/infrastructure/database"
	"github.com/carepointhealth/patient-flow-backend/internal/infrastructure/notification"
	"github.com/carepointhealth/patient-flow-backend/internal/infrastructure/telemetry"
	monitoringsvc "github.com/carepointhealth/patient-flow-backend/internal/service/monitoring"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	redisClient, err := cache.NewRedisClient(&cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer redisClient.Close()

	pool, err := database.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	metrics := monitoringsvc.NewMetrics(registry)

	sessions := cache.NewSessionStore(redisClient, cfg.Monitoring.SessionTTL, logger)
	events := database.NewSecurityEventRepository(pool)
	errorLog := database.NewErrorLogRepository(pool)

	var notifier monitoringsvc.Notifier
	if cfg.Notification.WebhookURL != "" {
		webhook := notification.NewWebhookNotifier(cfg.Notification.WebhookURL, cfg.Notification.Timeout, logger)
		notifier = notification.NewRateLimited(webhook, cfg.Notification.RatePerMinute, cfg.Notification.Burst, logger)
	}

	recorder := monitoringsvc.NewActivityRecorder(monitoringConfig(cfg), sessions, events, errorLog, notifier, logger, metrics)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/api/v1/security/report", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		report := recorder.GenerateSecurityReport(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.Error("failed to write report response", zap.Error(err))
		}
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.Int("port", cfg.Server.Port),
			zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func monitoringConfig(cfg *config.Config) monitoringsvc.Config {
	return monitoringsvc.Config{
		EvaluationWindow:     cfg.Monitoring.EvaluationWindow,
		RateLimitThreshold:   cfg.Monitoring.RateLimitThreshold,
		AuthFailureThreshold: cfg.Monitoring.AuthFailureThreshold,
		PhiAccessThreshold:   cfg.Monitoring.PhiAccessThreshold,
		ActivityRetention:    cfg.Monitoring.ActivityRetention,
		EventRetention:       time.Duration(cfg.Monitoring.EventRetentionDays) * 24 * time.Hour,
		MaxEventsPerUser:     cfg.Monitoring.MaxEventsPerUser,
		StoreTimeout:         cfg.Monitoring.StoreTimeout,
		Environment:          cfg.Environment,
		AlertRecipient:       cfg.Notification.Recipient,
	}
}
