package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/api"
	"github.com/barberbook/barberbook/internal/auth"
	"github.com/barberbook/barberbook/internal/carrier"
	"github.com/barberbook/barberbook/internal/config"
	"github.com/barberbook/barberbook/internal/db"
	"github.com/barberbook/barberbook/internal/delivery"
	"github.com/barberbook/barberbook/internal/message"
	"github.com/barberbook/barberbook/internal/metrics"
	"github.com/barberbook/barberbook/internal/provider"
	"github.com/barberbook/barberbook/internal/queue"
	"github.com/barberbook/barberbook/internal/ratelimiter"
	"github.com/barberbook/barberbook/internal/repository"
	"github.com/barberbook/barberbook/internal/service"
	"github.com/barberbook/barberbook/internal/worker"
)

func main() {
	started := time.Now()
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	loc, _ := cfg.Digest.Location() // validated by config.Load

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	clients := repository.NewPgClientRepository(pool)
	appts := repository.NewPgAppointmentRepository(pool)
	deliveries := repository.NewPgDeliveryRepository(pool)
	users := repository.NewPgUserRepository(pool)

	// ---- notification pipeline ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	onSent, onFailed, onPause := m.DeliveryHooks()
	sender := delivery.NewPacedSender(
		newProvider(cfg.Mail, logger),
		ratelimiter.New(cfg.Pipeline.GatewayRatePerMinute),
		delivery.Config{
			From: cfg.Mail.Sender(),
			Schedule: delivery.Schedule{
				First: cfg.Pipeline.FirstDelay,
				Next:  cfg.Pipeline.NextDelay,
			},
		},
		logger.Named("delivery"),
		delivery.Hooks{OnSent: onSent, OnFailed: onFailed, OnPause: onPause},
	)

	if !cfg.Mail.Configured() {
		logger.Warn("mail transport is not configured: sends will fail",
			zap.String("transport", cfg.Mail.Transport))
	}
	notifications := service.NewNotificationService(
		carrier.NewDirectory(cfg.Pipeline.CarrierOverrides),
		message.NewChunker(cfg.Pipeline.MaxChunkLength),
		sender,
		appts,
		deliveries,
		service.NotificationConfig{
			BarberPhone:     cfg.Barber.PhoneNumber,
			BarberCarrier:   cfg.Barber.Carrier,
			EmailConfigured: cfg.Mail.Configured(),
			Location:        loc,
			SkipEmptyDigest: cfg.Digest.SkipEmpty,
		},
		m.ObserveDigest,
		logger.Named("notifications"),
	)

	// ---- application services ----
	q := queue.New(queue.DefaultHighCapacity, queue.DefaultNormalCapacity)
	metrics.WatchQueue(reg, q.Depths)

	authSvc := service.NewAuthService(
		users,
		auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		logger,
	)
	if err := authSvc.EnsureOwner(ctx, cfg.Auth.Username, cfg.Auth.Password); err != nil {
		logger.Fatal("failed to seed owner account", zap.Error(err))
	}

	svcs := api.Services{
		Auth:          authSvc,
		Clients:       service.NewClientService(clients),
		Appointments:  service.NewAppointmentService(appts, q, cfg.NotifyOnCreate, loc, logger),
		Notifications: notifications,
	}

	// ---- background workers ----
	// Context for all background goroutines; cancelled on shutdown signal.
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	workers := worker.NewPool(cfg.Workers, q, notifications, logger, worker.MetricHooks{OnJob: m.ObserveJob})
	workers.Start(workerCtx)

	digestDone := make(chan struct{})
	if cfg.Digest.Enabled {
		dw, err := worker.NewDigestWorker(cfg.Digest.Cron, loc, q, logger.Named("digest"))
		if err != nil {
			logger.Fatal("invalid digest schedule", zap.Error(err))
		}
		go func() {
			defer close(digestDone)
			dw.Run(workerCtx)
		}()
	} else {
		close(digestDone)
		logger.Info("daily digest disabled")
	}

	// ---- HTTP server ----
	router := api.NewRouter(svcs, reg, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Started:        started,
	}, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("transport", cfg.Mail.Transport),
			zap.String("barber_carrier", cfg.Barber.Carrier),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Stop the cron trigger and interrupt paced sends still waiting.
	cancelWorkers()
	<-digestDone

	// 3. Wait for workers to finish the part they are sending.
	workers.Wait()

	logger.Info("server stopped cleanly")
}

func newProvider(cfg config.Mail, logger *zap.Logger) provider.Provider {
	switch cfg.Transport {
	case "webhook":
		return provider.NewWebhookProvider(provider.WebhookConfig{
			URL:     cfg.WebhookURL,
			Token:   cfg.WebhookToken,
			Timeout: cfg.Timeout,
		})
	case "log":
		return provider.NewLogProvider(logger.Named("mail"))
	default:
		return provider.NewSMTPProvider(provider.SMTPConfig{
			Host:               cfg.SMTPHost,
			Port:               cfg.SMTPPort,
			Username:           cfg.Username,
			Password:           cfg.Password,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			Timeout:            cfg.Timeout,
		})
	}
}
