package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/seat_reservation/internal/adapter/handler"
	"github.com/srgjo27/seat_reservation/internal/adapter/lock"
	"github.com/srgjo27/seat_reservation/internal/adapter/payment"
	"github.com/srgjo27/seat_reservation/internal/adapter/publisher"
	"github.com/srgjo27/seat_reservation/internal/adapter/repository/memory"
	"github.com/srgjo27/seat_reservation/internal/adapter/repository/postgres"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
	"github.com/srgjo27/seat_reservation/internal/core/services"
	"github.com/srgjo27/seat_reservation/internal/platform/cache"
	"github.com/srgjo27/seat_reservation/internal/platform/config"
	"github.com/srgjo27/seat_reservation/internal/platform/database"
)

type outcomePublisher interface {
	ports.OutcomePublisher
	Close() error
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log := newLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store ports.InventoryStore
	var db *sql.DB
	if cfg.Database.Driver == "memory" {
		log.Warn("using in-process inventory store, state is lost on restart")
		store = memory.NewStore()
	} else {
		db, err = database.NewPostgresDB(ctx, cfg.Database, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to db after retries")
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db); err != nil {
			log.WithError(err).Fatal("failed to run migrations")
		}
		store = postgres.NewStore(db)
	}

	var lockStore ports.LockStore
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	switch {
	case errors.Is(err, cache.ErrNoAddress):
		log.Warn("redis not configured, seat locks are local to this instance")
		lockStore = lock.NewMemoryLockStore()
	case err != nil:
		log.WithError(err).Fatal("failed to connect to redis")
	default:
		defer redisClient.Close()
		lockStore = lock.NewRedisLockStore(redisClient)
	}

	var outcomes outcomePublisher
	if len(cfg.Kafka.Brokers) > 0 {
		log.WithField("brokers", cfg.Kafka.Brokers).Info("publishing payment outcomes to kafka")
		outcomes = publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	} else {
		outcomes = publisher.NewLogPublisher(log)
	}
	defer func() {
		if err := outcomes.Close(); err != nil {
			log.WithError(err).Error("failed to close publisher")
		}
	}()

	gateway := payment.NewCheckoutClient(payment.CheckoutConfig{
		BaseURL:    cfg.Payment.BaseURL,
		SecretKey:  cfg.Payment.SecretKey,
		SuccessURL: cfg.Payment.SuccessURL,
		CancelURL:  cfg.Payment.CancelURL,
		Timeout:    cfg.Payment.Timeout,
	})
	verifier := payment.NewWebhookVerifier(cfg.Payment.WebhookSecret, cfg.Payment.WebhookTolerance)
	if cfg.Payment.WebhookSecret == "" {
		log.Warn("payment.webhook_secret is empty, every webhook will be rejected")
	}

	projector := services.NewAvailabilityProjector(store, log)
	lockManager := services.NewSeatLockManager(lockStore, cfg.Booking.LockTTL, log)

	bookingService := services.NewBookingService(store, lockManager, gateway, projector, cfg.Payment.Currency, log)
	cancellationService := services.NewCancellationService(store, projector, log)
	reconciliationService := services.NewReconciliationService(store, projector, outcomes, log)
	eventService := services.NewEventService(store, log)

	go projector.RunAvailabilitySweep(ctx, cfg.Worker.AvailabilitySweepInterval)

	gin.SetMode(cfg.Server.Mode)
	router := handler.NewRouter(
		handler.NewEventHandler(eventService, log),
		handler.NewBookingHandler(bookingService, cancellationService, log),
		handler.NewWebhookHandler(verifier, reconciliationService, log),
		log,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server startup failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		return
	}

	log.Info("server exiting")
}
