package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	displayhandler "onsite/internal/display/handler"
	"onsite/internal/platform/config"
	"onsite/internal/platform/httpserver"
	"onsite/internal/platform/kafka/consumer"
	"onsite/internal/platform/logger"
	"onsite/internal/platform/middleware"
	"onsite/internal/platform/postgres"
	platformredis "onsite/internal/platform/redis"
	"onsite/internal/platform/token"
	presencehandler "onsite/internal/presence/handler"
	"onsite/internal/presence/metrics"
	presenceservice "onsite/internal/presence/service"
	presencestore "onsite/internal/presence/store"
	rosterstore "onsite/internal/roster/store"
	"onsite/internal/scan/ingest"
	settingshandler "onsite/internal/settings/handler"
	settingsstore "onsite/internal/settings/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps
// the server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("schema applied")
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	roster := rosterstore.NewPostgres(db)
	settingsStore := settingsstore.NewPostgres(db)

	// Presence records live in Redis when configured so every instance
	// sees the same latest scan; otherwise PostgreSQL holds them.
	var records presenceservice.RecordStore
	if redisClient != nil {
		defer redisClient.Close()
		records = presencestore.NewRedis(redisClient.Client)
		log.Info("presence store: redis")
	} else {
		records = presencestore.NewPostgres(db)
		log.Info("presence store: postgres")
	}

	loc, ok := cfg.Location()
	if !ok && cfg.SiteTimezone != "" {
		log.Warn("unknown site timezone, using system default", "zone", cfg.SiteTimezone)
	}

	svc := presenceservice.New(roster, records, settingsStore, loc,
		presenceservice.WithLogger(log),
		presenceservice.WithMetrics(metrics.New()),
	)

	var validator *token.Validator
	if cfg.ScannerJWTKey != "" {
		validator = token.NewValidator(cfg.ScannerJWTKey)
	} else {
		log.Warn("SCANNER_JWT_KEY not set, scan endpoint disabled")
	}

	router := chi.NewRouter()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Logger(log),
	)

	var tokenValidator middleware.TokenValidator
	if validator != nil {
		tokenValidator = validator
	}
	presencehandler.New(svc, log, tokenValidator).Register(router)
	displayhandler.New(settingsStore, log).Register(router)
	if cfg.AdminToken != "" {
		settingshandler.New(settingsStore, cfg.AdminToken, log).Register(router)
	} else {
		log.Warn("ADMIN_TOKEN not set, settings API disabled")
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if len(cfg.KafkaBrokers) > 0 {
		if err := consumer.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.KafkaTopic); err != nil {
			log.Error("kafka topic setup failed", "error", err)
			os.Exit(1)
		}
		cons, err := consumer.New(consumer.Config{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			Group:   cfg.KafkaGroup,
		}, ingest.New(svc, log), log)
		if err != nil {
			log.Error("kafka consumer setup failed", "error", err)
			os.Exit(1)
		}
		group.Go(func() error {
			log.Info("starting scan consumer", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroup)
			return cons.Run(groupCtx)
		})
	}

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
