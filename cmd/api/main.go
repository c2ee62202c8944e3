package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/talentbridgehq/talentbridge-backend/api/routes"
	"github.com/talentbridgehq/talentbridge-backend/internal/assignments"
	"github.com/talentbridgehq/talentbridge-backend/internal/audit"
	"github.com/talentbridgehq/talentbridge-backend/internal/candidates"
	"github.com/talentbridgehq/talentbridge-backend/internal/users"
	"github.com/talentbridgehq/talentbridge-backend/pkg/config"
	"github.com/talentbridgehq/talentbridge-backend/pkg/db"
	"github.com/talentbridgehq/talentbridge-backend/pkg/logger"
	"github.com/talentbridgehq/talentbridge-backend/pkg/metrics"
	"github.com/talentbridgehq/talentbridge-backend/pkg/migrate"
	pkgredis "github.com/talentbridgehq/talentbridge-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis is optional: without it the per-agent lock and the idempotency
	// cache are disabled and the API still serves.
	var redisClient *pkgredis.Client
	if cfg.Redis.Configured() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, assignment locking and idempotency disabled")
	}

	registry := prometheus.NewRegistry()
	assignmentMetrics := metrics.NewAssignmentMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	profilesRepo := candidates.NewRepository(dbClient.DB())
	assignmentsRepo := assignments.NewRepository(dbClient.DB())
	auditRepo := audit.NewRepository(dbClient.DB())

	provisioner, err := candidates.NewProvisioner(profilesRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create candidate provisioner", err)
		os.Exit(1)
	}
	recorder, err := audit.NewRecorder(auditRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit recorder", err)
		os.Exit(1)
	}

	var locker assignments.Locker
	if redisClient != nil {
		redisLocker, lockErr := assignments.NewRedisLocker(redisClient, cfg.Assignments.LockTTL)
		if lockErr != nil {
			logg.Error(context.Background(), "failed to create assignment locker", lockErr)
			os.Exit(1)
		}
		locker = redisLocker
	}

	assignmentService, err := assignments.NewService(
		assignmentsRepo,
		usersRepo,
		provisioner,
		recorder,
		locker,
		logg,
		assignmentMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create assignment service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, assignmentService),
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-signalCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if err := dbClient.Close(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		logg.Error(ctx, "shutdown finished with errors", errs)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
