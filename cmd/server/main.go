// cmd/server is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/activity-planner/internal/auth"
	"github.com/Shivanand-hulikatti/activity-planner/internal/config"
	"github.com/Shivanand-hulikatti/activity-planner/internal/database"
	"github.com/Shivanand-hulikatti/activity-planner/internal/handler"
	"github.com/Shivanand-hulikatti/activity-planner/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-planner/internal/repository"
	"github.com/Shivanand-hulikatti/activity-planner/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(log *logrus.Logger) error {
	ctx := context.Background()

	// ── 1. Configuration ─────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)

	// ── 2. Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	log.Info("connected to PostgreSQL")

	if cfg.AutoMigrate {
		db := database.SQLDB(pool)
		err := database.Migrate(ctx, db)
		_ = db.Close()
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("schema up to date")
	}

	// ── 3. Wire up layers ────────────────────────────────────────────────
	users := repository.NewUserRepository(pool)
	locations := repository.NewLocationRepository(pool)
	participants := repository.NewParticipantRepository(pool)
	activities := repository.NewActivityRepository(pool)

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry())
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	router := handler.NewRouter(handler.Services{
		Users:        service.NewUserService(users, hasher, tokens),
		Activities:   service.NewActivityService(activities, users, locations, participants),
		Locations:    service.NewLocationService(locations, activities),
		Participants: service.NewParticipantService(participants),
	}, handler.RouterConfig{
		Tokens:      tokens,
		Metrics:     metrics.New(),
		Log:         log,
		CORSOrigins: cfg.CORSOrigins(),
	})

	// ── 4. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
