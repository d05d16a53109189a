package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/carefleet/carefleet-backend/internal/config"
	"github.com/carefleet/carefleet-backend/internal/database"
)

// App owns the HTTP server and the connections it needs to drain on
// shutdown.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

func New(cfg *config.Config, logger *slog.Logger, handler http.Handler, db *gorm.DB, redisClient *redis.Client) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:              ":" + cfg.HTTPPort,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		db:    db,
		redis: redisClient,
	}
}

// Run migrates the schema, starts serving and blocks until the context is
// cancelled or a termination signal arrives, then drains in-flight
// requests and closes connections.
func (a *App) Run(ctx context.Context) error {
	if err := database.Migrate(a.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if a.cfg.ServerStartGracePeriod > 0 {
		a.logger.Info("waiting before accepting traffic", "grace_period", a.cfg.ServerStartGracePeriod)
		time.Sleep(a.cfg.ServerStartGracePeriod)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr, "env", a.cfg.Env)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown", "error", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close", "error", err)
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.logger.Error("database close", "error", err)
		}
	}
	a.logger.Info("shutdown complete")
	return nil
}
