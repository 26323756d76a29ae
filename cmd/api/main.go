package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/birthdays/birthdays-go/internal/config"
	"github.com/birthdays/birthdays-go/internal/repository"
	"github.com/birthdays/birthdays-go/internal/server"
	"github.com/birthdays/birthdays-go/internal/session"
)

const sweepInterval = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx, logger); err != nil {
		return err
	}

	store, closeStore, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := session.NewManager(store, session.Config{
		Secret: cfg.SessionSecret,
		MaxAge: cfg.SessionMaxAge,
		Secure: cfg.CookieSecure,
	}, nil)

	var opts server.Options
	if cfg.IsDevelopment() {
		opts.CORSOrigin = cfg.CORSOrigin
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(db, sessions, logger, opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "database", db.Dialect, "sessions", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newSessionStore builds the configured session store and its cleanup func.
func newSessionStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		rcfg := session.DefaultRedisConfig()
		rcfg.URL = cfg.RedisURL
		store, err := session.NewRedisStore(ctx, rcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return store, func() { store.Close() }, nil

	case "memory":
		store := session.NewMemoryStore(nil)
		sweepCtx, cancel := context.WithCancel(ctx)
		go func() {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-sweepCtx.Done():
					return
				case <-ticker.C:
					if n := store.Sweep(); n > 0 {
						logger.Debug("expired sessions evicted", "count", n)
					}
				}
			}
		}()
		return store, cancel, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
