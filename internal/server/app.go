// Package server initializes and runs the sync server: database and
// migrations, session machinery, HTTP API and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kofany/sshm.io/internal/logging"
	"github.com/kofany/sshm.io/internal/mailx"
	"github.com/kofany/sshm.io/internal/server/auth"
	"github.com/kofany/sshm.io/internal/server/config"
	"github.com/kofany/sshm.io/internal/server/httpapi"
	"github.com/kofany/sshm.io/internal/server/repositories/repomanager"
	"github.com/kofany/sshm.io/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *auth.SessionStore
	limiter  *auth.RateLimiter
	api      *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	mailer := &mailx.LogMailer{Log: logger}
	userService := services.NewUserService(db, repos, mailer, logger)
	syncService := services.NewSyncService(db, repos, logger)

	sessions := auth.NewSessionStore(cfg.SessionTimeout)
	limiter := auth.NewRateLimiter(cfg.RateLimitAttempts, cfg.RateLimitWindow)
	api := httpapi.NewServer(cfg, userService, syncService, sessions, limiter, logger)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		sessions: sessions,
		limiter:  limiter,
		api:      api,
	}, nil
}

// Run serves the API until ctx is cancelled or a termination signal
// arrives, then shuts down in-flight requests gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: app.api.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info(ctx, "starting http server", "addr", app.config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return app.sessions.Janitor(ctx, time.Minute)
	})

	g.Go(func() error {
		ticker := time.NewTicker(app.config.RateLimitWindow)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				app.limiter.Prune()
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		app.logger.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if closeErr := app.db.Close(); closeErr != nil {
		app.logger.Error(context.Background(), "db close error", "error", closeErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
