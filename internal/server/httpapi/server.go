// Package httpapi exposes the sync server over JSON HTTP. It owns the auth
// gateway (API keys and session cookies), the response envelope and the
// route table; business rules live in the services layer.
package httpapi

import (
	"context"
	"time"

	"github.com/kofany/sshm.io/internal/logging"
	"github.com/kofany/sshm.io/internal/server/auth"
	"github.com/kofany/sshm.io/internal/server/config"
	"github.com/kofany/sshm.io/internal/server/models"
	"github.com/kofany/sshm.io/internal/server/services"
)

// Version is reported by the status endpoint so clients can detect
// incompatible servers before syncing.
const Version = "1.0.0"

// UserService is the slice of the user service the handlers use.
// *services.UserService satisfies it.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	ConfirmEmail(ctx context.Context, token string) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*models.User, error)
	Update(ctx context.Context, userID string, in services.UpdateInput) (*services.UpdateResult, error)
	ByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
	Info(ctx context.Context, userID string) (*models.User, error)
	Delete(ctx context.Context, userID string) error
}

// SyncService is the slice of the sync service the handlers use.
// *services.SyncService satisfies it.
type SyncService interface {
	Fetch(ctx context.Context, userID string) (*services.SyncData, error)
	Replace(ctx context.Context, userID string, in *services.SyncInput) (time.Time, error)
	Stats(ctx context.Context, userID string) (*services.Stats, error)
}

// Server wires handlers to services and the session machinery.
type Server struct {
	cfg      *config.Config
	users    UserService
	sync     SyncService
	sessions *auth.SessionStore
	limiter  *auth.RateLimiter
	log      logging.Logger
}

func NewServer(
	cfg *config.Config,
	users UserService,
	sync SyncService,
	sessions *auth.SessionStore,
	limiter *auth.RateLimiter,
	log logging.Logger,
) *Server {
	return &Server{
		cfg:      cfg,
		users:    users,
		sync:     sync,
		sessions: sessions,
		limiter:  limiter,
		log:      log.With("component", "httpapi"),
	}
}
