package users

import (
	"context"
	"time"

	"github.com/kofany/sshm.io/internal/server/models"
)

// Repository is the persistence contract for identity rows.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetActiveByAPIKey resolves an API key to a user, active accounts only.
	GetActiveByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
	// Activate flips is_active for the account holding confirmToken and
	// clears the token. Returns the activated user.
	Activate(ctx context.Context, confirmToken string) (*models.User, error)
	UpdateEmail(ctx context.Context, userID, email string) error
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
	UpdateAPIKey(ctx context.Context, userID, apiKey string) error
	SetResetToken(ctx context.Context, userID, token string, expires time.Time) error
	// GetByResetToken returns the user holding a non-expired reset token.
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	ClearResetToken(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string) error
}
