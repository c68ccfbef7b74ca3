package passwords

import (
	"context"

	"github.com/kofany/sshm.io/internal/server/models"
)

// Repository is the persistence contract for password rows.
type Repository interface {
	SelectAllForUser(ctx context.Context, userID string) ([]*models.Password, error)
	DeleteAllForUser(ctx context.Context, userID string) error
	InsertBatch(ctx context.Context, userID string, passwords []*models.Password) error
}
