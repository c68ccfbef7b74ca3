package keys

import (
	"context"

	"github.com/kofany/sshm.io/internal/server/models"
)

// Repository is the persistence contract for key rows.
type Repository interface {
	SelectAllForUser(ctx context.Context, userID string) ([]*models.Key, error)
	DeleteAllForUser(ctx context.Context, userID string) error
	InsertBatch(ctx context.Context, userID string, keys []*models.Key) error
}
