package hosts

import (
	"context"

	"github.com/kofany/sshm.io/internal/server/models"
)

// Repository is the persistence contract for host rows. The full-replace
// sync protocol only ever needs whole-collection reads and writes scoped to
// one user.
type Repository interface {
	SelectAllForUser(ctx context.Context, userID string) ([]*models.Host, error)
	DeleteAllForUser(ctx context.Context, userID string) error
	InsertBatch(ctx context.Context, userID string, hosts []*models.Host) error
}
