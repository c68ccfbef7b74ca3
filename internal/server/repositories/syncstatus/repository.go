package syncstatus

import (
	"context"
	"time"
)

// Repository is the persistence contract for per-user sync timestamps.
type Repository interface {
	// Get returns the last successful write-sync time, or ok=false when the
	// user has never synchronized.
	Get(ctx context.Context, userID string) (t time.Time, ok bool, err error)
	// Touch upserts last_sync = now() for the user and returns the stored value.
	Touch(ctx context.Context, userID string) (time.Time, error)
}
