// Package syncstatus provides the PostgreSQL-backed repository for the
// one-row-per-user last_sync timestamp.
package syncstatus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kofany/sshm.io/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (time.Time, bool, error) {
	var t time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT last_sync FROM sync_status WHERE user_id = $1`, userID).Scan(&t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("db error: %w", err)
	}
	return t, true, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, userID string) (time.Time, error) {
	query := `
		INSERT INTO sync_status (user_id, last_sync) VALUES ($1, now())
		ON CONFLICT (user_id) DO UPDATE SET last_sync = now()
		RETURNING last_sync
	`
	var t time.Time
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&t); err != nil {
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
