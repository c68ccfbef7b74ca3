// Package keys provides the PostgreSQL-backed repository for SSH key rows.
// key_data is client-produced ciphertext, stored opaque.
package keys

import (
	"context"
	"fmt"

	"github.com/kofany/sshm.io/internal/dbx"
	"github.com/kofany/sshm.io/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SelectAllForUser(ctx context.Context, userID string) ([]*models.Key, error) {
	query := `
		SELECT id, user_id, description, key_data, path, created_at
		FROM keys WHERE user_id = $1 ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select keys: %w", err)
	}
	defer rows.Close()

	var result []*models.Key
	for rows.Next() {
		var k models.Key
		if err := rows.Scan(&k.ID, &k.UserID, &k.Description, &k.KeyData, &k.Path, &k.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM keys WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// InsertBatch writes keys with their client-assigned ids so host
// credential_ref values keep pointing at the right rows.
func (r *PostgresRepository) InsertBatch(ctx context.Context, userID string, keys []*models.Key) error {
	query := `INSERT INTO keys (user_id, id, description, key_data, path) VALUES ($1, $2, $3, $4, $5)`
	for _, k := range keys {
		if _, err := r.db.ExecContext(ctx, query, userID, k.ID, k.Description, k.KeyData, k.Path); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
