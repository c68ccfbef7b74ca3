// Package passwords provides the PostgreSQL-backed repository for password
// rows. The password column is client-produced ciphertext, stored opaque.
package passwords

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

func (r *PostgresRepository) SelectAllForUser(ctx context.Context, userID string) ([]*models.Password, error) {
	query := `
		SELECT id, user_id, description, password, created_at
		FROM passwords WHERE user_id = $1 ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select passwords: %w", err)
	}
	defer rows.Close()

	var result []*models.Password
	for rows.Next() {
		var p models.Password
		if err := rows.Scan(&p.ID, &p.UserID, &p.Description, &p.Password, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM passwords WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// InsertBatch writes passwords with their client-assigned ids so host
// credential_ref values keep pointing at the right rows.
func (r *PostgresRepository) InsertBatch(ctx context.Context, userID string, passwords []*models.Password) error {
	query := `INSERT INTO passwords (user_id, id, description, password) VALUES ($1, $2, $3, $4)`
	for _, p := range passwords {
		if _, err := r.db.ExecContext(ctx, query, userID, p.ID, p.Description, p.Password); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
