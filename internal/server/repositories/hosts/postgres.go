// Package hosts provides the PostgreSQL-backed repository for host rows.
// The login/ip/port columns hold client-produced ciphertext and are moved
// around as indivisible strings.
package hosts

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

func (r *PostgresRepository) SelectAllForUser(ctx context.Context, userID string) ([]*models.Host, error) {
	query := `
		SELECT id, user_id, name, description, login, ip, port, credential_ref, created_at
		FROM hosts WHERE user_id = $1 ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select hosts: %w", err)
	}
	defer rows.Close()

	var result []*models.Host
	for rows.Next() {
		var h models.Host
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Description,
			&h.Login, &h.IP, &h.Port, &h.CredentialRef, &h.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM hosts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// InsertBatch writes hosts with their client-assigned ids; renumbering rows
// would break credential_ref integrity.
func (r *PostgresRepository) InsertBatch(ctx context.Context, userID string, hosts []*models.Host) error {
	query := `
		INSERT INTO hosts (user_id, id, name, description, login, ip, port, credential_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, h := range hosts {
		if _, err := r.db.ExecContext(ctx, query,
			userID, h.ID, h.Name, h.Description, h.Login, h.IP, h.Port, h.CredentialRef); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
