// Package users provides the PostgreSQL-backed repository for identity rows.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/dbx"
	"github.com/kofany/sshm.io/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, api_key, is_active, confirm_token, reset_token, reset_token_expires, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.APIKey, &u.IsActive,
		&u.ConfirmToken, &u.ResetToken, &u.ResetTokenExpires, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, api_key, confirm_token, is_active)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.APIKey, user.ConfirmToken).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetActiveByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE api_key = $1 AND is_active`
	return scanUser(r.db.QueryRowContext(ctx, query, apiKey))
}

func (r *PostgresRepository) Activate(ctx context.Context, confirmToken string) (*models.User, error) {
	query := `
		UPDATE users SET is_active = TRUE, confirm_token = NULL
		WHERE confirm_token = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, confirmToken))
}

func (r *PostgresRepository) UpdateEmail(ctx context.Context, userID, email string) error {
	return r.exec(ctx, `UPDATE users SET email = $2 WHERE id = $1`, userID, email)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
}

func (r *PostgresRepository) UpdateAPIKey(ctx context.Context, userID, apiKey string) error {
	return r.exec(ctx, `UPDATE users SET api_key = $2 WHERE id = $1`, userID, apiKey)
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	return r.exec(ctx, `UPDATE users SET reset_token = $2, reset_token_expires = $3 WHERE id = $1`,
		userID, token, expires)
}

func (r *PostgresRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1 AND reset_token_expires > now()`
	return scanUser(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) ClearResetToken(ctx context.Context, userID string) error {
	return r.exec(ctx, `UPDATE users SET reset_token = NULL, reset_token_expires = NULL WHERE id = $1`, userID)
}

// Delete removes the user row; owned resources go with it via FK cascade.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
