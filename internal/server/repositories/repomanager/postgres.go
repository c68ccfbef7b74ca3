// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/kofany/sshm.io/internal/dbx"
	"github.com/kofany/sshm.io/internal/server/migrations"
	"github.com/kofany/sshm.io/internal/server/repositories/hosts"
	"github.com/kofany/sshm.io/internal/server/repositories/keys"
	"github.com/kofany/sshm.io/internal/server/repositories/passwords"
	"github.com/kofany/sshm.io/internal/server/repositories/syncstatus"
	"github.com/kofany/sshm.io/internal/server/repositories/users"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories and exposes
// a schema migration hook.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Hosts(db dbx.DBTX) hosts.Repository {
	return hosts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Passwords(db dbx.DBTX) passwords.Repository {
	return passwords.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Keys(db dbx.DBTX) keys.Repository {
	return keys.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) SyncStatus(db dbx.DBTX) syncstatus.Repository {
	return syncstatus.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations points goose at the embedded migrations and applies them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
