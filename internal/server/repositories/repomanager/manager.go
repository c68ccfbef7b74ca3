package repomanager

import (
	"context"
	"database/sql"

	"github.com/kofany/sshm.io/internal/dbx"
	"github.com/kofany/sshm.io/internal/server/repositories/hosts"
	"github.com/kofany/sshm.io/internal/server/repositories/keys"
	"github.com/kofany/sshm.io/internal/server/repositories/passwords"
	"github.com/kofany/sshm.io/internal/server/repositories/syncstatus"
	"github.com/kofany/sshm.io/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to an arbitrary
// DBTX, so services can run the same repositories inside and outside a
// transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Hosts(db dbx.DBTX) hosts.Repository
	Passwords(db dbx.DBTX) passwords.Repository
	Keys(db dbx.DBTX) keys.Repository
	SyncStatus(db dbx.DBTX) syncstatus.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
