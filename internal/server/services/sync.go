// Package services implements the server-side business logic: account
// lifecycle and the full-replace synchronization protocol. Services own
// transaction boundaries; repositories stay transaction-agnostic through
// dbx.DBTX.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/dbx"
	"github.com/kofany/sshm.io/internal/logging"
	"github.com/kofany/sshm.io/internal/server/models"
	"github.com/kofany/sshm.io/internal/server/repositories/repomanager"
)

// SyncData is a full snapshot of one user's synchronized state. LastSync is
// nil until the first successful write-sync.
type SyncData struct {
	Hosts     []*models.Host     `json:"hosts"`
	Passwords []*models.Password `json:"passwords"`
	Keys      []*models.Key      `json:"keys"`
	LastSync  *time.Time         `json:"last_sync"`
}

// SyncInput carries a write-sync payload. Each collection is a pointer so
// that an absent type ("don't touch") is distinguishable from a present but
// empty one ("delete everything of this type").
type SyncInput struct {
	Hosts     *[]*models.Host     `json:"hosts"`
	Passwords *[]*models.Password `json:"passwords"`
	Keys      *[]*models.Key      `json:"keys"`
}

// Empty reports whether the payload names no resource type at all. Such a
// request still bumps last_sync but writes nothing.
func (in *SyncInput) Empty() bool {
	return in.Hosts == nil && in.Passwords == nil && in.Keys == nil
}

// SyncService implements read- and write-sync over the repositories.
type SyncService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	log   logging.Logger
}

func NewSyncService(db *sql.DB, repos repomanager.RepositoryManager, log logging.Logger) *SyncService {
	return &SyncService{db: db, repos: repos, log: log.With("service", "sync")}
}

// Fetch returns the complete server-side state for one user. Collections are
// never nil so the wire shape stays stable for empty accounts.
func (s *SyncService) Fetch(ctx context.Context, userID string) (*SyncData, error) {
	data := &SyncData{
		Hosts:     []*models.Host{},
		Passwords: []*models.Password{},
		Keys:      []*models.Key{},
	}

	hosts, err := s.repos.Hosts(s.db).SelectAllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch hosts: %w", err)
	}
	if hosts != nil {
		data.Hosts = hosts
	}

	passwords, err := s.repos.Passwords(s.db).SelectAllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch passwords: %w", err)
	}
	if passwords != nil {
		data.Passwords = passwords
	}

	keys, err := s.repos.Keys(s.db).SelectAllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch keys: %w", err)
	}
	if keys != nil {
		data.Keys = keys
	}

	last, ok, err := s.repos.SyncStatus(s.db).Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch sync status: %w", err)
	}
	if ok {
		data.LastSync = &last
	}

	return data, nil
}

// Replace applies a write-sync in a single transaction. For every resource
// type present in the input the user's stored collection is deleted and
// replaced with the submitted rows; absent types are left untouched.
// last_sync is updated whether or not any type was present. Any failure
// rolls the whole call back and is reported as common.ErrSyncFailed.
func (s *SyncService) Replace(ctx context.Context, userID string, in *SyncInput) (time.Time, error) {
	var lastSync time.Time

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if in.Hosts != nil {
			r := s.repos.Hosts(tx)
			if err := r.DeleteAllForUser(ctx, userID); err != nil {
				return fmt.Errorf("replace hosts: %w", err)
			}
			if err := r.InsertBatch(ctx, userID, *in.Hosts); err != nil {
				return fmt.Errorf("replace hosts: %w", err)
			}
		}
		if in.Passwords != nil {
			r := s.repos.Passwords(tx)
			if err := r.DeleteAllForUser(ctx, userID); err != nil {
				return fmt.Errorf("replace passwords: %w", err)
			}
			if err := r.InsertBatch(ctx, userID, *in.Passwords); err != nil {
				return fmt.Errorf("replace passwords: %w", err)
			}
		}
		if in.Keys != nil {
			r := s.repos.Keys(tx)
			if err := r.DeleteAllForUser(ctx, userID); err != nil {
				return fmt.Errorf("replace keys: %w", err)
			}
			if err := r.InsertBatch(ctx, userID, *in.Keys); err != nil {
				return fmt.Errorf("replace keys: %w", err)
			}
		}

		t, err := s.repos.SyncStatus(tx).Touch(ctx, userID)
		if err != nil {
			return fmt.Errorf("touch sync status: %w", err)
		}
		lastSync = t
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "write-sync rolled back", "user_id", userID, "error", err)
		return time.Time{}, fmt.Errorf("%w: %w", common.ErrSyncFailed, err)
	}

	if in.Empty() {
		s.log.Info(ctx, "write-sync touch", "user_id", userID)
	} else {
		s.log.Info(ctx, "write-sync applied", "user_id", userID,
			"hosts", in.Hosts != nil, "passwords", in.Passwords != nil, "keys", in.Keys != nil)
	}
	return lastSync, nil
}

// Stats summarizes an account for the status endpoint.
type Stats struct {
	Hosts     int        `json:"hosts"`
	Passwords int        `json:"passwords"`
	Keys      int        `json:"keys"`
	LastSync  *time.Time `json:"last_sync"`
}

// Stats counts stored resources without returning their ciphertext.
func (s *SyncService) Stats(ctx context.Context, userID string) (*Stats, error) {
	data, err := s.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Hosts:     len(data.Hosts),
		Passwords: len(data.Passwords),
		Keys:      len(data.Keys),
		LastSync:  data.LastSync,
	}, nil
}
