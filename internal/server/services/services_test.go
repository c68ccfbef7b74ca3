package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/dbx"
	"github.com/kofany/sshm.io/internal/logging"
	"github.com/kofany/sshm.io/internal/server/models"
	"github.com/kofany/sshm.io/internal/server/repositories/hosts"
	"github.com/kofany/sshm.io/internal/server/repositories/keys"
	"github.com/kofany/sshm.io/internal/server/repositories/passwords"
	"github.com/kofany/sshm.io/internal/server/repositories/syncstatus"
	"github.com/kofany/sshm.io/internal/server/repositories/users"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newSQLMockDB returns a *sql.DB whose transaction boundaries are scripted.
// Repositories are replaced by in-memory fakes, so no queries reach the mock;
// only Begin/Commit/Rollback do.
func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// memUsers is an in-memory users.Repository. errOn forces a method to fail.
type memUsers struct {
	seq   int
	rows  map[string]*models.User
	errOn map[string]error
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[string]*models.User{}, errOn: map[string]error{}}
}

func (m *memUsers) fail(method string) error { return m.errOn[method] }

func (m *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := m.fail("Create"); err != nil {
		return nil, err
	}
	m.seq++
	u := *user
	u.ID = fmt.Sprintf("uid-%d", m.seq)
	u.CreatedAt = time.Now()
	m.rows[u.ID] = &u
	return &u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := m.fail("GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range m.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetActiveByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	for _, u := range m.rows {
		if u.APIKey == apiKey && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) Activate(ctx context.Context, confirmToken string) (*models.User, error) {
	for _, u := range m.rows {
		if u.ConfirmToken.Valid && u.ConfirmToken.String == confirmToken {
			u.IsActive = true
			u.ConfirmToken = sql.NullString{}
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) UpdateEmail(ctx context.Context, userID, email string) error {
	u, ok := m.rows[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.Email = email
	return nil
}

func (m *memUsers) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	if err := m.fail("UpdatePasswordHash"); err != nil {
		return err
	}
	u, ok := m.rows[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *memUsers) UpdateAPIKey(ctx context.Context, userID, apiKey string) error {
	u, ok := m.rows[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.APIKey = apiKey
	return nil
}

func (m *memUsers) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	u, ok := m.rows[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.ResetToken = sql.NullString{String: token, Valid: true}
	u.ResetTokenExpires = sql.NullTime{Time: expires, Valid: true}
	return nil
}

func (m *memUsers) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	for _, u := range m.rows {
		if u.ResetToken.Valid && u.ResetToken.String == token &&
			u.ResetTokenExpires.Valid && u.ResetTokenExpires.Time.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) ClearResetToken(ctx context.Context, userID string) error {
	u, ok := m.rows[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.ResetToken = sql.NullString{}
	u.ResetTokenExpires = sql.NullTime{}
	return nil
}

func (m *memUsers) Delete(ctx context.Context, userID string) error {
	if _, ok := m.rows[userID]; !ok {
		return common.ErrorNotFound
	}
	delete(m.rows, userID)
	return nil
}

// memHosts implements hosts.Repository over a slice.
type memHosts struct {
	rows  []*models.Host
	errOn map[string]error
}

func (m *memHosts) SelectAllForUser(ctx context.Context, userID string) ([]*models.Host, error) {
	if err := m.errOn["SelectAllForUser"]; err != nil {
		return nil, err
	}
	var out []*models.Host
	for _, h := range m.rows {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHosts) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := m.errOn["DeleteAllForUser"]; err != nil {
		return err
	}
	var kept []*models.Host
	for _, h := range m.rows {
		if h.UserID != userID {
			kept = append(kept, h)
		}
	}
	m.rows = kept
	return nil
}

func (m *memHosts) InsertBatch(ctx context.Context, userID string, hs []*models.Host) error {
	if err := m.errOn["InsertBatch"]; err != nil {
		return err
	}
	for _, h := range hs {
		cp := *h
		cp.UserID = userID
		m.rows = append(m.rows, &cp)
	}
	return nil
}

type memPasswords struct {
	rows  []*models.Password
	errOn map[string]error
}

func (m *memPasswords) SelectAllForUser(ctx context.Context, userID string) ([]*models.Password, error) {
	if err := m.errOn["SelectAllForUser"]; err != nil {
		return nil, err
	}
	var out []*models.Password
	for _, p := range m.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPasswords) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := m.errOn["DeleteAllForUser"]; err != nil {
		return err
	}
	var kept []*models.Password
	for _, p := range m.rows {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	m.rows = kept
	return nil
}

func (m *memPasswords) InsertBatch(ctx context.Context, userID string, ps []*models.Password) error {
	if err := m.errOn["InsertBatch"]; err != nil {
		return err
	}
	for _, p := range ps {
		cp := *p
		cp.UserID = userID
		m.rows = append(m.rows, &cp)
	}
	return nil
}

type memKeys struct {
	rows  []*models.Key
	errOn map[string]error
}

func (m *memKeys) SelectAllForUser(ctx context.Context, userID string) ([]*models.Key, error) {
	if err := m.errOn["SelectAllForUser"]; err != nil {
		return nil, err
	}
	var out []*models.Key
	for _, k := range m.rows {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *memKeys) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := m.errOn["DeleteAllForUser"]; err != nil {
		return err
	}
	var kept []*models.Key
	for _, k := range m.rows {
		if k.UserID != userID {
			kept = append(kept, k)
		}
	}
	m.rows = kept
	return nil
}

func (m *memKeys) InsertBatch(ctx context.Context, userID string, ks []*models.Key) error {
	if err := m.errOn["InsertBatch"]; err != nil {
		return err
	}
	for _, k := range ks {
		cp := *k
		cp.UserID = userID
		m.rows = append(m.rows, &cp)
	}
	return nil
}

// memSyncStatus implements syncstatus.Repository.
type memSyncStatus struct {
	last    map[string]time.Time
	touches int
	errOn   map[string]error
}

func newMemSyncStatus() *memSyncStatus {
	return &memSyncStatus{last: map[string]time.Time{}, errOn: map[string]error{}}
}

func (m *memSyncStatus) Get(ctx context.Context, userID string) (time.Time, bool, error) {
	if err := m.errOn["Get"]; err != nil {
		return time.Time{}, false, err
	}
	t, ok := m.last[userID]
	return t, ok, nil
}

func (m *memSyncStatus) Touch(ctx context.Context, userID string) (time.Time, error) {
	if err := m.errOn["Touch"]; err != nil {
		return time.Time{}, err
	}
	m.touches++
	now := time.Now().UTC().Truncate(time.Second)
	m.last[userID] = now
	return now, nil
}

// fakeRepos vends the in-memory repositories regardless of the DBTX handed
// in, while the real service still drives Begin/Commit on the sqlmock DB.
type fakeRepos struct {
	users      *memUsers
	hosts      *memHosts
	passwords  *memPasswords
	keys       *memKeys
	syncStatus *memSyncStatus
}

func newFakeRepos() *fakeRepos {
	return &fakeRepos{
		users:      newMemUsers(),
		hosts:      &memHosts{errOn: map[string]error{}},
		passwords:  &memPasswords{errOn: map[string]error{}},
		keys:       &memKeys{errOn: map[string]error{}},
		syncStatus: newMemSyncStatus(),
	}
}

func (f *fakeRepos) Users(db dbx.DBTX) users.Repository           { return f.users }
func (f *fakeRepos) Hosts(db dbx.DBTX) hosts.Repository           { return f.hosts }
func (f *fakeRepos) Passwords(db dbx.DBTX) passwords.Repository   { return f.passwords }
func (f *fakeRepos) Keys(db dbx.DBTX) keys.Repository             { return f.keys }
func (f *fakeRepos) SyncStatus(db dbx.DBTX) syncstatus.Repository { return f.syncStatus }
func (f *fakeRepos) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
