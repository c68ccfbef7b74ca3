package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/server/models"
)

func ptr[T any](v T) *T { return &v }

func TestSyncFetchEmptyAccount(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repos := newFakeRepos()
	svc := NewSyncService(db, repos, testLogger())

	data, err := svc.Fetch(context.Background(), "uid-1")
	require.NoError(t, err)

	assert.NotNil(t, data.Hosts)
	assert.NotNil(t, data.Passwords)
	assert.NotNil(t, data.Keys)
	assert.Empty(t, data.Hosts)
	assert.Nil(t, data.LastSync)
}

func TestSyncFetchScopedToUser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repos := newFakeRepos()
	repos.hosts.rows = []*models.Host{
		{ID: 1, UserID: "uid-1", Name: "alpha"},
		{ID: 2, UserID: "uid-2", Name: "beta"},
	}
	repos.passwords.rows = []*models.Password{{ID: 7, UserID: "uid-1", Password: "ct"}}
	repos.syncStatus.Touch(context.Background(), "uid-1")
	svc := NewSyncService(db, repos, testLogger())

	data, err := svc.Fetch(context.Background(), "uid-1")
	require.NoError(t, err)

	require.Len(t, data.Hosts, 1)
	assert.Equal(t, "alpha", data.Hosts[0].Name)
	require.Len(t, data.Passwords, 1)
	require.NotNil(t, data.LastSync)
}

func TestSyncReplacePresentTypesOnly(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repos := newFakeRepos()
	repos.hosts.rows = []*models.Host{{ID: 1, UserID: "uid-1", Name: "old"}}
	repos.passwords.rows = []*models.Password{{ID: 5, UserID: "uid-1", Password: "keep"}}
	svc := NewSyncService(db, repos, testLogger())

	mock.ExpectBegin()
	mock.ExpectCommit()

	in := &SyncInput{
		Hosts: ptr([]*models.Host{
			{Name: "new-a", CredentialRef: 5},
			{Name: "new-b", CredentialRef: -2},
		}),
	}
	last, err := svc.Replace(context.Background(), "uid-1", in)
	require.NoError(t, err)
	assert.False(t, last.IsZero())

	// Hosts fully replaced, passwords untouched.
	require.Len(t, repos.hosts.rows, 2)
	assert.Equal(t, "new-a", repos.hosts.rows[0].Name)
	require.Len(t, repos.passwords.rows, 1)
	assert.Equal(t, "keep", repos.passwords.rows[0].Password)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncReplaceIsIdempotent(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repos := newFakeRepos()
	repos.hosts.rows = []*models.Host{{ID: 9, UserID: "uid-1", Name: "old"}}
	svc := NewSyncService(db, repos, testLogger())

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	in := &SyncInput{
		Hosts: ptr([]*models.Host{
			{ID: 1, Name: "web-1", CredentialRef: 2},
			{ID: 2, Name: "web-2", CredentialRef: -1},
		}),
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Replace(context.Background(), "uid-1", in)
		require.NoError(t, err)

		require.Len(t, repos.hosts.rows, 2)
		assert.Equal(t, "web-1", repos.hosts.rows[0].Name)
		assert.Equal(t, int64(2), repos.hosts.rows[1].ID)
	}
	assert.Equal(t, 2, repos.syncStatus.touches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncReplaceEmptyCollectionDeletesAll(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repos := newFakeRepos()
	repos.keys.rows = []*models.Key{{ID: 3, UserID: "uid-1"}}
	svc := NewSyncService(db, repos, testLogger())

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Replace(context.Background(), "uid-1", &SyncInput{Keys: ptr([]*models.Key{})})
	require.NoError(t, err)
	assert.Empty(t, repos.keys.rows)
}

func TestSyncReplaceNoTypesStillTouchesLastSync(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repos := newFakeRepos()
	svc := NewSyncService(db, repos, testLogger())

	mock.ExpectBegin()
	mock.ExpectCommit()

	in := &SyncInput{}
	assert.True(t, in.Empty())
	last, err := svc.Replace(context.Background(), "uid-1", in)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
	assert.Equal(t, 1, repos.syncStatus.touches)
}

func TestSyncReplaceRollsBackOnFailure(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repos := newFakeRepos()
	boom := errors.New("insert failed")
	repos.passwords.errOn["InsertBatch"] = boom
	svc := NewSyncService(db, repos, testLogger())

	mock.ExpectBegin()
	mock.ExpectRollback()

	in := &SyncInput{
		Hosts:     ptr([]*models.Host{{Name: "h"}}),
		Passwords: ptr([]*models.Password{{Password: "ct"}}),
	}
	_, err := svc.Replace(context.Background(), "uid-1", in)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSyncFailed)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, repos.syncStatus.touches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncReplaceTouchFailureFailsCall(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repos := newFakeRepos()
	repos.syncStatus.errOn["Touch"] = errors.New("upsert failed")
	svc := NewSyncService(db, repos, testLogger())

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Replace(context.Background(), "uid-1", &SyncInput{})
	assert.ErrorIs(t, err, common.ErrSyncFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncStats(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repos := newFakeRepos()
	repos.hosts.rows = []*models.Host{{ID: 1, UserID: "uid-1"}, {ID: 2, UserID: "uid-1"}}
	repos.keys.rows = []*models.Key{{ID: 1, UserID: "uid-1"}}
	svc := NewSyncService(db, repos, testLogger())

	stats, err := svc.Stats(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Hosts)
	assert.Equal(t, 0, stats.Passwords)
	assert.Equal(t, 1, stats.Keys)
	assert.Nil(t, stats.LastSync)
}
