package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kofany/sshm.io/internal/common"
)

// Session is one server-side web session. The deadline slides: every
// successful Touch pushes it out by the store's timeout.
type Session struct {
	ID           string
	UserID       string
	LastActivity time.Time
}

// SessionStore keeps sessions in memory, the way the original panel kept
// them in server-side session state. Sessions die on inactivity timeout,
// explicit destroy (logout), or per-user revocation (credential change,
// account deletion).
type SessionStore struct {
	mu       sync.Mutex
	timeout  time.Duration
	sessions map[string]*Session

	// now is a test seam.
	now func() time.Time
}

// NewSessionStore creates a store with the given inactivity timeout.
func NewSessionStore(timeout time.Duration) *SessionStore {
	return &SessionStore{
		timeout:  timeout,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create opens a new session for the user and returns it.
func (s *SessionStore) Create(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		LastActivity: s.now(),
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Touch validates the session and slides its deadline. A session past its
// deadline is removed and reported as expired; an unknown id is also
// expired (it may have been pruned already).
func (s *SessionStore) Touch(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, common.ErrSessionExpired
	}
	if s.now().Sub(sess.LastActivity) > s.timeout {
		delete(s.sessions, id)
		return nil, common.ErrSessionExpired
	}
	sess.LastActivity = s.now()
	return sess, nil
}

// Destroy removes a single session. Unknown ids are ignored.
func (s *SessionStore) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// DestroyAllForUser removes every session belonging to the user. Called on
// email/password change and account deletion.
func (s *SessionStore) DestroyAllForUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, id)
		}
	}
}

// Prune drops every session past its deadline.
func (s *SessionStore) Prune() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.timeout {
			delete(s.sessions, id)
		}
	}
}

// Janitor prunes expired sessions on the given interval until ctx ends.
func (s *SessionStore) Janitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Prune()
		}
	}
}
