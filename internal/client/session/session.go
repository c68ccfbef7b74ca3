// Package session holds the client-side encryption session: a derived key
// with a bounded lifetime. The passphrase is asked for once, the derived key
// lives in memory until the inactivity deadline passes or too many
// decryption failures suggest the key is wrong.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/cryptox"
)

// State of the encryption session.
type State int

const (
	// StateUninitialized: no key has been derived yet.
	StateUninitialized State = iota
	// StateActive: a verified key is in memory.
	StateActive
	// StateExpired: the key was wiped; a new Initialize is required.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	default:
		return "uninitialized"
	}
}

var (
	ErrUninitialized = errors.New("encryption session not initialized")
	ErrExpired       = errors.New("encryption session expired")
)

// DefaultTimeout is the inactivity deadline for the in-memory key.
const DefaultTimeout = 30 * time.Minute

// maxConsecutiveFailures: after this many decryption failures in a row the
// key is assumed wrong and the session is expired rather than kept around
// producing garbage.
const maxConsecutiveFailures = 3

// selfTestProbe verifies a freshly derived key round-trips before the
// session is declared active.
const selfTestProbe = "sshm.io/session/self-test"

// Session is the encryption session. All methods are safe for concurrent
// use. Every successful key use slides the inactivity deadline forward.
type Session struct {
	mu       sync.Mutex
	state    State
	key      []byte
	timeout  time.Duration
	deadline time.Time
	failures int
	subs     map[int]func()
	nextSub  int
	timer    *time.Timer

	now func() time.Time
}

// New creates an uninitialized session. A non-positive timeout falls back to
// DefaultTimeout.
func New(timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Session{
		timeout: timeout,
		subs:    map[int]func(){},
		now:     time.Now,
	}
}

// Initialize derives the key from the passphrase, self-tests it and arms the
// inactivity timer. Re-initializing an expired or active session is allowed
// and replaces the key. The caller keeps ownership of passphrase and should
// wipe it afterwards.
func (s *Session) Initialize(passphrase []byte) error {
	key, err := cryptox.DeriveKey(passphrase)
	if err != nil {
		return err
	}

	probe, err := cryptox.Encrypt(selfTestProbe, key)
	if err != nil {
		common.WipeByteArray(key)
		return err
	}
	plain, err := cryptox.Decrypt(probe, key)
	if err != nil || plain != selfTestProbe {
		common.WipeByteArray(key)
		return cryptox.ErrDecryptionFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.key)
	s.key = key
	s.state = StateActive
	s.failures = 0
	s.touchLocked()
	return nil
}

// State reports the current lifecycle state, applying lazy expiry first.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkDeadlineLocked()
	return s.state
}

// Key returns the derived key and slides the deadline. The slice is the
// session's own; callers must not retain or wipe it.
func (s *Session) Key() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.activeLocked(); err != nil {
		return nil, err
	}
	s.touchLocked()
	return s.key, nil
}

// Encrypt encrypts plaintext under the session key.
func (s *Session) Encrypt(plaintext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.activeLocked(); err != nil {
		return "", err
	}
	out, err := cryptox.Encrypt(plaintext, s.key)
	if err != nil {
		return "", err
	}
	s.failures = 0
	s.touchLocked()
	return out, nil
}

// Decrypt decrypts ciphertext under the session key. Consecutive decryption
// failures expire the session: a key that keeps failing authentication is a
// wrong key, and holding on to it only produces confusing errors.
func (s *Session) Decrypt(ciphertext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.activeLocked(); err != nil {
		return "", err
	}

	out, err := cryptox.Decrypt(ciphertext, s.key)
	if err != nil {
		if cryptox.IsCryptoError(err) {
			s.failures++
			if s.failures >= maxConsecutiveFailures {
				s.expireLocked()
				return "", ErrExpired
			}
		}
		return "", err
	}
	s.failures = 0
	s.touchLocked()
	return out, nil
}

// Invalidate wipes the key immediately. An uninitialized session stays
// uninitialized.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return
	}
	s.expireLocked()
}

// OnExpired registers fn to run when the session expires, from whatever
// cause. The returned cancel detaches the subscription. Callbacks run
// without the session lock held.
func (s *Session) OnExpired(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) activeLocked() error {
	s.checkDeadlineLocked()
	switch s.state {
	case StateActive:
		return nil
	case StateExpired:
		return ErrExpired
	default:
		return ErrUninitialized
	}
}

// touchLocked slides the deadline and re-arms the timer.
func (s *Session) touchLocked() {
	s.deadline = s.now().Add(s.timeout)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.timeout, s.expireIfDue)
}

func (s *Session) checkDeadlineLocked() {
	if s.state == StateActive && !s.now().Before(s.deadline) {
		s.expireLocked()
	}
}

// expireIfDue runs off the inactivity timer; the deadline may have moved
// since the timer was armed.
func (s *Session) expireIfDue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkDeadlineLocked()
}

// expireLocked wipes the key and schedules expiry callbacks.
func (s *Session) expireLocked() {
	common.WipeByteArray(s.key)
	s.key = nil
	s.state = StateExpired
	s.failures = 0
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	go func() {
		for _, fn := range subs {
			fn()
		}
	}()
}
