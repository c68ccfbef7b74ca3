package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/kofany/sshm.io/internal/common"
)

// fakeClock lets tests move session time deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(timeout time.Duration) (*SessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSessionStore(timeout)
	s.now = clock.Now
	return s, clock
}

func TestSessionStore_CreateAndTouch(t *testing.T) {
	store, _ := newTestStore(30 * time.Minute)

	sess := store.Create("u1")
	if sess.ID == "" || sess.UserID != "u1" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	got, err := store.Touch(sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "u1" {
		t.Fatalf("got user %q, want u1", got.UserID)
	}
}

func TestSessionStore_ExpiresAfterInactivity(t *testing.T) {
	store, clock := newTestStore(30 * time.Minute)
	sess := store.Create("u1")

	clock.Advance(30*time.Minute + time.Second)

	if _, err := store.Touch(sess.ID); !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}
	// The expired session is gone for good.
	if _, err := store.Touch(sess.ID); !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired on second touch, got %v", err)
	}
}

func TestSessionStore_TouchSlidesDeadline(t *testing.T) {
	store, clock := newTestStore(30 * time.Minute)
	sess := store.Create("u1")

	// A touch just before the deadline rearms the window.
	clock.Advance(29 * time.Minute)
	if _, err := store.Touch(sess.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(29 * time.Minute)
	if _, err := store.Touch(sess.ID); err != nil {
		t.Fatalf("session should have been kept alive: %v", err)
	}
}

func TestSessionStore_UnknownID(t *testing.T) {
	store, _ := newTestStore(30 * time.Minute)
	if _, err := store.Touch("nope"); !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}
}

func TestSessionStore_Destroy(t *testing.T) {
	store, _ := newTestStore(30 * time.Minute)
	sess := store.Create("u1")
	store.Destroy(sess.ID)
	if _, err := store.Touch(sess.ID); err == nil {
		t.Fatalf("destroyed session must not validate")
	}
}

func TestSessionStore_DestroyAllForUser(t *testing.T) {
	store, _ := newTestStore(30 * time.Minute)
	s1 := store.Create("u1")
	s2 := store.Create("u1")
	other := store.Create("u2")

	store.DestroyAllForUser("u1")

	if _, err := store.Touch(s1.ID); err == nil {
		t.Fatalf("u1 session 1 must be revoked")
	}
	if _, err := store.Touch(s2.ID); err == nil {
		t.Fatalf("u1 session 2 must be revoked")
	}
	if _, err := store.Touch(other.ID); err != nil {
		t.Fatalf("u2 session must survive: %v", err)
	}
}

func TestSessionStore_Prune(t *testing.T) {
	store, clock := newTestStore(30 * time.Minute)
	stale := store.Create("u1")
	clock.Advance(31 * time.Minute)
	fresh := store.Create("u2")

	store.Prune()

	if _, ok := store.sessions[stale.ID]; ok {
		t.Fatalf("stale session must be pruned")
	}
	if _, ok := store.sessions[fresh.ID]; !ok {
		t.Fatalf("fresh session must survive")
	}
}
