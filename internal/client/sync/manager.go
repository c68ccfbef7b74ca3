// Package sync moves the vault between the local store and the server,
// crossing the encryption boundary in both directions. Sensitive fields are
// encrypted with the session key before upload and decrypted after download;
// the server only ever sees ciphertext.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/kofany/sshm.io/internal/client/api"
	"github.com/kofany/sshm.io/internal/client/models"
	"github.com/kofany/sshm.io/internal/client/session"
	"github.com/kofany/sshm.io/internal/client/store"
	"github.com/kofany/sshm.io/internal/credref"
	"github.com/kofany/sshm.io/internal/logging"
)

// Encrypted host fields: Login, IP, Port. Password.Password and Key.KeyData
// are encrypted whole. Names, descriptions and paths stay plaintext so
// listings work without an unlocked session.

// API is the server surface the manager needs.
type API interface {
	FetchSync(ctx context.Context) (*api.SyncData, error)
	PushSync(ctx context.Context, push *api.SyncPush) (time.Time, error)
}

// Manager runs pull and push cycles.
type Manager struct {
	api     API
	session *session.Session
	store   *store.Store
	log     logging.Logger
}

func NewManager(a API, s *session.Session, st *store.Store, log logging.Logger) *Manager {
	return &Manager{api: a, session: s, store: st, log: log.With("component", "sync")}
}

// Pull downloads the server snapshot, decrypts it to verify the session key
// fits the data, and replaces the local vault. The vault keeps ciphertext;
// decrypted values are returned to the caller and never written to disk.
// If the session expires while decrypting, the whole download is discarded.
func (m *Manager) Pull(ctx context.Context) (*store.Vault, error) {
	data, err := m.api.FetchSync(ctx)
	if err != nil {
		return nil, err
	}

	// Probe-decrypt everything before accepting the snapshot: a vault that
	// partially decrypts is worse than a failed sync.
	if err := m.verifyDecryptable(data); err != nil {
		return nil, err
	}

	vault, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	vault.Hosts = orEmptyHosts(data.Hosts)
	vault.Passwords = orEmptyPasswords(data.Passwords)
	vault.Keys = orEmptyKeys(data.Keys)
	vault.LastSync = data.LastSync
	if err := m.store.Save(vault); err != nil {
		return nil, err
	}

	m.log.Info(ctx, "pull complete",
		"hosts", len(vault.Hosts), "passwords", len(vault.Passwords), "keys", len(vault.Keys))
	return vault, nil
}

// Push uploads the full local vault, replacing all three server collections,
// and records the server's new last_sync.
func (m *Manager) Push(ctx context.Context) (time.Time, error) {
	vault, err := m.store.Load()
	if err != nil {
		return time.Time{}, err
	}

	push := &api.SyncPush{
		Hosts:     &vault.Hosts,
		Passwords: &vault.Passwords,
		Keys:      &vault.Keys,
	}
	lastSync, err := m.api.PushSync(ctx, push)
	if err != nil {
		return time.Time{}, err
	}

	vault.LastSync = &lastSync
	if err := m.store.Save(vault); err != nil {
		return time.Time{}, err
	}

	m.log.Info(ctx, "push complete",
		"hosts", len(vault.Hosts), "passwords", len(vault.Passwords), "keys", len(vault.Keys))
	return lastSync, nil
}

// EncryptHost seals the sensitive host fields in place.
func (m *Manager) EncryptHost(h *models.Host) error {
	var err error
	if h.Login, err = m.session.Encrypt(h.Login); err != nil {
		return fmt.Errorf("encrypt host %q: %w", h.Name, err)
	}
	if h.IP, err = m.session.Encrypt(h.IP); err != nil {
		return fmt.Errorf("encrypt host %q: %w", h.Name, err)
	}
	if h.Port, err = m.session.Encrypt(h.Port); err != nil {
		return fmt.Errorf("encrypt host %q: %w", h.Name, err)
	}
	return nil
}

// DecryptHost opens the sensitive host fields of a stored host, returning a
// copy; the vault copy stays encrypted.
func (m *Manager) DecryptHost(h *models.Host) (*models.Host, error) {
	out := *h
	var err error
	if out.Login, err = m.session.Decrypt(h.Login); err != nil {
		return nil, fmt.Errorf("decrypt host %q: %w", h.Name, err)
	}
	if out.IP, err = m.session.Decrypt(h.IP); err != nil {
		return nil, fmt.Errorf("decrypt host %q: %w", h.Name, err)
	}
	if out.Port, err = m.session.Decrypt(h.Port); err != nil {
		return nil, fmt.Errorf("decrypt host %q: %w", h.Name, err)
	}
	return &out, nil
}

// EncryptPassword seals the secret in place.
func (m *Manager) EncryptPassword(p *models.Password) error {
	ct, err := m.session.Encrypt(p.Password)
	if err != nil {
		return fmt.Errorf("encrypt password %q: %w", p.Description, err)
	}
	p.Password = ct
	return nil
}

// DecryptPassword opens a stored password, returning a copy.
func (m *Manager) DecryptPassword(p *models.Password) (*models.Password, error) {
	out := *p
	pt, err := m.session.Decrypt(p.Password)
	if err != nil {
		return nil, fmt.Errorf("decrypt password %q: %w", p.Description, err)
	}
	out.Password = pt
	return &out, nil
}

// EncryptKey seals the key material in place. Path-only keys have no
// ciphertext payload.
func (m *Manager) EncryptKey(k *models.Key) error {
	if k.KeyData == "" {
		return nil
	}
	ct, err := m.session.Encrypt(k.KeyData)
	if err != nil {
		return fmt.Errorf("encrypt key %q: %w", k.Description, err)
	}
	k.KeyData = ct
	return nil
}

// DecryptKey opens stored key material, returning a copy.
func (m *Manager) DecryptKey(k *models.Key) (*models.Key, error) {
	out := *k
	if k.KeyData == "" {
		return &out, nil
	}
	pt, err := m.session.Decrypt(k.KeyData)
	if err != nil {
		return nil, fmt.Errorf("decrypt key %q: %w", k.Description, err)
	}
	out.KeyData = pt
	return &out, nil
}

// Credential resolves a host's credential reference against the vault.
func Credential(v *store.Vault, h *models.Host) (ref credref.Ref, description string) {
	ref = credref.Decode(h.PasswordID)
	switch ref.Kind {
	case credref.KindKey:
		for _, k := range v.Keys {
			if k.ID == ref.ID {
				return ref, k.Description
			}
		}
	default:
		for _, p := range v.Passwords {
			if p.ID == ref.ID {
				return ref, p.Description
			}
		}
	}
	return ref, ""
}

func (m *Manager) verifyDecryptable(data *api.SyncData) error {
	for _, h := range data.Hosts {
		if _, err := m.DecryptHost(h); err != nil {
			return err
		}
	}
	for _, p := range data.Passwords {
		if _, err := m.DecryptPassword(p); err != nil {
			return err
		}
	}
	for _, k := range data.Keys {
		if _, err := m.DecryptKey(k); err != nil {
			return err
		}
	}
	return nil
}

func orEmptyHosts(in []*models.Host) []*models.Host {
	if in == nil {
		return []*models.Host{}
	}
	return in
}

func orEmptyPasswords(in []*models.Password) []*models.Password {
	if in == nil {
		return []*models.Password{}
	}
	return in
}

func orEmptyKeys(in []*models.Key) []*models.Key {
	if in == nil {
		return []*models.Key{}
	}
	return in
}
