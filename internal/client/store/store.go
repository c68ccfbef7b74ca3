// Package store persists the client's local vault: the synchronized
// collections with their sensitive fields still encrypted, plus account
// credentials and the last known sync time. The file on disk never holds
// plaintext secrets.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kofany/sshm.io/internal/client/models"
	"github.com/kofany/sshm.io/internal/filex"
)

const (
	dirName   = ".sshm"
	vaultFile = "vault.json"
)

// Vault is everything the client keeps locally.
type Vault struct {
	Email     string             `json:"email,omitempty"`
	APIKey    string             `json:"api_key,omitempty"`
	Hosts     []*models.Host     `json:"hosts"`
	Passwords []*models.Password `json:"passwords"`
	Keys      []*models.Key      `json:"keys"`
	LastSync  *time.Time         `json:"last_sync,omitempty"`
}

// NewVault returns an empty vault with non-nil collections.
func NewVault() *Vault {
	return &Vault{
		Hosts:     []*models.Host{},
		Passwords: []*models.Password{},
		Keys:      []*models.Key{},
	}
}

// Store reads and writes the vault file.
type Store struct {
	path string
}

// DefaultDir ensures and returns ~/.sshm.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filex.EnsureSubDir(home, dirName)
}

// Open binds a Store to dir without touching the filesystem yet.
func Open(dir string) *Store {
	return &Store{path: filepath.Join(dir, vaultFile)}
}

// Load reads the vault. A missing file is a fresh start, not an error.
func (s *Store) Load() (*Vault, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewVault(), nil
		}
		return nil, err
	}

	v := NewVault()
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	if v.Hosts == nil {
		v.Hosts = []*models.Host{}
	}
	if v.Passwords == nil {
		v.Passwords = []*models.Password{}
	}
	if v.Keys == nil {
		v.Keys = []*models.Key{}
	}
	return v, nil
}

// Save writes the vault atomically with owner-only permissions.
func (s *Store) Save(v *Vault) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(s.path, data, 0o600)
}
