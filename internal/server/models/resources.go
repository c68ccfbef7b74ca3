package models

import "time"

// Host, Password and Key are the three synchronized resource types. Sensitive
// attributes (Login/IP/Port, the password secret, key material) are opaque
// ciphertext produced by the client; the server stores and returns them as
// indivisible strings and never parses or re-encodes them.

// Host describes one SSH destination. CredentialRef is the signed wire
// encoding of a credref.Ref: >= 0 points into the user's passwords, < 0 into
// the user's keys.
type Host struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"-"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Login         string    `json:"login"`
	IP            string    `json:"ip"`
	Port          string    `json:"port"`
	CredentialRef int64     `json:"password_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Password holds one encrypted secret.
type Password struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"-"`
	Description string    `json:"description"`
	Password    string    `json:"password"`
	CreatedAt   time.Time `json:"created_at"`
}

// Key holds encrypted SSH key material. KeyData may be empty when only the
// local path is tracked.
type Key struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"-"`
	Description string    `json:"description"`
	KeyData     string    `json:"key_data"`
	Path        string    `json:"path"`
	CreatedAt   time.Time `json:"created_at"`
}

// SyncStatus is one row per user: the moment of the last successful
// write-sync, updated regardless of which resource types were included.
type SyncStatus struct {
	UserID   string    `json:"-"`
	LastSync time.Time `json:"last_sync"`
}
