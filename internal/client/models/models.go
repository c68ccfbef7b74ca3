// Package models defines the client-side view of synchronized resources.
// The wire shape matches the server exactly; whether the sensitive fields
// hold ciphertext or plaintext depends on which side of the encryption
// boundary a value is on, and is tracked by the sync manager, not the type.
package models

import "time"

// Host is one SSH destination. Login, IP and Port are encrypted in transit
// and at rest; PasswordID is the signed credential reference (>= 0 password,
// < 0 key).
type Host struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Login       string    `json:"login"`
	IP          string    `json:"ip"`
	Port        string    `json:"port"`
	PasswordID  int64     `json:"password_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Password is one stored secret; Password is the encrypted field.
type Password struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Password    string    `json:"password"`
	CreatedAt   time.Time `json:"created_at"`
}

// Key is SSH key material; KeyData is the encrypted field.
type Key struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	KeyData     string    `json:"key_data"`
	Path        string    `json:"path"`
	CreatedAt   time.Time `json:"created_at"`
}
