package models

import (
	"database/sql"
	"time"
)

// User is the identity row. Accounts are created inactive and activated by
// the email-confirmation token; APIKey is the long-lived credential for
// desktop clients. Deleting a user cascades to every owned resource.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	APIKey            string
	IsActive          bool
	ConfirmToken      sql.NullString
	ResetToken        sql.NullString
	ResetTokenExpires sql.NullTime
	CreatedAt         time.Time
}
