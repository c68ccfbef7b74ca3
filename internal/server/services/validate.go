package services

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/kofany/sshm.io/internal/common"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail rejects malformed addresses before any state mutation.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorInvalidEmail)
	}
	return nil
}

// ValidatePassword enforces the account-password policy: at least 8
// characters with upper, lower, digit and special. This guards the login
// password only; the encryption passphrase never reaches the server.
func ValidatePassword(password string) error {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if len(password) < 8 || !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorWeakPassword)
	}
	return nil
}
