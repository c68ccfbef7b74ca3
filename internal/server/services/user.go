package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/logging"
	"github.com/kofany/sshm.io/internal/mailx"
	"github.com/kofany/sshm.io/internal/server/models"
	"github.com/kofany/sshm.io/internal/server/repositories/repomanager"
)

const (
	bcryptCost = 12

	// tokenBytes random bytes per credential, hex-encoded to twice as many
	// characters. Applies to api keys, confirm tokens and reset tokens.
	tokenBytes = 16

	resetTokenTTL = time.Hour
)

// UserService implements the account lifecycle: registration, email
// confirmation, login checks, profile updates, password reset and deletion.
// Session handling stays out of this layer; callers revoke sessions when a
// returned flag says credentials changed.
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	mailer mailx.Mailer
	log    logging.Logger
	now    func() time.Time
}

func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, mailer mailx.Mailer, log logging.Logger) *UserService {
	return &UserService{
		db:     db,
		repos:  repos,
		mailer: mailer,
		log:    log.With("service", "user"),
		now:    time.Now,
	}
}

// Register creates an inactive account with a fresh API key and confirmation
// token, then queues the confirmation mail. Mail delivery failures are
// logged but do not undo the registration.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorMissingFields)
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.repos.Users(s.db).GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorEmailTaken)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	apiKey, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return nil, err
	}
	confirmToken, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		APIKey:       apiKey,
		ConfirmToken: sql.NullString{String: confirmToken, Valid: true},
	}
	user, err = s.repos.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendConfirmation(ctx, email, confirmToken); err != nil {
		s.log.Warn(ctx, "confirmation mail failed", "user_id", user.ID, "error", err)
	}
	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies email and password and returns the account. The same
// ErrorUnauthorized covers unknown email and wrong password so responses do
// not reveal which one failed. Inactive accounts are rejected after the
// password check.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorMissingFields)
	}
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrorAccountInactive
	}
	return user, nil
}

// ConfirmEmail activates the account holding the token.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrInvalidToken
	}
	user, err := s.repos.Users(s.db).Activate(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	s.log.Info(ctx, "email confirmed", "user_id", user.ID)
	return user, nil
}

// RequestPasswordReset mints a one-hour reset token and mails it. An unknown
// email returns success without side effects so the endpoint cannot be used
// to probe for accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorMissingFields)
	}
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return err
	}
	expires := s.now().Add(resetTokenTTL)
	if err := s.repos.Users(s.db).SetResetToken(ctx, user.ID, token, expires); err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, email, token); err != nil {
		s.log.Warn(ctx, "reset mail failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// ConfirmPasswordReset sets a new password for the account holding a live
// reset token and consumes the token. Returns the user so the caller can
// revoke any open sessions.
func (s *UserService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrInvalidToken
	}
	if err := ValidatePassword(newPassword); err != nil {
		return nil, err
	}
	user, err := s.repos.Users(s.db).GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.repos.Users(s.db).UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return nil, err
	}
	if err := s.repos.Users(s.db).ClearResetToken(ctx, user.ID); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "password reset", "user_id", user.ID)
	return user, nil
}

// UpdateInput carries a profile change. CurrentPassword is always required.
// Empty fields are left as they are; RotateAPIKey mints a replacement key.
type UpdateInput struct {
	CurrentPassword string `json:"current_password"`
	Email           string `json:"email"`
	NewPassword     string `json:"new_password"`
	RotateAPIKey    bool   `json:"rotate_api_key"`
}

// UpdateResult reports what changed. CredentialsChanged tells the caller to
// revoke the user's other sessions.
type UpdateResult struct {
	User               *models.User
	CredentialsChanged bool
}

// Update applies a profile change after re-verifying the current password.
func (s *UserService) Update(ctx context.Context, userID string, in UpdateInput) (*UpdateResult, error) {
	if in.Email == "" && in.NewPassword == "" && !in.RotateAPIKey {
		return nil, fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorMissingFields)
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrorAccountInactive
	}

	res := &UpdateResult{User: user}

	emailChanged := in.Email != "" && in.Email != user.Email
	if emailChanged {
		if err := ValidateEmail(in.Email); err != nil {
			return nil, err
		}
		if _, err := s.repos.Users(s.db).GetByEmail(ctx, in.Email); err == nil {
			return nil, fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorEmailTaken)
		} else if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		if err := s.repos.Users(s.db).UpdateEmail(ctx, userID, in.Email); err != nil {
			return nil, err
		}
		user.Email = in.Email
	}

	if in.NewPassword != "" {
		if err := ValidatePassword(in.NewPassword); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.repos.Users(s.db).UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		res.CredentialsChanged = true
	}

	if in.RotateAPIKey {
		apiKey, err := common.MakeRandHexString(tokenBytes)
		if err != nil {
			return nil, err
		}
		if err := s.repos.Users(s.db).UpdateAPIKey(ctx, userID, apiKey); err != nil {
			return nil, err
		}
		user.APIKey = apiKey
		res.CredentialsChanged = true
	}

	s.log.Info(ctx, "user updated", "user_id", userID,
		"email_changed", emailChanged,
		"password_changed", in.NewPassword != "", "api_key_rotated", in.RotateAPIKey)
	return res, nil
}

// ByAPIKey resolves an API key to its active account. Inactive accounts and
// unknown keys both come back as ErrorNotFound.
func (s *UserService) ByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	return s.repos.Users(s.db).GetActiveByAPIKey(ctx, apiKey)
}

// Info returns the account row for the info endpoint.
func (s *UserService) Info(ctx context.Context, userID string) (*models.User, error) {
	return s.repos.Users(s.db).GetByID(ctx, userID)
}

// Delete removes the account; hosts, passwords, keys and sync status go with
// it through the FK cascade.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.repos.Users(s.db).Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info(ctx, "user deleted", "user_id", userID)
	return nil
}
