package cli

import (
	"context"
	"fmt"

	"github.com/kofany/sshm.io/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and account password and creates a new
// account. The API key comes back immediately; the account stays inactive
// until the confirmation link from the email is followed.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter account password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	creds, err := a.api.Register(ctx, email, string(password))
	if err != nil {
		return err
	}

	if err := a.saveCredentials(creds.Email, creds.APIKey); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registered. Check your email to activate the account.")
	return nil
}

// Login authenticates with email and account password and stores the
// returned API key for subsequent calls.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter account password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	creds, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	if err := a.saveCredentials(creds.Email, creds.APIKey); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged in.")
	return nil
}

// Logout drops the stored API key and locks the vault. Server-side sessions
// are a web panel concern; the CLI only needs to forget its credentials.
func (a *App) Logout(ctx context.Context) error {
	a.session.Invalidate()

	vault, err := a.store.Load()
	if err != nil {
		return err
	}
	vault.APIKey = ""
	if err := a.store.Save(vault); err != nil {
		return err
	}
	a.api.SetAPIKey("")
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Unlock asks for the encryption passphrase and opens the session.
func (a *App) Unlock(ctx context.Context) error {
	passphrase, err := getPassword("Enter encryption passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	if err := a.session.Initialize(passphrase); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Vault unlocked.")
	return nil
}

// Lock wipes the in-memory key immediately.
func (a *App) Lock(ctx context.Context) error {
	a.session.Invalidate()
	return nil
}

func (a *App) saveCredentials(email, apiKey string) error {
	vault, err := a.store.Load()
	if err != nil {
		return err
	}
	vault.Email = email
	vault.APIKey = apiKey
	if err := a.store.Save(vault); err != nil {
		return err
	}
	a.api.SetAPIKey(apiKey)
	return nil
}
