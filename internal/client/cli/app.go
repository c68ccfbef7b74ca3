// Package cli implements the interactive sshm client: account commands,
// vault management and synchronization, all on top of the encryption
// session. Secrets are decrypted only for display and never written to disk.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kofany/sshm.io/internal/client/api"
	"github.com/kofany/sshm.io/internal/client/config"
	"github.com/kofany/sshm.io/internal/client/session"
	"github.com/kofany/sshm.io/internal/client/store"
	syncmgr "github.com/kofany/sshm.io/internal/client/sync"
	"github.com/kofany/sshm.io/internal/logging"
)

type App struct {
	config  *config.Config
	api     *api.Client
	session *session.Session
	store   *store.Store
	sync    *syncmgr.Manager
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	dir, err := store.DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}
	st := store.Open(dir)

	vault, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("vault load error: %w", err)
	}
	apiKey := c.APIKey
	if apiKey == "" {
		apiKey = vault.APIKey
	}

	apiClient := api.New(c.ServerURL, apiKey)
	sess := session.New(c.SessionTimeout)
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	a := &App{
		config:  c,
		api:     apiClient,
		session: sess,
		store:   st,
		sync:    syncmgr.NewManager(apiClient, sess, st, log),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	sess.OnExpired(func() {
		fmt.Fprintln(a.out, "Encryption session expired; run 'unlock' to continue.")
	})
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

// isLoggedIn reports whether an API key is available for server calls.
func (a *App) isLoggedIn() bool {
	vault, err := a.store.Load()
	if err != nil {
		return false
	}
	return a.config.APIKey != "" || vault.APIKey != ""
}

// isUnlocked reports whether the encryption session is active.
func (a *App) isUnlocked() bool {
	return a.session.State() == session.StateActive
}
