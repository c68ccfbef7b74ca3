package cli

import (
	"context"
	"fmt"
)

// Sync pulls the server snapshot into the local vault.
func (a *App) Sync(ctx context.Context) error {
	vault, err := a.sync.Pull(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pulled %d hosts, %d passwords, %d keys.\n",
		len(vault.Hosts), len(vault.Passwords), len(vault.Keys))
	return nil
}

// Push uploads the local vault, replacing the server copy.
func (a *App) Push(ctx context.Context) error {
	lastSync, err := a.sync.Push(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pushed. Server last_sync: %s\n", lastSync.Format("2006-01-02 15:04:05 MST"))
	return nil
}

// Status prints account and server information.
func (a *App) Status(ctx context.Context) error {
	st, err := a.api.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Server %s, account %s\n", st.Version, st.Email)
	fmt.Fprintf(a.out, "Stored: %d hosts, %d passwords, %d keys\n",
		st.Stats.Hosts, st.Stats.Passwords, st.Stats.Keys)
	if st.Stats.LastSync != nil {
		fmt.Fprintf(a.out, "Last sync: %s\n", st.Stats.LastSync.Format("2006-01-02 15:04:05 MST"))
	} else {
		fmt.Fprintln(a.out, "Never synced.")
	}
	return nil
}
