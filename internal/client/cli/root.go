package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// getStatus renders the prompt decoration: account email plus lock state.
func (a *App) getStatus() string {
	vault, err := a.store.Load()
	if err != nil {
		return "(?)"
	}

	s := ""
	if vault.Email != "" {
		s = vault.Email + " "
	}
	if a.isUnlocked() {
		s += "unlocked"
	} else {
		s += "locked"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to sshm (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
