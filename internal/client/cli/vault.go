package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kofany/sshm.io/internal/client/models"
	"github.com/kofany/sshm.io/internal/client/store"
	syncmgr "github.com/kofany/sshm.io/internal/client/sync"
	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/credref"
)

// List prints the vault hosts with decrypted connection details.
func (a *App) List(ctx context.Context) error {
	vault, err := a.store.Load()
	if err != nil {
		return err
	}
	if len(vault.Hosts) == 0 {
		fmt.Fprintln(a.out, "No hosts in the vault. Use 'add' to create one or 'sync' to pull from the server.")
		return nil
	}

	for _, h := range vault.Hosts {
		plain, err := a.sync.DecryptHost(h)
		if err != nil {
			return err
		}
		_, credDesc := syncmgr.Credential(vault, h)
		if credDesc == "" {
			credDesc = "(no credential)"
		}
		fmt.Fprintf(a.out, "%4d  %-20s %s@%s:%s  [%s]  %s\n",
			h.ID, h.Name, plain.Login, plain.IP, plain.Port, credDesc, h.Description)
	}
	return nil
}

// AddHost interactively creates a host entry. Connection details are
// encrypted before the vault is saved.
func (a *App) AddHost(ctx context.Context) error {
	vault, err := a.store.Load()
	if err != nil {
		return err
	}

	h := &models.Host{ID: nextHostID(vault)}
	if h.Name, err = getSimpleText(a.reader, "Host name", a.out); err != nil {
		return err
	}
	if h.Description, err = getSimpleText(a.reader, "Description (optional)", a.out); err != nil {
		return err
	}
	if h.Login, err = getSimpleText(a.reader, "Login", a.out); err != nil {
		return err
	}
	if h.IP, err = getSimpleText(a.reader, "Host address", a.out); err != nil {
		return err
	}
	if h.Port, err = getSimpleText(a.reader, "Port", a.out); err != nil {
		return err
	}

	ref, err := a.promptCredential(vault)
	if err != nil {
		return err
	}
	if h.PasswordID, err = credref.Encode(ref); err != nil {
		return err
	}

	if err := a.sync.EncryptHost(h); err != nil {
		return err
	}
	vault.Hosts = append(vault.Hosts, h)
	if err := a.store.Save(vault); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Host %q added with id %d.\n", h.Name, h.ID)
	return nil
}

// AddPassword interactively stores a new password secret.
func (a *App) AddPassword(ctx context.Context) error {
	vault, err := a.store.Load()
	if err != nil {
		return err
	}

	p := &models.Password{ID: nextPasswordID(vault)}
	if p.Description, err = getSimpleText(a.reader, "Description", a.out); err != nil {
		return err
	}
	secret, err := getPassword("Secret", a.out)
	if err != nil {
		return err
	}
	p.Password = string(secret)
	common.WipeByteArray(secret)

	if err := a.sync.EncryptPassword(p); err != nil {
		return err
	}
	vault.Passwords = append(vault.Passwords, p)
	if err := a.store.Save(vault); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Password %q added with id %d.\n", p.Description, p.ID)
	return nil
}

// AddKey interactively stores SSH key material (or just a local path).
func (a *App) AddKey(ctx context.Context) error {
	vault, err := a.store.Load()
	if err != nil {
		return err
	}

	k := &models.Key{ID: nextKeyID(vault)}
	if k.Description, err = getSimpleText(a.reader, "Description", a.out); err != nil {
		return err
	}
	if k.Path, err = getSimpleText(a.reader, "Local key path (optional)", a.out); err != nil {
		return err
	}
	if k.KeyData, err = GetMultiline(a.reader, "Paste key material (optional)", a.out); err != nil {
		return err
	}

	if err := a.sync.EncryptKey(k); err != nil {
		return err
	}
	vault.Keys = append(vault.Keys, k)
	if err := a.store.Save(vault); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Key %q added with id %d.\n", k.Description, k.ID)
	return nil
}

// promptCredential asks which stored credential the host should use.
func (a *App) promptCredential(vault *store.Vault) (credref.Ref, error) {
	if len(vault.Passwords) == 0 && len(vault.Keys) == 0 {
		fmt.Fprintln(a.out, "No credentials stored yet; using password id 0 as a placeholder.")
		return credref.PasswordRef(0), nil
	}

	for _, p := range vault.Passwords {
		fmt.Fprintf(a.out, "  p%-4d %s\n", p.ID, p.Description)
	}
	for _, k := range vault.Keys {
		fmt.Fprintf(a.out, "  k%-4d %s\n", k.ID, k.Description)
	}

	choice, err := getSimpleText(a.reader, "Credential (p<id> for password, k<id> for key)", a.out)
	if err != nil {
		return credref.Ref{}, err
	}
	if len(choice) < 2 {
		return credref.Ref{}, fmt.Errorf("invalid credential choice %q", choice)
	}
	id, err := strconv.ParseInt(choice[1:], 10, 64)
	if err != nil {
		return credref.Ref{}, fmt.Errorf("invalid credential choice %q", choice)
	}
	switch choice[0] {
	case 'p':
		return credref.PasswordRef(id), nil
	case 'k':
		return credref.KeyRef(id), nil
	default:
		return credref.Ref{}, fmt.Errorf("invalid credential choice %q", choice)
	}
}

func nextHostID(v *store.Vault) int64 {
	var max int64
	for _, h := range v.Hosts {
		if h.ID > max {
			max = h.ID
		}
	}
	return max + 1
}

func nextPasswordID(v *store.Vault) int64 {
	var max int64
	for _, p := range v.Passwords {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func nextKeyID(v *store.Vault) int64 {
	var max int64
	for _, k := range v.Keys {
		if k.ID > max {
			max = k.ID
		}
	}
	return max + 1
}
