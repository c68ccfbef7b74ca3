package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureSubDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()

	got, err := EnsureSubDir(tmp, ".sshm")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, ".sshm"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureSubDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()

	first, err := EnsureSubDir(tmp, ".sshm")
	require.NoError(t, err)
	second, err := EnsureSubDir(tmp, ".sshm")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureSubDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "taken"), []byte("x"), 0o600))

	_, err := EnsureSubDir(tmp, "taken")
	require.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o600))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "first", string(got))

	// Overwrite replaces the content in one step.
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o600))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}

	// No stray temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
