package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	unlocked bool
	calls    []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool                    { return s.loggedIn }
func (s *stubExec) isUnlocked() bool                    { return s.unlocked }
func (s *stubExec) Register(ctx context.Context) error  { return s.record("register") }
func (s *stubExec) Login(ctx context.Context) error     { return s.record("login") }
func (s *stubExec) Logout(ctx context.Context) error    { return s.record("logout") }
func (s *stubExec) Unlock(ctx context.Context) error    { return s.record("unlock") }
func (s *stubExec) Lock(ctx context.Context) error      { return s.record("lock") }
func (s *stubExec) List(ctx context.Context) error      { return s.record("list") }
func (s *stubExec) AddHost(ctx context.Context) error   { return s.record("add") }
func (s *stubExec) AddPassword(ctx context.Context) error { return s.record("addpassword") }
func (s *stubExec) AddKey(ctx context.Context) error    { return s.record("addkey") }
func (s *stubExec) Sync(ctx context.Context) error      { return s.record("sync") }
func (s *stubExec) Push(ctx context.Context) error      { return s.record("push") }
func (s *stubExec) Status(ctx context.Context) error    { return s.record("status") }

func runScript(t *testing.T, exec *stubExec, script string) []string {
	t.Helper()
	var printed []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		for _, v := range a {
			printed = append(printed, v.(string))
		}
		return 0, nil
	}
	defer func() { printlnFn = orig }()

	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), exec, func() string { return "" }, scanner)
	return printed
}

func TestREPLDispatch(t *testing.T) {
	exec := &stubExec{loggedIn: true, unlocked: true}
	runScript(t, exec, "login\nunlock\nlist\nadd\nsync\npush\nstatus\nlock\nlogout\nexit\nlist\n")

	assert.Equal(t,
		[]string{"login", "unlock", "list", "add", "sync", "push", "status", "lock", "logout"},
		exec.calls, "commands after exit must not run")
}

func TestREPLShortList(t *testing.T) {
	exec := &stubExec{}
	runScript(t, exec, "l\n")
	assert.Equal(t, []string{"list"}, exec.calls)
}

func TestREPLUnknownCommand(t *testing.T) {
	exec := &stubExec{}
	printed := runScript(t, exec, "frobnicate\n")

	assert.Empty(t, exec.calls)
	joined := strings.Join(printed, "\n")
	assert.Contains(t, joined, "Unknown command")
	assert.Contains(t, joined, "frobnicate")
}

func TestREPLHelpMatchesState(t *testing.T) {
	printed := runScript(t, &stubExec{}, "help\n")
	assert.Contains(t, strings.Join(printed, "\n"), helpLoggedOut)

	printed = runScript(t, &stubExec{loggedIn: true}, "help\n")
	assert.Contains(t, strings.Join(printed, "\n"), helpLocked)

	printed = runScript(t, &stubExec{loggedIn: true, unlocked: true}, "help\n")
	assert.Contains(t, strings.Join(printed, "\n"), helpUnlocked)
}

func TestREPLIgnoresBlankLines(t *testing.T) {
	exec := &stubExec{}
	runScript(t, exec, "\n   \nlogin\n")
	assert.Equal(t, []string{"login"}, exec.calls)
}
