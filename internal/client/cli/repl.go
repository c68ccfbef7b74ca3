package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isUnlocked() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	List(ctx context.Context) error
	AddHost(ctx context.Context) error
	AddPassword(ctx context.Context) error
	AddKey(ctx context.Context) error
	Sync(ctx context.Context) error
	Push(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpLoggedOut = "Available commands: register, login, help, exit"
const helpLocked = "Available commands: unlock, status, logout, help, exit"
const helpUnlocked = "Available commands: list, add, addpassword, addkey, sync, push, status, lock, logout, help, exit"

// runREPL reads a command per line and dispatches to a. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit". Command errors are printed, not fatal.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sshm %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		var err error
		switch cmd := parts[0]; cmd {
		case "exit", "quit":
			return
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn(helpLoggedOut)
			case !a.isUnlocked():
				printlnFn(helpLocked)
			default:
				printlnFn(helpUnlocked)
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "unlock":
			err = a.Unlock(ctx)
		case "lock":
			err = a.Lock(ctx)
		case "list", "l":
			err = a.List(ctx)
		case "add":
			err = a.AddHost(ctx)
		case "addpassword":
			err = a.AddPassword(ctx)
		case "addkey":
			err = a.AddKey(ctx)
		case "sync":
			err = a.Sync(ctx)
		case "push":
			err = a.Push(ctx)
		case "status":
			err = a.Status(ctx)
		default:
			printlnFn(fmt.Sprintf("Unknown command %q (type 'help')", cmd))
		}
		if err != nil {
			printlnFn(fmt.Sprintf("Error: %s", err.Error()))
		}
	}
}
