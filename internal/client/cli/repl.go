package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Sync(ctx context.Context, args []string) error
	Schedule(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: login, whoami, (l)ist, add, update, delete, schedule, exit"
	helpSignedIn  = "Available commands: whoami, (l)ist, add, update, delete, sync, schedule, attach, download, logout, exit"
)

// runREPL reads commands from scanner until EOF, "exit" or "quit", or until
// ctx is done. The first token selects the command; the rest are passed to
// the handler as arguments. Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	handlers := map[string]func(context.Context, []string) error{
		"login":    a.Login,
		"logout":   a.Logout,
		"whoami":   a.Whoami,
		"l":        a.List,
		"list":     a.List,
		"add":      a.Add,
		"update":   a.Update,
		"delete":   a.Delete,
		"sync":     a.Sync,
		"schedule": a.Schedule,
		"attach":   a.Attach,
		"download": a.Download,
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("studysync %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		h, ok := handlers[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := h(ctx, args); err != nil {
			printlnFn("error:", err)
		}
	}
}
