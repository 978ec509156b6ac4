package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Domains(ctx context.Context, args []string) error
	Projects(ctx context.Context, args []string) error
	Zones(ctx context.Context) error
	Reviews(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error
	Master(ctx context.Context, args []string) error
	Hero(ctx context.Context, args []string) error
	About(ctx context.Context, args []string) error
	PaymentList(ctx context.Context, args []string) error
	Developers(ctx context.Context, args []string) error
	Amenity(ctx context.Context, args []string) error
}

const (
	helpSignedOut = "Available commands: login, forgot, exit"
	helpSignedIn  = `Available commands:
  dashboard                      counters
  domains [soon]                 domain list, or only those expiring soon
  projects [show <id>|add|delete <id>]
  zones                          zones launches
  reviews [add|edit <id>|delete <id>]
  users [show <id>|add|edit <id>|delete <id>]
  master [edit]                  site master data
  hero [edit] | about [edit]     home page sections
  paymentlist [add|edit <id>|rmimg <id> <n>|delete <id>]
  developers  [add|edit <id>|rmimg <id> <n>|delete <id>]
  amenity add                    upload an amenity tile
  whoami, logout, exit`
)

// runREPL starts a simple read–eval–print loop for the admin console.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Content commands are only accepted with a session. The loop exits on EOF
// or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("hp %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		case "forgot":
			_ = a.ForgotPassword(ctx)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if isCommand(cmd) {
				printlnFn("Please log in first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "whoami":
			_ = a.Whoami(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "dashboard", "d":
			_ = a.Dashboard(ctx)
		case "domains":
			_ = a.Domains(ctx, args)
		case "projects":
			_ = a.Projects(ctx, args)
		case "zones":
			_ = a.Zones(ctx)
		case "reviews":
			_ = a.Reviews(ctx, args)
		case "users":
			_ = a.Users(ctx, args)
		case "master":
			_ = a.Master(ctx, args)
		case "hero":
			_ = a.Hero(ctx, args)
		case "about":
			_ = a.About(ctx, args)
		case "paymentlist":
			_ = a.PaymentList(ctx, args)
		case "developers":
			_ = a.Developers(ctx, args)
		case "amenity":
			_ = a.Amenity(ctx, args)
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func isCommand(cmd string) bool {
	switch cmd {
	case "whoami", "logout", "dashboard", "d", "domains", "projects", "zones", "reviews",
		"users", "master", "hero", "about", "paymentlist", "developers", "amenity":
		return true
	}
	return false
}

// sub splits args into a subcommand and its operands.
func sub(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

// usage is returned by handlers for malformed arguments.
type usage string

func (u usage) Error() string { return "Usage: " + string(u) }
