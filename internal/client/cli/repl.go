package cli

import (
	"context"
	"strings"
)

// chatExec is the command surface of the chat REPL. App implements it; tests
// use a stub.
type chatExec interface {
	active() bool
	Send(ctx context.Context, text string) error
	Help()
	Sessions()
	NewChat(ctx context.Context) error
	Switch(ctx context.Context, arg string) error
	Rename(ctx context.Context, arg, title string) error
	Delete(ctx context.Context, arg string) error
	Attach(path string) error
	Detach(arg string) error
	Files()
	Logout(ctx context.Context) error
}

// runREPL reads chat input until the route changes, input ends or the user
// types /exit. Lines starting with "/" are commands, anything else is sent
// as a message. It reports whether the program should quit.
//
// Handler errors are not printed here; handlers report their own failures.
func runREPL(ctx context.Context, a chatExec, prompt func() string, next func(prompt string) (string, error)) bool {
	for a.active() {
		line, err := next(prompt())
		if err != nil {
			return true
		}
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			_ = a.Send(ctx, line)
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "/help":
			a.Help()
		case "/sessions":
			a.Sessions()
		case "/new":
			_ = a.NewChat(ctx)
		case "/switch":
			_ = a.Switch(ctx, rest)
		case "/rename":
			n, title, _ := strings.Cut(rest, " ")
			_ = a.Rename(ctx, n, strings.TrimSpace(title))
		case "/delete":
			_ = a.Delete(ctx, rest)
		case "/attach":
			_ = a.Attach(rest)
		case "/detach":
			_ = a.Detach(rest)
		case "/files":
			a.Files()
		case "/logout":
			_ = a.Logout(ctx)
		case "/exit", "/quit":
			return true
		default:
			printlnFn("Perintah tidak dikenal:", cmd)
		}
	}
	return false
}
