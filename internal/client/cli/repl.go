package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	Register(ctx context.Context) error
	SignIn(ctx context.Context) error
	Status(ctx context.Context) error
	Product(ctx context.Context, id string) error
	SignOut(ctx context.Context) error
}

func prompt(status string) string {
	if status == "" {
		return "sk>"
	}
	return fmt.Sprintf("sk %s>", status)
}

// runREPL reads commands from scanner until EOF, "exit" or "quit". Handler
// errors are ignored here; handlers print their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(prompt(statusFn()))
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
			printlnFn("Available commands: register, signin, status, product <id>, signout, exit")

		case "register":
			_ = a.Register(ctx)

		case "signin", "login":
			_ = a.SignIn(ctx)

		case "status":
			_ = a.Status(ctx)

		case "product":
			if len(args) != 1 {
				printlnFn("Usage: product <id>")
				continue
			}
			_ = a.Product(ctx, args[0])

		case "signout", "logout":
			_ = a.SignOut(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
