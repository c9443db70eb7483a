package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL and dispatch need.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Help() error
	Init(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	View(ctx context.Context, args []string) error
	Key(ctx context.Context) error
	Sync(ctx context.Context) error
}

// runREPL reads commands from scanner and dispatches them to a until EOF or
// "exit"/"quit". Errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn("spm> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "shell":
			printlnFn("already in the shell")
		default:
			if err := dispatch(ctx, a, cmd, parts[1:]); err != nil {
				printlnFn("error:", err)
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}
