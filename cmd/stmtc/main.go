// Command stmtc compiles placeholder templates and runs configured statement
// builders against a message.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"

	_ "github.com/Konsultn-Engineering/sqlstmt/providers/postgres"
)

type app struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// errReported means the failure was already printed.
var errReported = errors.New("failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{ctx: ctx, stdin: stdin, stdout: stdout, stderr: stderr}

	parser := flags.NewNamedParser("stmtc", flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.AddCommand("compile", "Compile placeholder templates",
		"Compile each template and print the rewritten statement with its parameters.",
		&compileCommand{app: a}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("run", "Run a configured statement builder",
		"Load a config file, connect, and service one message with the named builder.",
		&runCommand{app: a}); err != nil {
		panic(err)
	}

	_, err := parser.ParseArgs(args)
	switch {
	case err == nil:
		return 0
	case flags.WroteHelp(err):
		fmt.Fprintln(stdout, err)
		return 0
	case errors.Is(err, errReported):
		return 1
	default:
		fmt.Fprintf(stderr, "stmtc: %v\n", err)
		return 1
	}
}
