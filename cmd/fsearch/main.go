package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pders01/fsearch/internal/debuglog"
	"github.com/pders01/fsearch/internal/search"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and maps the outcome to an exit status.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer debuglog.Close()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	debuglog.Errorf("run failed: %v", err)
	if errors.Is(err, search.ErrMissingExpression) {
		fmt.Fprintln(stderr, search.MissingExpressionHelp)
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
