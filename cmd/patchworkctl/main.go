// Command patchworkctl checks rules files and catalogs, plays unattended games
// and inspects what finished games left behind.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

const usage = `usage: patchworkctl <command> [flags]

commands:
  validate   check a rules file and its patch catalog
  simulate   play unattended games and record their results
  results    list recorded results, newest first
  journal    print the entries of a game journal
  verify     check a signed scorecard
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	if errors.Is(err, errUsage) {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "patchworkctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "validate":
		return runValidate(rest, stdout)
	case "simulate":
		return runSimulate(ctx, rest, stdout)
	case "results":
		return runResults(ctx, rest, stdout)
	case "journal":
		return runJournal(rest, stdout)
	case "verify":
		return runVerify(rest, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
