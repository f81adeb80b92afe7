// Command candilib-admin runs operator tasks against the Postgres backend:
// schema migration, the daily Aurige import, failure resets and reporting.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"candilib/internal/platform/config"
	"candilib/internal/platform/logger"
)

const usage = `usage: candilib-admin <command> [flags]

commands:
  migrate                      apply the database schema
  aurige -file export.json     import an Aurige validation export
  reset -candidate <uuid>      clear a candidate's failure history
  stats -from D -to D          archive reasons and exam outcomes per centre
  audit [-limit N]             most recent audit entries`

var errUsage = errors.New("bad usage")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1], os.Args[2:])
	stop()
	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		color.Red("candilib-admin %s: %v", os.Args[1], err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cfg.Backend != config.BackendPostgres {
		return fmt.Errorf("STORE_BACKEND must be %q for admin commands", config.BackendPostgres)
	}
	e, err := open(ctx, cfg, logger.New(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer e.close(ctx)

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	switch cmd {
	case "migrate":
		return e.migrate(ctx)
	case "aurige":
		file := fs.String("file", "", "path to the Aurige JSON export")
		if err := fs.Parse(args); err != nil || *file == "" {
			return errUsage
		}
		return e.importAurige(ctx, *file)
	case "reset":
		candidate := fs.String("candidate", "", "candidate ID")
		actor := fs.String("actor", "candilib-admin", "acting user recorded in the archive")
		if err := fs.Parse(args); err != nil || *candidate == "" {
			return errUsage
		}
		return e.resetFailures(ctx, *candidate, *actor)
	case "stats":
		from := fs.String("from", "", "period start (YYYY-MM-DD)")
		to := fs.String("to", "", "period end, exclusive (YYYY-MM-DD)")
		if err := fs.Parse(args); err != nil || *from == "" || *to == "" {
			return errUsage
		}
		return e.stats(ctx, *from, *to)
	case "audit":
		limit := fs.Int("limit", 50, "number of entries")
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		return e.recentAudit(ctx, *limit)
	default:
		return errUsage
	}
}
