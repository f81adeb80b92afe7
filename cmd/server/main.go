package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"candilib/internal/platform/config"
	"candilib/internal/platform/httpserver"
	"candilib/internal/platform/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	queueGaugesPeriod = 15 * time.Second
)

// main wires dependencies, exposes the HTTP router and runs the background
// flushers. Business logic lives in internal service packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "candilib: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	srv := httpserver.New(cfg.Addr, a.router())
	log.Info("starting candilib", "addr", cfg.Addr, "backend", string(cfg.Backend))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpserver.Serve(gctx, srv, shutdownTimeout) })
	g.Go(func() error { return a.notifications.Run(gctx) })
	g.Go(func() error { return a.audit.Run(gctx) })
	g.Go(func() error {
		a.reportQueues(gctx, queueGaugesPeriod)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("candilib stopped with error", "error", err)
		return err
	}
	log.Info("candilib stopped")
	return nil
}
