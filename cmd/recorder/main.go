package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"email-assistant/internal/app"
	"email-assistant/internal/history"
	"email-assistant/internal/httputil"
	"email-assistant/internal/queue"
)

func main() {
	deps, err := app.BuildRecorder()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()
	deps.Log.Info("history recorder starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, deps); err != nil {
		deps.Log.Error("recorder stopped", "err", err)
	}
}

// run consumes record tasks and serves health checks until ctx is done or either fails.
func run(ctx context.Context, deps app.RecorderDeps) error {
	g, ctx := errgroup.WithContext(ctx)

	// Run queue worker
	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeRecord, history.Handler(deps.Store, deps.Log))
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(ctx, fmt.Sprintf(":%d", deps.Config.HealthPort), deps.Log)
	})

	return g.Wait()
}
