// Command outbox-replay stores analyses that were parked in the outbox
// after a failed database write, then removes them from the outbox:
//
//	go run ./cmd/outbox-replay
//
// It refuses to run against the in-memory store, since replaying there
// would delete parked records without keeping them anywhere.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resume-analyzer/internal/bootstrap"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/telemetry"
)

var (
	errOutboxDisabled = errors.New("OUTBOX_STORE is none; nothing to replay")
	errNoDurableStore = errors.New("replay needs DATABASE_URL or SQLITE_PATH; the in-memory store would lose parked analyses")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	if err := run(ctx, cfg); err != nil {
		telemetry.Error("outbox.replay_exit", map[string]any{"error": err})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	outbox, err := bootstrap.BuildOutbox(ctx, cfg)
	if err != nil {
		return err
	}
	if outbox == nil {
		return errOutboxDisabled
	}

	repos, err := bootstrap.BuildRepos(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer repos.Close()
	if !repos.Durable {
		return errNoDurableStore
	}

	res, err := outbox.Replay(ctx, repos.Analyses)
	telemetry.Info("outbox.replay_done", map[string]any{"stored": len(res.Stored), "failed": len(res.Failed)})
	if err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d parked analyses could not be stored", len(res.Failed))
	}
	return nil
}
