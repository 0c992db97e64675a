package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sysbutler/butler/internal/events"
	"github.com/sysbutler/butler/internal/localfs"
	"github.com/sysbutler/butler/internal/pathutil"
	"github.com/sysbutler/butler/internal/progress"
	"github.com/sysbutler/butler/internal/transfer"
)

// uiPollInterval - how often the CLI re-snapshots the queue for rendering.
const uiPollInterval = 150 * time.Millisecond

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy SOURCE... DEST",
		Short: "Copy files or directories to a destination",
		Long: `Queues one copy job per SOURCE and runs the queue to completion.
If DEST is an existing directory, each source is copied into it; name
collisions get an ascending " (n)" counter suffix.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(transfer.OpCopy, args)
		},
	}
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move SOURCE... DEST",
		Short: "Move files or directories to a destination",
		Long: `Queues one move job per SOURCE and runs the queue to completion.
Same-volume directory moves are instant renames; cross-volume moves copy
then delete the source.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(transfer.OpMove, args)
		},
	}
}

// runTransfer enqueues one job per source, starts the queue, and renders
// progress until every job reaches a terminal state.
func runTransfer(op transfer.Operation, args []string) error {
	destRoot, err := pathutil.ResolveAbsolutePath(args[len(args)-1])
	if err != nil {
		return fmt.Errorf("failed to resolve destination %s: %w", args[len(args)-1], err)
	}

	sources := make([]string, 0, len(args)-1)
	for _, src := range args[:len(args)-1] {
		abs, err := pathutil.ResolveAbsolutePath(src)
		if err != nil {
			return fmt.Errorf("failed to resolve source %s: %w", src, err)
		}
		if !localfs.Exists(abs) {
			return fmt.Errorf("source does not exist: %s", abs)
		}
		sources = append(sources, abs)
	}

	bus := events.NewBus(0)
	defer bus.Close()

	queue := transfer.NewQueue(logger, bus)
	defer queue.Close()

	for _, src := range sources {
		queue.Enqueue(src, destRoot, op)
	}
	queue.Start()

	ui := progress.NewTransferUI()
	for {
		views := queue.Jobs()
		allDone := true
		for _, view := range views {
			ui.Observe(view)
			if !view.Status.IsTerminal() {
				allDone = false
			}
		}
		if allDone {
			break
		}
		time.Sleep(uiPollInterval)
	}
	ui.Wait()

	stats := queue.Stats()
	logger.Infof("Queue drained: %d completed, %d failed", stats.Completed, stats.Failed)
	queue.ClearCompleted()

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d transfers failed", stats.Failed, stats.Total())
	}
	return nil
}
