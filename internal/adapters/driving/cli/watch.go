package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ferrule-labs/scantext/internal/logger"
)

// watchDebounce batches filesystem events: scanners and cameras write
// image files in bursts, and one rebuild per burst is enough.
const watchDebounce = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the scans directory and index new images automatically",
	Long: `Watches the scans directory for new or modified images and runs an
incremental index build after each burst of changes. Runs until
interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := initRuntime(); err != nil {
		return err
	}
	if indexBuilder == nil {
		return errors.New("index builder not configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(appConfig.Paths.ScansDir); err != nil {
		return fmt.Errorf("watching %s: %w", appConfig.Paths.ScansDir, err)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", appConfig.Paths.ScansDir)

	// Index whatever is already there before waiting for events.
	if err := buildOnce(cmd.Context(), cmd); err != nil {
		return err
	}

	return watchLoop(cmd.Context(), cmd, watcher)
}

func watchLoop(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher) error {
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Filesystem event: %s", event)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				pending = timer.C
			} else {
				timer.Reset(watchDebounce)
			}

		case <-pending:
			timer = nil
			pending = nil
			if err := buildOnce(ctx, cmd); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func buildOnce(ctx context.Context, cmd *cobra.Command) error {
	report, err := indexBuilder.Build(ctx, false)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("index build failed: %w", err)
	}
	if report.Indexed > 0 || report.Failed > 0 {
		cmd.Printf("[%s] %d indexed, %d unchanged, %d failed\n",
			time.Now().Format("15:04:05"), report.Indexed, report.Skipped, report.Failed)
	}
	return nil
}
