package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"leveler/internal/session"
)

const watchDebounce = 300 * time.Millisecond

// watchLevel re-runs the leveling report whenever the bid sheet or scope file is written.
// Parent directories are watched because editors often replace files instead of writing in place.
func watchLevel(cmd *cobra.Command, bidsPath string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := klog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init: %w", err)
	}
	defer watcher.Close()

	targets := watchTargets(bidsPath)
	for dir := range watchDirs(targets) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	rerun := make(chan struct{}, 1)
	trigger := func() {
		select {
		case rerun <- struct{}{}:
		default:
		}
	}
	trigger()

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rerun:
			if err := levelOnce(cmd, bidsPath); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			targets = watchTargets(bidsPath)
			fmt.Fprintf(cmd.ErrOrStderr(), "watching %d files, Ctrl-C to stop\n", len(targets))
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, hit := targets[filepath.Clean(ev.Name)]; !hit || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.V(2).Info("file changed", "path", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: watch: %v\n", err)
		}
	}
}

// watchTargets is the bid sheet plus whatever scope file it currently resolves to.
func watchTargets(bidsPath string) map[string]struct{} {
	targets := map[string]struct{}{filepath.Clean(bidsPath): {}}
	sheet, err := session.LoadSheet(bidsPath)
	if err != nil {
		sheet = session.Sheet{}
	}
	if scopePath := levelScopePath(sheet, bidsPath); scopePath != "" {
		targets[filepath.Clean(scopePath)] = struct{}{}
	}
	return targets
}

func watchDirs(targets map[string]struct{}) map[string]struct{} {
	dirs := map[string]struct{}{}
	for path := range targets {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	return dirs
}
