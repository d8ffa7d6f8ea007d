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
	"github.com/spf13/viper"

	"github.com/SmileofHaven/Audion-Changes/internal/covers"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

// watchDebounce batches a burst of filesystem events into one sync run
const watchDebounce = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the covers tree and re-sync pointers on changes",
	Long: `Watch <covers-root>/tracks and <covers-root>/albums for files placed
out-of-band and re-run the path sync whenever new covers appear. Stops on
interrupt.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	logger, err := newEventLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	root := viper.GetString("covers-root")
	syncer := covers.NewSyncer(db, root, logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range []string{filepath.Join(root, "tracks"), filepath.Join(root, "albums")} {
		if err := watcher.Add(dir); err != nil {
			util.WarnLog("Cannot watch %s: %v", dir, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no covers directories to watch under %s", root)
	}

	util.InfoLog("Watching %d directories under %s (Ctrl-C to stop)", watched, root)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !covers.IsImageFile(event.Name) {
				continue
			}
			util.DebugLog("Cover file event: %s", event.Name)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			timerCh = timer.C

		case <-timerCh:
			if _, err := syncer.Run(); err != nil {
				util.ErrorLog("Sync failed: %v", err)
			}
			timer = nil
			timerCh = nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			util.WarnLog("Watcher error: %v", err)

		case <-sigCh:
			util.InfoLog("Stopping watch")
			return nil
		}
	}
}
