package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
)

// watchDelay is how long Watch waits after the last change to the file
// before reloading it.
const watchDelay = 100 * time.Millisecond

// Watch reloads the config file at path whenever it changes and passes the
// new configuration to onChange. A file which fails to load is logged and
// ignored. Watch blocks until ctx is done, and onChange is called on the
same goroutine.
func Watch(ctx context.Context, path string, flags *pflag.FlagSet, logger *slog.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("couldn't watch config: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files rather than writing them, so watch the
	// directory and filter by name.
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("couldn't watch config: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("couldn't watch config: %w", err)
	}

	// Reloads wait for events to settle. They run on this goroutine, so
	// onChange is never called after Watch returns.
	var (
		debounce *time.Timer
		reload   <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDelay)
			} else {
				debounce.Reset(watchDelay)
			}
			reload = debounce.C

		case <-reload:
			reload = nil
			cfg, err := Load(path, flags)
			if err != nil {
				logger.Error("config reload failed", slog.String("file", path), slog.Any("err", err))
				continue
			}
			logger.Info("config reloaded", slog.String("file", path))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", slog.Any("err", err))
		}
	}
}
