package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Debounce coalesces bursts of events into one reload.
	Debounce time.Duration
	Retry    RetryConfig
	Logger   *slog.Logger
}

// Watcher reloads a file whenever it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// replacing the file by rename keeps being noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	retry    RetryConfig
	logger   *slog.Logger
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, opts WatchOptions) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.Retry == (RetryConfig{}) {
		opts.Retry = DefaultRetryConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: opts.Debounce,
		retry:    opts.Retry,
		logger:   opts.Logger,
	}
}

// Run delivers the current content to onChange, then again after every
// change, until ctx is cancelled. The fsnotify watcher is released on
// return.
func (w *Watcher) Run(ctx context.Context, onChange func(text string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	text, err := ReadFile(ctx, w.path, w.retry)
	if err != nil {
		return err
	}
	onChange(text)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("input changed", "path", w.path, "op", event.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)
		case <-timer.C:
			text, err := ReadFile(ctx, w.path, w.retry)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Warn("reload input failed", "path", w.path, "error", err)
				continue
			}
			onChange(text)
		}
	}
}
