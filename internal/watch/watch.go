// Package watch re-runs a callback when any of a set of files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jacoelho/arraydb/internal/ratelimit"
)

var ErrClosed = errors.New("watcher closed")

// DefaultDebounce is the quiet period after the last event before the
// callback runs.
const DefaultDebounce = 100 * time.Millisecond

type Config struct {
	// Paths are the files to watch.
	Paths []string
	// RatePerSecond caps callback runs per second; 0 means unthrottled.
	RatePerSecond float64
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// Watcher watches the parent directories of the configured files and
// filters events by name, so files replaced by rename (as editors do)
// keep being watched.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	limiter  *ratelimit.Limiter
	debounce time.Duration
	targets  map[string]bool
}

func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("watch: no paths")
	}
	if logger == nil {
		logger = slog.Default()
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	targets := make(map[string]bool, len(cfg.Paths))
	dirs := make(map[string]bool)
	for _, path := range cfg.Paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch directory %s: %w", dir, err)
		}
	}

	return &Watcher{
		watcher:  fw,
		logger:   logger,
		limiter:  ratelimit.New(cfg.RatePerSecond),
		debounce: debounce,
		targets:  targets,
	}, nil
}

// Run calls onChange after every burst of changes until ctx is done.
// Callback errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.logger.Info("watching for changes", "files", len(w.targets), "debounce_ms", w.debounce.Milliseconds())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return ErrClosed
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("rate limit: %w", err)
			}
			if err := onChange(ctx); err != nil {
				w.logger.Error("re-run failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrClosed
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) Close() error {
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}

	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.targets[name]
}
