package cytonicgen

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a Watcher waits for changes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reruns a function whenever one of a set of files changes.
type Watcher struct {
	Files []string

	// Debounce coalesces bursts of events, as editors save in several
	// steps. Default: DefaultDebounce
	Debounce time.Duration

	// Default: slog.Default()
	Logger *slog.Logger
}

// Run calls fn once and then after every change to the watched files, until
// ctx is done. Failures of fn are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer fw.Close()

	watched := make(map[string]bool, len(w.Files))
	dirs := make(map[string]bool)
	for _, f := range w.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Wrapf(err, "resolving %s", f)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return errors.Wrapf(err, "watching %s", dir)
		}
	}

	run := func() {
		start := time.Now()
		if err := fn(ctx); err != nil {
			logger.ErrorContext(ctx, "generation failed", "error", err)
			return
		}
		logger.InfoContext(ctx, "generation finished", "duration", time.Since(start))
	}
	run()

	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.DebugContext(ctx, "change detected", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "file watcher error", "error", err)

		case <-trigger:
			run()
		}
	}
}

// Watch generates into dir and regenerates whenever a definition file
// changes, until ctx is done. The generator must have been created with
// FromFiles.
func (g *Generator) Watch(ctx context.Context, dir string) error {
	if len(g.files) == 0 {
		return errors.New("watch requires a generator created with FromFiles")
	}
	w := &Watcher{Files: g.files, Logger: g.cfg.Logger}
	return w.Run(ctx, func(ctx context.Context) error {
		cfg := g.cfg
		cfg.OutDir = dir
		_, err := g.run(ctx, &cfg)
		return err
	})
}
