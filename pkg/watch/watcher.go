// Package watch processes files as they appear in a drop folder.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Handler processes one settled file.
type Handler func(ctx context.Context, path string)

// Watcher runs Handler for every matching file created or written in Dir.
// Subdirectories are not watched.
type Watcher struct {
	Dir   string
	Match func(path string) bool
	// Debounce is how long a file must stay quiet before it is handled.
	Debounce time.Duration
	// MaxParallel caps concurrent handlers. Values below one mean one.
	MaxParallel int
	Handler     Handler
	Log         logrus.FieldLogger
}

// Run watches until ctx is done, then waits for running handlers.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.Dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory: %s is not a directory", w.Dir)
	}

	log := w.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	log = log.WithField("dir", w.Dir)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	limit := w.MaxParallel
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)

	// stopped guards g.Go against calls after Run decided to return.
	var (
		mu      sync.Mutex
		stopped bool
	)
	debouncer := NewDebouncer(w.Debounce, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		if _, err := os.Stat(path); err != nil {
			log.WithField("path", path).Debug("File vanished before processing")
			return
		}
		g.Go(func() error {
			w.Handler(ctx, path)
			return nil
		})
	})

	log.Info("Watching for files")

	runErr := func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-fsw.Events:
				if !ok {
					return nil
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if IsTemporaryFile(event.Name) || !w.Match(event.Name) {
					continue
				}
				log.WithFields(logrus.Fields{"path": event.Name, "op": event.Op.String()}).Debug("File event")
				debouncer.Trigger(event.Name)
			case err, ok := <-fsw.Errors:
				if !ok {
					return nil
				}
				log.WithError(err).Warn("Watcher error")
			}
		}
	}()

	debouncer.Stop()
	mu.Lock()
	stopped = true
	mu.Unlock()

	_ = g.Wait()
	log.Info("Stopped watching")
	return runErr
}

// IsTemporaryFile reports files that editors, browsers and office suites
// create while a file is still being written.
func IsTemporaryFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return true
	}
	lower := strings.ToLower(name)
	for _, suffix := range []string{".tmp", ".part", ".crdownload", ".download", "~"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
