package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

func (r *Runner) debounce() time.Duration {
	if r.Config.Debounce <= 0 {
		return 500 * time.Millisecond
	}
	return r.Config.Debounce
}

// Watch processes documents created or written in the input directory until
// ctx is cancelled. Events for one file are coalesced: the file is processed
// once it has been quiet for the debounce interval. Per-file failures are
// logged and do not stop the watch. onResult, when non-nil, is called after
// each processed file.
func (r *Runner) Watch(ctx context.Context, onResult func(Result, error)) error {
	if err := r.prepare(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.Config.InputDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.Config.InputDir, err)
	}

	logger := r.logger().With("watch", r.Config.InputDir)
	logger.Info("watching for documents")

	pending := make(map[string]*time.Timer)
	ready := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isCandidate(event.Name) {
				continue
			}

			name := event.Name
			if t, ok := pending[name]; ok {
				t.Reset(r.debounce())
				continue
			}
			pending[name] = time.AfterFunc(r.debounce(), func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			res, err := r.process(ctx, logger, path)
			if onResult != nil {
				onResult(res, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
