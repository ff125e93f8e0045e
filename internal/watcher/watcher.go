// Package watcher turns a directory into a drop box: every video file that
// appears in it is handed to a processing callback, with a bounded number of
// files in flight at once.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"clipforge/internal/logger"
)

// Handler processes one newly arrived video file.
type Handler func(ctx context.Context, path string) error

// settleDelay gives the writer time to finish the file before we read it.
const settleDelay = 500 * time.Millisecond

var videoExts = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {},
	".webm": {}, ".m4v": {}, ".flv": {},
}

type Watcher struct {
	inputDir string
	handler  Handler
	log      logger.Logger

	fs  *fsnotify.Watcher
	sem chan struct{}
	wg  sync.WaitGroup
}

func New(inputDir string, handler Handler, log logger.Logger, maxConcurrent int) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(inputDir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", inputDir, err)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &Watcher{
		inputDir: inputDir,
		handler:  handler,
		log:      log,
		fs:       fs,
		sem:      make(chan struct{}, maxConcurrent),
	}, nil
}

// Run blocks until ctx is cancelled, dispatching every created video file to
// the handler. Cancellation waits for in-flight handlers to finish.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info(ctx, "watching %s (max %d in flight)", w.inputDir, cap(w.sem))

	for {
		select {
		case <-ctx.Done():
			w.log.Info(ctx, "waiting for in-flight files to finish")
			w.wg.Wait()
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			if !isVideoFile(ev.Name) {
				w.log.Debug(ctx, "ignoring %s", ev.Name)
				continue
			}
			w.log.Info(ctx, "new video: %s", ev.Name)
			time.Sleep(settleDelay)

			select {
			case w.sem <- struct{}{}:
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}
			w.wg.Add(1)
			go func(path string) {
				defer w.wg.Done()
				defer func() { <-w.sem }()
				if err := w.handler(ctx, path); err != nil {
					w.log.Error(ctx, "process %s: %v", path, err)
				}
			}(ev.Name)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			w.log.Error(ctx, "watch error: %v", err)
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func isVideoFile(path string) bool {
	_, ok := videoExts[strings.ToLower(filepath.Ext(path))]
	return ok
}
