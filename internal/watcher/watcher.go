// Package watcher reports when the set of PDFs in a directory changes.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups bursts of events (a copy emits several writes).
const DefaultDebounce = 500 * time.Millisecond

// Watcher emits the directory's PDF list after every settled change.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger
}

func New(debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{fs: fw, debounce: debounce, logger: logger}, nil
}

// Watch monitors dir until ctx is done. Each value on the channel is the
// sorted list of PDF paths in dir once changes have settled.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan []string, error) {
	if err := w.fs.Add(dir); err != nil {
		return nil, err
	}
	out := make(chan []string, 1)
	go func() {
		defer close(out)
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if !isPDF(ev.Name) || ev.Op == fsnotify.Chmod {
					continue
				}
				w.logger.Debug("pdf change", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
				if timer == nil {
					timer = time.NewTimer(w.debounce)
				} else {
					timer.Reset(w.debounce)
				}
				fire = timer.C
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", zap.Error(err))
			case <-fire:
				fire = nil
				files, err := ListPDFs(dir)
				if err != nil {
					w.logger.Warn("listing pdfs", zap.String("dir", dir), zap.Error(err))
					continue
				}
				select {
				case out <- files:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (w *Watcher) Close() error { return w.fs.Close() }

// ListPDFs returns the PDF files directly inside dir, sorted by name.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && isPDF(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
