package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when New is given a zero window.
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls onChange with the set of relevant paths that changed during
// each debounce window.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	filter   Filter
	onChange func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
}

// New creates a Watcher. A nil filter accepts every path.
func New(debounce time.Duration, filter Filter, onChange func(paths []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}
	return &Watcher{
		fsw:      fsw,
		debounce: debounce,
		filter:   filter,
		onChange: onChange,
		pending:  make(map[string]struct{}),
	}, nil
}

// WatchRecursive adds a directory and all its subdirectories.
func (w *Watcher) WatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// WatchFiles watches the directories holding files. Editors often replace a
// file instead of writing it in place, which a watch on the file itself misses.
func (w *Watcher) WatchFiles(files []string) error {
	seen := make(map[string]bool)
	for _, f := range files {
		dir := filepath.Dir(f)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return nil
}

// Run starts the event loop. It blocks until ctx is cancelled or the
// underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	debouncer := NewDebouncer(w.debounce, w.flush)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevantOp(event.Op) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.WatchRecursive(event.Name)
					continue
				}
			}
			if !w.filter(event.Name) {
				continue
			}
			slog.Debug("session file changed", "path", event.Name, "op", event.Op.String())
			w.mu.Lock()
			w.pending[event.Name] = struct{}{}
			w.mu.Unlock()
			debouncer.Trigger()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 || w.onChange == nil {
		return
	}
	sort.Strings(paths)
	w.onChange(paths)
}

func relevantOp(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}
