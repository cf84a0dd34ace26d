package fs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/docindex"
)

// DefaultDebounce is how long a file must be quiet before its change is
// reported.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called with the absolute path of a markdown file that was
// created or written.
type ChangeFunc func(ctx context.Context, path string)

// Watcher reports changed markdown files below a directory. Rapid events for
// the same file are coalesced into one call. Removals are not reported.
type Watcher struct {
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	// ErrorFn, if set, receives errors from the underlying watcher.
	ErrorFn func(err error)

	dir      string
	onChange ChangeFunc
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// NewWatcher starts watching every directory below dir. Events are not
// delivered until Run is called.
func NewWatcher(dir string, onChange ChangeFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		onChange: onChange,
		fsw:      fsw,
		pending:  make(map[string]*time.Timer),
	}
	if err := w.addRecursive(context.Background(), dir, false); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return w, nil
}

// Run delivers change events until ctx is cancelled. Pending changes are
// dropped and in-flight callbacks finish before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if w.ErrorFn != nil {
				w.ErrorFn(err)
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			// Files may land in a new directory before it is watched.
			if err := w.addRecursive(ctx, event.Name, true); err != nil && w.ErrorFn != nil {
				w.ErrorFn(err)
			}
		}
		return
	}

	if docindex.IsMarkdown(event.Name) {
		w.schedule(ctx, event.Name)
	}
}

// addRecursive watches root and every directory below it. With schedule set,
// markdown files already present are reported as changed.
func (w *Watcher) addRecursive(ctx context.Context, root string, schedule bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return w.fsw.Add(path)
		}
		if schedule && docindex.IsMarkdown(path) {
			w.schedule(ctx, path)
		}
		return nil
	})
}

func (w *Watcher) debounce() time.Duration {
	if w.Debounce > 0 {
		return w.Debounce
	}
	return DefaultDebounce
}

// schedule reports path once it has been quiet for the debounce window.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok && t.Stop() {
		t.Reset(w.debounce())
		return
	}

	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.debounce(), func() {
		defer w.wg.Done()

		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		if ctx.Err() == nil {
			w.onChange(ctx, path)
		}
	})
	w.pending[path] = t
}

// stop cancels pending timers and waits for running callbacks.
func (w *Watcher) stop() {
	w.mu.Lock()
	for path, t := range w.pending {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
}
