// Package watcher keeps conversion history in step with directories on disk:
// new and modified files are rescanned after a quiet period, removed or
// renamed-away files have their records dropped.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Callbacks receive debounced file events. Either may be nil. They run on
// timer goroutines and must be safe for concurrent use.
type Callbacks struct {
	Changed func(ctx context.Context, path string)
	Removed func(ctx context.Context, path string)
}

// Watcher watches directory roots and reports file changes.
type Watcher struct {
	extensions []string
	recursive  bool
	cb         Callbacks
	debounce   time.Duration
	logger     *zap.Logger // optional; when set, logs debug events

	mu      sync.Mutex
	ctx     context.Context
	fsw     *fsnotify.Watcher
	roots   []string
	watched map[string][]string // root -> directories added to fsw for it
	pending map[string]*time.Timer
	done    chan struct{}
	stop    sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output (directory changes, file events, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets how long a file must stay quiet before Changed fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a watcher over roots. Only files whose extension is in
// extensions are reported (all files when empty). Hidden files and
// directories are ignored.
func New(roots, extensions []string, recursive bool, cb Callbacks, opts ...Option) *Watcher {
	w := &Watcher{
		extensions: extensions,
		recursive:  recursive,
		cb:         cb,
		debounce:   defaultDebounce,
		roots:      append([]string(nil), roots...),
		watched:    make(map[string][]string),
		pending:    make(map[string]*time.Timer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. It returns once every root is registered; events are
// handled in the background until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	w.fsw = fsw
	w.ctx = ctx
	if w.logger != nil {
		w.logger.Debug("watcher starting",
			zap.Strings("roots", w.roots),
			zap.Strings("extensions", w.extensions),
			zap.Bool("recursive", w.recursive))
	}
	for i, root := range w.roots {
		abs, err := w.watchRootLocked(root)
		if err != nil {
			_ = fsw.Close()
			w.fsw = nil
			return err
		}
		w.roots[i] = abs
	}
	go w.run(ctx, fsw)
	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if hidden(path) || !w.underRoot(path) {
		return
	}
	if w.logger != nil {
		w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))
	}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancel(path)
		if matchExtension(path, w.extensions) && w.cb.Removed != nil {
			w.cb.Removed(w.context(), path)
		}
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if ev.Has(fsnotify.Create) {
				w.handleNewDirectory(path)
			}
			return
		}
		if matchExtension(path, w.extensions) {
			w.schedule(path)
		}
	}
}

// handleNewDirectory starts watching a directory created (or moved) under a
// root and reports the files already inside it.
func (w *Watcher) handleNewDirectory(dir string) {
	w.mu.Lock()
	if w.fsw == nil {
		w.mu.Unlock()
		return
	}
	if w.recursive {
		added, err := w.addTree(dir)
		if err != nil && w.logger != nil {
			w.logger.Debug("watcher failed to add directory", zap.String("path", dir), zap.Error(err))
		}
		if root := w.rootOfLocked(dir); root != "" {
			w.watched[root] = append(w.watched[root], added...)
		}
	}
	w.mu.Unlock()

	// Only the root itself is watched in flat mode; subdirectory contents are out of scope.
	if w.recursive {
		w.syncDirectory(dir)
	}
}

func (w *Watcher) context() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return context.Background()
	}
	return w.ctx
}

func (w *Watcher) underRoot(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rootOfLocked(path) != ""
}

func (w *Watcher) rootOfLocked(path string) string {
	for _, root := range w.roots {
		if inDir(root, path) {
			return root
		}
	}
	return ""
}

func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// hidden reports whether the base name starts with a dot (editor swap files,
// .git and the like).
func hidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 1 && strings.HasPrefix(base, ".")
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

// schedule (re)arms the quiet-period timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		stopped := w.fsw == nil
		w.mu.Unlock()
		if stopped || w.cb.Changed == nil {
			return
		}
		if w.logger != nil {
			w.logger.Debug("watcher file changed (debounced)", zap.String("path", path))
		}
		w.cb.Changed(w.context(), path)
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

// watchRootLocked registers root (which must be an existing directory) and,
// when recursive, every non-hidden directory below it.
func (w *Watcher) watchRootLocked(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("watch %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("watch %s: not a directory", abs)
	}
	var added []string
	if w.recursive {
		added, err = w.addTree(abs)
	} else {
		err = w.fsw.Add(abs)
		added = []string{abs}
	}
	if err != nil {
		for _, p := range added {
			_ = w.fsw.Remove(p)
		}
		return "", fmt.Errorf("watch %s: %w", abs, err)
	}
	w.watched[abs] = added
	return abs, nil
}

// addTree adds dir and its non-hidden subdirectories to the fsnotify watcher.
func (w *Watcher) addTree(dir string) ([]string, error) {
	var added []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && hidden(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return err
		}
		added = append(added, path)
		return nil
	})
	return added, err
}

// syncDirectory reports every matching file under dir as changed, without debounce.
func (w *Watcher) syncDirectory(dir string) {
	if w.cb.Changed == nil {
		return
	}
	ctx := w.context()
	if w.logger != nil {
		w.logger.Debug("watcher syncing directory", zap.String("root", dir))
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != dir && (hidden(path) || !w.recursive) {
				return filepath.SkipDir
			}
			return nil
		}
		if !hidden(path) && d.Type().IsRegular() && matchExtension(path, w.extensions) {
			w.cb.Changed(ctx, path)
		}
		return nil
	})
}

// AddDirectory starts watching root. With syncExisting the files already in
// it are reported in the background. Adding a watched root is a no-op.
func (w *Watcher) AddDirectory(root string, syncExisting bool) error {
	w.mu.Lock()
	if w.fsw == nil {
		w.mu.Unlock()
		return fmt.Errorf("watcher not started")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	for _, r := range w.roots {
		if r == abs {
			w.mu.Unlock()
			return nil
		}
	}
	if _, err := w.watchRootLocked(abs); err != nil {
		w.mu.Unlock()
		return err
	}
	w.roots = append(w.roots, abs)
	w.mu.Unlock()

	if w.logger != nil {
		w.logger.Debug("watcher directory added", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	}
	if syncExisting {
		go w.syncDirectory(abs)
	}
	return nil
}

// RemoveDirectory stops watching root. Stored conversions are left alone.
func (w *Watcher) RemoveDirectory(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	idx := -1
	for i, r := range w.roots {
		if r == abs {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	if w.fsw != nil {
		for _, p := range w.watched[abs] {
			_ = w.fsw.Remove(p)
		}
	}
	delete(w.watched, abs)
	w.roots = append(w.roots[:idx], w.roots[idx+1:]...)
	if w.logger != nil {
		w.logger.Debug("watcher directory removed", zap.String("path", abs))
	}
	return nil
}

// Directories returns a copy of the current watched root directories.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.roots...)
}

// SyncExistingFiles reports every matching file in each root as changed.
// Call it after Start to catch files that predate the watch.
func (w *Watcher) SyncExistingFiles() {
	for _, root := range w.Directories() {
		w.syncDirectory(root)
	}
}

// Stop stops the watcher and releases resources. Pending debounced events are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	if w.fsw != nil {
		_ = w.fsw.Close()
		w.fsw = nil
	}
	w.mu.Unlock()
	w.stop.Do(func() { close(w.done) })
}
