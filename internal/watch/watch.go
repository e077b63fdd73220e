// Package watch rebuilds the program catalog when schema files change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/ixdecode/internal/catalog"
	"github.com/specialistvlad/ixdecode/internal/ctxlog"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// RebuildFunc builds a fresh catalog from the watched paths.
type RebuildFunc func(ctx context.Context) (*catalog.Catalog, error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithNotify registers a callback run after every rebuild attempt.
func WithNotify(fn func(*catalog.Catalog, error)) Option {
	return func(w *Watcher) { w.notify = fn }
}

// Watcher swaps rebuilt catalogs into a Holder. A failed rebuild leaves the
// previous catalog in place.
type Watcher struct {
	fsw      *fsnotify.Watcher
	holder   *catalog.Holder
	rebuild  RebuildFunc
	debounce time.Duration
	notify   func(*catalog.Catalog, error)
	// files are explicitly named schema files; their parent directories are
	// watched so atomic renames by editors are seen.
	files map[string]struct{}
	dirs  map[string]struct{}
}

// New starts watching paths. Events are only processed once Run is called.
func New(holder *catalog.Holder, rebuild RebuildFunc, paths []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		holder:   holder,
		rebuild:  rebuild,
		debounce: DefaultDebounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}
	if !info.IsDir() {
		w.files[path] = struct{}{}
		return w.addDir(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			w.dirs[p] = struct{}{}
			return w.addDir(p)
		}
		return nil
	})
}

func (w *Watcher) addDir(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	return nil
}

// relevant reports whether an event touches a watched file or falls inside a
// watched directory tree.
func (w *Watcher) relevant(name string) bool {
	name = filepath.Clean(name)
	if _, ok := w.files[name]; ok {
		return true
	}
	_, ok := w.dirs[filepath.Dir(name)]
	return ok
}

// Run processes file events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	logger.Info("👀 Watching schema files for changes.", "files", len(w.files), "dirs", len(w.dirs))
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			logger.Debug("Schema change detected.", "path", ev.Name, "op", ev.Op.String())
			if ev.Op.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if _, watched := w.dirs[filepath.Dir(filepath.Clean(ev.Name))]; watched {
						if err := w.add(ev.Name); err != nil {
							logger.Warn("Failed to watch new directory.", "path", ev.Name, "error", err)
						}
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.Reload(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)
		}
	}
}

// Reload rebuilds the catalog and publishes it on success.
func (w *Watcher) Reload(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	c, err := w.rebuild(ctx)
	if err != nil {
		logger.Error("Schema reload failed, keeping the previous catalog.", "error", err)
	} else {
		w.holder.Store(c)
		logger.Info("Schemas reloaded.", "programs", c.Names())
	}
	if w.notify != nil {
		w.notify(c, err)
	}
	return err
}
