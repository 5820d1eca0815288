package gitrepos

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Syncer rebuilds a location when its revision may have moved.
type Syncer interface {
	Sync(ctx context.Context, location string) (RepoState, error)
}

// Watcher triggers a debounced Sync when HEAD or a branch ref of a watched
// repository changes.
type Watcher struct {
	syncer   Syncer
	debounce time.Duration
	fsw      *fsnotify.Watcher

	mu     sync.Mutex
	dirs   map[string]string // watched directory -> location
	timers map[string]*time.Timer
	fire   chan string
}

// NewWatcher creates a watcher. Call Add for each location, then Run.
func NewWatcher(syncer Syncer, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		syncer:   syncer,
		debounce: debounce,
		fsw:      fsw,
		dirs:     make(map[string]string),
		timers:   make(map[string]*time.Timer),
		fire:     make(chan string, 16),
	}, nil
}

// Add watches the git directory of location and its branch ref directories.
func (w *Watcher) Add(location string) error {
	loc, err := ParseLocation(location)
	if err != nil {
		return err
	}
	gitDir := GitDir(loc)

	dirs := []string{gitDir}
	heads := filepath.Join(gitDir, "refs", "heads")
	_ = filepath.WalkDir(heads, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.dirs[dir] = loc
	}
	slog.Info("Watching repository", "location", loc, "git_dir", gitDir)
	return nil
}

// Run dispatches events until ctx is cancelled or the watcher is closed.
// Syncs run one at a time on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if loc, ok := w.locationOf(event); ok {
				w.schedule(loc)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", "error", err)
		case loc := <-w.fire:
			if _, err := w.syncer.Sync(ctx, loc); err != nil {
				slog.Error("Sync after revision change failed", "location", loc, "error", err)
			}
		}
	}
}

// locationOf returns the location an event belongs to when the event can
// move the indexed revision.
func (w *Watcher) locationOf(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return "", false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(event.Name)
	loc, ok := w.dirs[dir]
	if !ok {
		return "", false
	}
	if event.Has(fsnotify.Create) && isRefsDir(dir) {
		// New branch namespace directories, e.g. refs/heads/feature.
		if err := w.fsw.Add(event.Name); err == nil {
			w.dirs[event.Name] = loc
		}
	}
	if !isRevisionFile(dir, filepath.Base(event.Name)) {
		return "", false
	}
	return loc, true
}

// isRevisionFile reports whether name in dir holds a ref the revision can
// resolve through.
func isRevisionFile(dir, name string) bool {
	if strings.HasSuffix(name, ".lock") {
		return false
	}
	if isRefsDir(dir) {
		return true
	}
	return name == "HEAD" || name == "packed-refs"
}

func isRefsDir(dir string) bool {
	return strings.Contains(filepath.ToSlash(dir)+"/", "/refs/heads/")
}

// schedule (re)starts the debounce timer of a location.
func (w *Watcher) schedule(location string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[location]; ok {
		t.Stop()
	}
	w.timers[location] = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- location:
		default:
			slog.Debug("Dropping duplicate sync request", "location", location)
		}
	})
}

// Close stops watching and cancels pending syncs.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
