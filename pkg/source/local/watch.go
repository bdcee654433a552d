package local

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Change reports that a dataset file was written, created or removed.
type Change struct {
	Path    string
	Removed bool
}

// Watcher watches the directories under a set of patterns and reports
// changes to files matching them. Bursts of events for one file within
// 100ms collapse into one Change.
type Watcher struct {
	Changes <-chan Change

	patterns []string
	changes  chan Change
	done     chan struct{}
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching the base directories of patterns.
func NewWatcher(patterns ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, p := range patterns {
		for _, dir := range watchDirs(p) {
			if seen[dir] {
				continue
			}
			seen[dir] = true
			if err := fw.Add(dir); err != nil {
				fw.Close()
				return nil, err
			}
		}
	}

	ch := make(chan Change, 16)
	w := &Watcher{
		Changes:  ch,
		patterns: patterns,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and closes Changes.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	close(w.changes)
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]fsnotify.Op)
	last := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	flush := func(force bool) {
		now := time.Now()
		for file, t := range last {
			if force || now.Sub(t) >= debounce {
				w.emit(Change{Path: file, Removed: pending[file].Has(fsnotify.Remove) || pending[file].Has(fsnotify.Rename)})
				delete(pending, file)
				delete(last, file)
			}
		}
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				flush(true)
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = event.Op
				last[event.Name] = time.Now()
			}

		case <-ticker.C:
			flush(false)

		case _, ok := <-w.watcher.Errors:
			if !ok {
				flush(true)
				return
			}
		}
	}
}

// emit drops the change if nobody is reading; the next write will
// trigger another.
func (w *Watcher) emit(c Change) {
	select {
	case w.changes <- c:
	default:
	}
}

func (w *Watcher) matches(name string) bool {
	name = filepath.Clean(name)
	for _, p := range w.patterns {
		if !hasMeta(p) {
			if filepath.Clean(p) == name {
				return true
			}
			continue
		}
		if ok, _ := doublestar.PathMatch(filepath.Clean(p), name); ok {
			return true
		}
	}
	return false
}

// watchDirs returns the directories to watch for a pattern: the parent of
// a plain path, or the static prefix of a glob plus every directory the
// glob's directory part matches.
func watchDirs(pattern string) []string {
	dirPattern := filepath.Dir(pattern)
	if !hasMeta(dirPattern) {
		return []string{dirPattern}
	}
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	base = filepath.FromSlash(base)
	dirs := []string{base}
	matches, _ := doublestar.FilepathGlob(dirPattern)
	for _, d := range matches {
		if d != base && isDir(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
