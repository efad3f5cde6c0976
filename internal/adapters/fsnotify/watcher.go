// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches a lexicon directory, reports changes to lexicon files only
// (editor swap and backup files are ignored), and debounces rapid events since editors
// often trigger multiple writes per save.
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Directories to ignore below the watched root. The root itself is always
// watched, so the default .radiko/lexicons directory works.
var ignoreDirs = map[string]bool{
	".git":    true,
	".radiko": true,
	".idea":   true,
	".vscode": true,
}

// Extensions of files that hold lexicons.
var lexiconExts = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
	".tsv":  true,
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	log     *zap.Logger
	done    chan struct{}
	stopped bool
	pending map[string]*time.Timer // one debounce timer per path
	mu      sync.Mutex
}

// debounceInterval is how long a path must stay quiet before onChange fires.
const debounceInterval = 40 * time.Millisecond

// NewWatcher creates a new file system watcher. A nil logger discards
// watcher errors.
func NewWatcher(log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fw:      fw,
		log:     log,
		done:    make(chan struct{}),
		pending: make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring dir recursively.
// onChange is called with the absolute path of each changed lexicon file.
func (w *Watcher) Watch(dir string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	// Walk and add all directories
	err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if IsIgnoredDir(info.Name()) && path != absPath {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// For Create events, add new directories to the watch list
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if !IsIgnoredDir(info.Name()) {
							if err := w.fw.Add(path); err != nil {
								w.log.Warn("watch new directory", zap.String("path", path), zap.Error(err))
							}
						}
						continue
					}
				}

				if shouldIgnorePath(path) {
					continue
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.log.Debug("lexicon file event", zap.String("path", path), zap.Stringer("op", event.Op))
					w.schedule(path, onChange)
				}

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers on its own; the error is only reported.
				w.log.Warn("watcher error", zap.Error(err))

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	close(w.done)
	return w.fw.Close()
}

// schedule (re)starts the debounce timer for path. onChange runs once the
// path has been quiet for debounceInterval, so it sees the final content.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(debounceInterval)
		return
	}
	w.pending[path] = time.AfterFunc(debounceInterval, func() {
		w.mu.Lock()
		delete(w.pending, path)
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			onChange(path)
		}
	})
}

// IsLexiconFile reports whether path names a file the watcher would report.
func IsLexiconFile(path string) bool {
	return !shouldIgnorePath(path)
}

// IsIgnoredDir reports whether a directory with this name is skipped below
// the watched root.
func IsIgnoredDir(name string) bool {
	return ignoreDirs[name]
}

// shouldIgnorePath returns true if the file path should not trigger onChange.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)

	// Hidden files, editor swap files and backups (".x.yaml.swp", "x.yaml~", "#x.yaml#").
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "#") || strings.HasSuffix(base, "~") {
		return true
	}
	return !lexiconExts[strings.ToLower(filepath.Ext(base))]
}
