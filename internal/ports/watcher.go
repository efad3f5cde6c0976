package ports

// Watcher monitors the lexicon directory and reports changed lexicon files.
// The adapter (fsnotify) must filter out editor temp files and files with
// non-lexicon extensions before invoking onChange. Only one Watch call should
// be active at a time.
type Watcher interface {
	// Watch starts monitoring dir recursively. onChange is called with the
	// absolute path of each created, modified, removed or renamed file. The
	// callback may be invoked from any goroutine. Returns an error if the
	// directory doesn't exist or permissions are insufficient.
	Watch(dir string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
