// Package app wires together all adapters and domain logic.
// It provides lifecycle management for the radiko daemon: create, start, stop.
package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/corey/radiko/internal/adapters/bbolt"
	fsw "github.com/corey/radiko/internal/adapters/fsnotify"
	"github.com/corey/radiko/internal/adapters/lexicon"
	"github.com/corey/radiko/internal/adapters/socket"
	"github.com/corey/radiko/internal/ports"
)

// App is the top-level container wiring all components together.
type App struct {
	Config  Config
	Paths   *Paths
	Store   *bbolt.Store
	Service *Service
	Watcher ports.Watcher // nil when watching is disabled
	Server  *socket.Server
	Log     *zap.Logger

	started time.Time
}

// New creates an App with all dependencies wired. Does not start services.
func New(cfg Config, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	store, err := bbolt.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var watcher ports.Watcher
	if cfg.Watch && cfg.LexiconDir != "" {
		w, err := fsw.NewWatcher(log.Named("watcher"))
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		watcher = w
	}

	a := &App{
		Config:  cfg,
		Paths:   NewPaths(cfg.Workspace),
		Store:   store,
		Service: NewService(store, lexicon.NewLoader(), cfg, log),
		Watcher: watcher,
		Log:     log,
	}
	a.Server = socket.NewServer(a.Service, socket.SocketPath(cfg.Workspace), log.Named("socket"))
	return a, nil
}

// Start begins serving on the socket, imports the lexicon directory and
// starts watching it. Lexicon directory problems are logged, not fatal.
func (a *App) Start() error {
	a.started = time.Now()
	if err := a.Server.Start(); err != nil {
		a.release()
		return fmt.Errorf("start server: %w", err)
	}

	if a.Config.LexiconDir != "" {
		if n, err := a.ImportDir(a.Config.LexiconDir); err != nil {
			a.Log.Warn("import lexicon dir", zap.String("dir", a.Config.LexiconDir), zap.Error(err))
		} else {
			a.Log.Info("lexicon dir imported", zap.String("dir", a.Config.LexiconDir), zap.Int("files", n))
		}
	}

	if a.Watcher != nil {
		if err := a.Watcher.Watch(a.Config.LexiconDir, a.onLexiconChanged); err != nil {
			a.Log.Warn("lexicon watcher unavailable", zap.String("dir", a.Config.LexiconDir), zap.Error(err))
		}
	}

	a.Log.Info("daemon started",
		zap.String("socket", a.Server.Addr()),
		zap.String("db", a.Config.DBPath),
		zap.Int("state_limit", a.Config.StateLimit),
	)
	return nil
}

// Stop gracefully shuts down all services and closes the store.
func (a *App) Stop() error {
	a.Server.Stop()
	err := a.release()
	a.Log.Info("daemon stopped", zap.Duration("uptime", time.Since(a.started)))
	return err
}

// release stops the watcher and closes the store. Start calls it when the
// server cannot listen, so a failed start leaves nothing open.
func (a *App) release() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	return a.Store.Close()
}

// ImportDir imports every lexicon file under dir, walking subdirectories the
// same way the watcher does, and returns how many were imported. Files that
// fail to load are logged and skipped.
func (a *App) ImportDir(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			a.Log.Warn("read lexicon dir", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if path != dir && fsw.IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !fsw.IsLexiconFile(path) {
			return nil
		}
		if _, err := a.Service.Import(socket.ImportParams{Path: path}); err != nil {
			a.Log.Warn("import lexicon file", zap.String("path", path), zap.Error(err))
			return nil
		}
		n++
		return nil
	})
	return n, err
}
