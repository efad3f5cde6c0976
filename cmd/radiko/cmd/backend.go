package cmd

import (
	"context"
	"fmt"

	"github.com/corey/radiko/internal/adapters/bbolt"
	"github.com/corey/radiko/internal/adapters/lexicon"
	"github.com/corey/radiko/internal/adapters/socket"
	"github.com/corey/radiko/internal/app"
)

// backend is what the data commands talk to: the daemon when it answers,
// otherwise a service over the workspace store opened in-process.
type backend interface {
	Decompose(params socket.DecomposeParams) (*socket.DecomposeResult, error)
	Lint(name string) (*socket.LintResult, error)
	Lexicons() (*socket.LexiconsResult, error)
	Import(params socket.ImportParams) (*socket.ImportResult, error)
	Remove(name string) error
	Stats() (*socket.StatsResult, error)
	Close() error
}

// openBackend prefers a running daemon. Without one it opens the store
// directly, which fails with guidance while another process holds the lock.
func openBackend() (backend, error) {
	root := workspaceRoot()
	client := socket.NewClient(socket.SocketPath(root))
	if client.Ping() {
		return daemonBackend{client}, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := app.NewPaths(root).EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create .radiko dirs: %w", err)
	}
	store, err := bbolt.NewStore(cfg.DBPath)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(root))
		}
		return nil, fmt.Errorf("open database: %w", err)
	}
	svc := app.NewService(store, lexicon.NewLoader(), cfg, cliLogger())
	return &localBackend{svc: svc, store: store}, nil
}

type daemonBackend struct {
	c *socket.Client
}

func (d daemonBackend) Decompose(p socket.DecomposeParams) (*socket.DecomposeResult, error) {
	if p.ByValue() {
		return d.c.DecomposeWith(p.Words, p.Morphemes)
	}
	return d.c.Decompose(p.Words, p.Lexicon)
}

func (d daemonBackend) Lint(name string) (*socket.LintResult, error) {
	return d.c.Lint(name)
}

func (d daemonBackend) Lexicons() (*socket.LexiconsResult, error) {
	return d.c.Lexicons()
}

func (d daemonBackend) Import(p socket.ImportParams) (*socket.ImportResult, error) {
	return d.c.Import(p.Path, p.Name)
}

func (d daemonBackend) Remove(name string) error {
	return d.c.Remove(name)
}

func (d daemonBackend) Stats() (*socket.StatsResult, error) {
	return d.c.Stats()
}

func (d daemonBackend) Close() error { return nil }

type localBackend struct {
	svc   *app.Service
	store *bbolt.Store
}

func (l *localBackend) Decompose(p socket.DecomposeParams) (*socket.DecomposeResult, error) {
	res, err := l.svc.Decompose(context.Background(), p)
	return &res, err
}

func (l *localBackend) Lint(name string) (*socket.LintResult, error) {
	res, err := l.svc.Lint(socket.LintParams{Lexicon: name})
	return &res, err
}

func (l *localBackend) Lexicons() (*socket.LexiconsResult, error) {
	res, err := l.svc.Lexicons()
	return &res, err
}

func (l *localBackend) Import(p socket.ImportParams) (*socket.ImportResult, error) {
	res, err := l.svc.Import(p)
	return &res, err
}

func (l *localBackend) Remove(name string) error { return l.svc.Remove(name) }

func (l *localBackend) Stats() (*socket.StatsResult, error) {
	res, err := l.svc.Stats()
	return &res, err
}

func (l *localBackend) Close() error { return l.store.Close() }
