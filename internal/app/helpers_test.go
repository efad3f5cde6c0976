package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corey/radiko/internal/adapters/bbolt"
	"github.com/corey/radiko/internal/adapters/lexicon"
)

const esperantoYAML = `
name: eo
morphemes:
  - {id: ne, text: ne, kind: prefix, gloss: not}
  - {id: niu, text: niu, kind: root}
  - {id: nen, text: nen, kind: root}
  - {id: iu, text: iu, kind: root, gloss: someone}
  - {id: mal, text: mal, kind: prefix, gloss: opposite}
  - {id: bon, text: bon, kind: root, gloss: good}
  - {id: a, text: a, kind: suffix, gloss: adjective}
`

// writeLexicon writes content to dir/name and returns the path.
func writeLexicon(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// newTestService returns a service over a fresh store in a temp workspace.
func newTestService(t *testing.T) (*Service, *bbolt.Store, Config) {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.DBPath), 0755))
	store, err := bbolt.NewStore(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(store, lexicon.NewLoader(), cfg, nil), store, cfg
}
