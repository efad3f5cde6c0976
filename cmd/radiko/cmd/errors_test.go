package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/radiko/internal/adapters/bbolt"
)

func TestIsDBLockError(t *testing.T) {
	assert.False(t, isDBLockError(nil))
	assert.False(t, isDBLockError(os.ErrNotExist))

	path := filepath.Join(t.TempDir(), "radiko.db")
	first, err := bbolt.NewStore(path)
	require.NoError(t, err)
	defer first.Close()

	_, err = bbolt.NewStore(path)
	require.Error(t, err)
	assert.True(t, isDBLockError(err))
}

func TestDiagnoseDBLock_NoDaemon(t *testing.T) {
	msg := diagnoseDBLock(t.TempDir())
	assert.Contains(t, msg, "locked by another process")
}
