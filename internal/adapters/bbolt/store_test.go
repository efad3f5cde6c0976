package bbolt

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/radiko/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// bbolt Storage Adapter: save/load lexicons, usage counters, lock timeouts
// Expectation: every lexicon lives in its own bucket and survives restarts.
// =============================================================================

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// makeTestLexicon creates a small Esperanto-flavoured lexicon.
func makeTestLexicon(name string) *ports.Lexicon {
	return &ports.Lexicon{
		Meta: ports.LexiconMeta{
			Name:       name,
			Source:     "lexicons/" + name + ".yaml",
			ImportedAt: 1700000000,
		},
		Morphemes: []ports.MorphemeEntry{
			{ID: "mal", Text: "mal", Kind: "prefix", Gloss: "opposite"},
			{ID: "bon", Text: "bon", Kind: "root", Gloss: "good", AllowedSuccessors: []string{"suffix"}},
			{ID: "a", Text: "a", Kind: "suffix", Gloss: "adjective", AllowedPredecessors: []string{"root"}},
		},
	}
}

func TestStore_SaveLoadLexicon_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)

	original := makeTestLexicon("eo")
	require.NoError(t, store.SaveLexicon(original))

	loaded, err := store.LoadLexicon("eo")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "eo", loaded.Meta.Name)
	assert.Equal(t, original.Meta.Source, loaded.Meta.Source)
	assert.Equal(t, 3, loaded.Meta.Count, "count is derived from the morphemes")
	assert.Equal(t, original.Morphemes, loaded.Morphemes)
}

func TestStore_LoadLexicon_Missing(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.LoadLexicon("nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_SaveLexicon_Rejects(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Error(t, store.SaveLexicon(nil))
	assert.Error(t, store.SaveLexicon(&ports.Lexicon{}))
}

func TestStore_SaveLexicon_Empty(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveLexicon(makeTestLexicon("eo")))
	require.NoError(t, store.SaveLexicon(&ports.Lexicon{Meta: ports.LexiconMeta{Name: "eo"}}))

	loaded, err := store.LoadLexicon("eo")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Empty(t, loaded.Morphemes, "replacing with an empty lexicon drops old morphemes")
	assert.Equal(t, 0, loaded.Meta.Count)
}

func TestStore_ListLexicons_Sorted(t *testing.T) {
	store, _ := newTestStore(t)

	for _, name := range []string{"zz", "eo", "io"} {
		require.NoError(t, store.SaveLexicon(makeTestLexicon(name)))
	}
	// Usage alone does not make a lexicon visible.
	require.NoError(t, store.RecordUsage("orphan", ports.Usage{Decompositions: 1}))

	metas, err := store.ListLexicons()
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, "eo", metas[0].Name)
	assert.Equal(t, "io", metas[1].Name)
	assert.Equal(t, "zz", metas[2].Name)
}

func TestStore_LexiconScoped(t *testing.T) {
	store, _ := newTestStore(t)

	a := makeTestLexicon("a")
	b := makeTestLexicon("b")
	b.Morphemes = b.Morphemes[:1]
	require.NoError(t, store.SaveLexicon(a))
	require.NoError(t, store.SaveLexicon(b))

	la, err := store.LoadLexicon("a")
	require.NoError(t, err)
	lb, err := store.LoadLexicon("b")
	require.NoError(t, err)
	assert.Len(t, la.Morphemes, 3)
	assert.Len(t, lb.Morphemes, 1)
}

func TestStore_Usage(t *testing.T) {
	store, _ := newTestStore(t)

	u, err := store.LoadUsage("eo")
	require.NoError(t, err)
	assert.Equal(t, ports.Usage{}, u)

	require.NoError(t, store.RecordUsage("eo", ports.Usage{Decompositions: 2, Failures: 1}))
	require.NoError(t, store.RecordUsage("eo", ports.Usage{Decompositions: 1, Corrections: 1}))

	u, err = store.LoadUsage("eo")
	require.NoError(t, err)
	assert.Equal(t, ports.Usage{Decompositions: 3, Failures: 1, Corrections: 1}, u)
}

func TestStore_UsageSurvivesReimport(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveLexicon(makeTestLexicon("eo")))
	require.NoError(t, store.RecordUsage("eo", ports.Usage{Decompositions: 5}))
	require.NoError(t, store.SaveLexicon(makeTestLexicon("eo")))

	u, err := store.LoadUsage("eo")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), u.Decompositions)
}

func TestStore_DeleteLexicon(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveLexicon(makeTestLexicon("eo")))
	require.NoError(t, store.RecordUsage("eo", ports.Usage{Decompositions: 5}))

	require.NoError(t, store.DeleteLexicon("eo"))

	loaded, err := store.LoadLexicon("eo")
	require.NoError(t, err)
	assert.Nil(t, loaded)
	u, err := store.LoadUsage("eo")
	require.NoError(t, err)
	assert.Equal(t, ports.Usage{}, u)

	// Idempotent.
	assert.NoError(t, store.DeleteLexicon("eo"))
}

func TestStore_ConcurrentReads(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveLexicon(makeTestLexicon("eo")))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lex, err := store.LoadLexicon("eo")
			if err == nil && (lex == nil || len(lex.Morphemes) != 3) {
				err = fmt.Errorf("unexpected lexicon %+v", lex)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestStore_ConcurrentUsage(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.RecordUsage("eo", ports.Usage{Decompositions: 1}))
		}()
	}
	wg.Wait()

	u, err := store.LoadUsage("eo")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), u.Decompositions)
}

func TestStore_LexiconSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restart.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.SaveLexicon(makeTestLexicon("eo")))
	require.NoError(t, store1.RecordUsage("eo", ports.Usage{Failures: 2}))
	require.NoError(t, store1.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	loaded, err := store2.LoadLexicon("eo")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, makeTestLexicon("eo").Morphemes, loaded.Morphemes)

	u, err := store2.LoadUsage("eo")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), u.Failures)
}

func TestStore_LargeLexicon_Performance(t *testing.T) {
	store, _ := newTestStore(t)

	lex := &ports.Lexicon{Meta: ports.LexiconMeta{Name: "big"}}
	for i := 0; i < 20000; i++ {
		lex.Morphemes = append(lex.Morphemes, ports.MorphemeEntry{
			ID:   fmt.Sprintf("m%d", i),
			Text: fmt.Sprintf("root%d", i),
			Kind: "root",
		})
	}

	start := time.Now()
	require.NoError(t, store.SaveLexicon(lex))
	saveTime := time.Since(start)

	start = time.Now()
	loaded, err := store.LoadLexicon("big")
	loadTime := time.Since(start)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Len(t, loaded.Morphemes, 20000)
	assert.Less(t, saveTime, 500*time.Millisecond, "save took %v", saveTime) // generous for CI
	assert.Less(t, loadTime, 500*time.Millisecond, "load took %v", loadTime)

	t.Logf("Performance: save=%v load=%v morphemes=%d", saveTime, loadTime, len(loaded.Morphemes))
}

func TestEncoding_Usage(t *testing.T) {
	u := ports.Usage{Decompositions: 1 << 40, Failures: 7, Corrections: 3}
	got, err := decodeUsage(encodeUsage(u))
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = decodeUsage([]byte{usageVersion, 1, 2})
	assert.Error(t, err)

	bad := encodeUsage(u)
	bad[0] = 9
	_, err = decodeUsage(bad)
	assert.Error(t, err)
}

// =============================================================================
// Lock contention tests: verify the 1s timeout prevents hangs
// =============================================================================

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	// When another process/goroutine holds the bbolt exclusive lock,
	// a second open should timeout in ~1 second, not hang forever.
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2, "store should be nil on timeout")
	assert.Contains(t, err.Error(), "timeout", "error should mention timeout")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
	assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond, "should wait ~1s for the configured timeout")
}

func TestStore_OpenTimeout_ErrorMessage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	_, err = NewStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Contains(t, err.Error(), "timeout")
}

func TestStore_OpenAfterClose_Succeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "released.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.SaveLexicon(makeTestLexicon("test")))
	store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.NoError(t, err, "open after close should succeed")
	require.NotNil(t, store2)
	assert.Less(t, elapsed, 500*time.Millisecond, "should open instantly after lock released")
	defer store2.Close()

	lex, err := store2.LoadLexicon("test")
	require.NoError(t, err)
	assert.Len(t, lex.Morphemes, 3)
}
