package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/radiko/internal/adapters/socket"
	"github.com/corey/radiko/internal/domain/morph"
	"github.com/corey/radiko/internal/ports"
)

func texts(wr socket.WordResult) []string {
	out := make([]string, len(wr.Segments))
	for i, s := range wr.Segments {
		out[i] = s.Text
	}
	return out
}

func TestService_ImportAndDecompose(t *testing.T) {
	svc, store, cfg := newTestService(t)
	path := writeLexicon(t, cfg.Workspace, "esperanto.yaml", esperantoYAML)

	imported, err := svc.Import(socket.ImportParams{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "eo", imported.Name, "name from the document wins over the file name")
	assert.Equal(t, 7, imported.Count)
	assert.Equal(t, 0, imported.Issues)

	res, err := svc.Decompose(context.Background(), socket.DecomposeParams{Words: []string{"neniu", "Malbona", "xyz"}})
	require.NoError(t, err)
	assert.Equal(t, "eo", res.Lexicon, "the only stored lexicon is the default")
	require.Len(t, res.Results, 3)

	assert.Equal(t, []string{"nen", "iu"}, texts(res.Results[0]))
	assert.Equal(t, "nen", res.Results[0].Segments[0].MorphemeID)
	assert.Equal(t, "someone", res.Results[0].Segments[1].Gloss)

	assert.Equal(t, []string{"mal", "bon", "a"}, texts(res.Results[1]))

	assert.True(t, res.Results[2].Failed)
	assert.Equal(t, []string{"*xyz"}, texts(res.Results[2]))
	assert.Equal(t, string(morph.KindUnknown), res.Results[2].Segments[0].Kind)
	assert.Empty(t, res.Results[2].Segments[0].MorphemeID)

	u, err := store.LoadUsage("eo")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), u.Decompositions)
	assert.Equal(t, uint64(1), u.Failures)
}

func TestService_DecomposeInline(t *testing.T) {
	svc, store, _ := newTestService(t)

	res, err := svc.Decompose(context.Background(), socket.DecomposeParams{
		Words: []string{"oo"},
		Morphemes: []ports.MorphemeEntry{
			{ID: "o", Text: "o", Kind: "suffix"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Lexicon)
	require.Len(t, res.Results, 1)
	assert.True(t, res.Results[0].Failed)

	metas, err := store.ListLexicons()
	require.NoError(t, err)
	assert.Empty(t, metas, "inline inventories are not stored")
}

func TestService_DecomposeEmptyInline(t *testing.T) {
	svc, _, cfg := newTestService(t)
	_, err := svc.Import(socket.ImportParams{Path: writeLexicon(t, cfg.Workspace, "eo.yaml", esperantoYAML)})
	require.NoError(t, err)

	res, err := svc.Decompose(context.Background(), socket.DecomposeParams{Words: []string{"neniu"}, Inline: true})
	require.NoError(t, err)
	assert.Empty(t, res.Lexicon)
	require.Len(t, res.Results, 1)
	assert.True(t, res.Results[0].Failed)

	lint, err := svc.Lint(socket.LintParams{Inline: true})
	require.NoError(t, err)
	assert.Empty(t, lint.Lexicon)
	assert.Zero(t, lint.Count)
}

func TestService_DecomposeStateLimit(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.cfg.StateLimit = 1

	res, err := svc.Decompose(context.Background(), socket.DecomposeParams{
		Words: []string{"neniu"},
		Morphemes: []ports.MorphemeEntry{
			{ID: "1", Text: "ne", Kind: "prefix"},
			{ID: "2", Text: "niu", Kind: "root"},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Contains(t, res.Results[0].Error, "state limit")
	assert.Empty(t, res.Results[0].Segments)
}

func TestService_DecomposeCanceled(t *testing.T) {
	svc, _, _ := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Decompose(ctx, socket.DecomposeParams{
		Words:     []string{"a"},
		Morphemes: []ports.MorphemeEntry{{ID: "1", Text: "a", Kind: "root"}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_LexiconSelection(t *testing.T) {
	svc, _, cfg := newTestService(t)

	_, err := svc.Decompose(context.Background(), socket.DecomposeParams{Words: []string{"a"}})
	assert.ErrorIs(t, err, ErrNoLexicon)

	_, err = svc.Decompose(context.Background(), socket.DecomposeParams{Words: []string{"a"}, Lexicon: "nope"})
	assert.ErrorIs(t, err, ErrLexiconNotFound)

	_, err = svc.Import(socket.ImportParams{Path: writeLexicon(t, cfg.Workspace, "one.yaml", esperantoYAML), Name: "one"})
	require.NoError(t, err)
	_, err = svc.Import(socket.ImportParams{Path: writeLexicon(t, cfg.Workspace, "two.yaml", esperantoYAML), Name: "two"})
	require.NoError(t, err)

	_, err = svc.ResolveLexicon("")
	assert.True(t, errors.Is(err, ErrNoLexicon), "two lexicons and no default")

	svc.cfg.DefaultLexicon = "two"
	name, err := svc.ResolveLexicon("")
	require.NoError(t, err)
	assert.Equal(t, "two", name)

	name, err = svc.ResolveLexicon("one")
	require.NoError(t, err)
	assert.Equal(t, "one", name)
}

func TestService_ImportRejects(t *testing.T) {
	svc, _, cfg := newTestService(t)

	_, err := svc.Import(socket.ImportParams{Path: writeLexicon(t, cfg.Workspace, "eo.txt", "x")})
	assert.ErrorContains(t, err, "unsupported")

	_, err = svc.Import(socket.ImportParams{Path: writeLexicon(t, cfg.Workspace, "bad.yaml", "{")})
	assert.ErrorContains(t, err, "load lexicon")
}

func TestService_ImportCountsLintIssues(t *testing.T) {
	svc, _, cfg := newTestService(t)
	path := writeLexicon(t, cfg.Workspace, "dup.tsv", "1\tmal\tprefix\n1\tbon\troot\n")

	res, err := svc.Import(socket.ImportParams{Path: path, Name: "dup"})
	require.NoError(t, err)
	assert.Equal(t, "dup", res.Name)
	assert.Equal(t, 1, res.Issues)

	lint, err := svc.Lint(socket.LintParams{Lexicon: "dup"})
	require.NoError(t, err)
	require.Equal(t, 1, lint.Count)
	assert.Contains(t, lint.Issues[0].Problem, "duplicate id")
}

func TestService_LexiconsRemoveStats(t *testing.T) {
	svc, _, cfg := newTestService(t)
	_, err := svc.Import(socket.ImportParams{Path: writeLexicon(t, cfg.Workspace, "eo.yaml", esperantoYAML)})
	require.NoError(t, err)
	_, err = svc.Decompose(context.Background(), socket.DecomposeParams{Words: []string{"neniu", "zzz"}})
	require.NoError(t, err)

	list, err := svc.Lexicons()
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "eo", list.Lexicons[0].Name)
	assert.Equal(t, 7, list.Lexicons[0].Count)
	assert.Equal(t, uint64(2), list.Lexicons[0].Usage.Decompositions)
	assert.NotZero(t, list.Lexicons[0].ImportedAt)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LexiconCount)
	assert.Equal(t, 7, stats.MorphemeCount)
	assert.Equal(t, uint64(2), stats.Decompositions)
	assert.Equal(t, uint64(1), stats.Failures)
	assert.Equal(t, uint64(1), stats.Corrections, "neniu is corrected to nen+iu")
	assert.Equal(t, DefaultStateLimit, stats.StateLimit)
	assert.Equal(t, int64(2), stats.SessionWords)

	require.NoError(t, svc.Remove("eo"))
	assert.ErrorIs(t, svc.Remove("eo"), ErrLexiconNotFound)
}

func TestToWordResult_Score(t *testing.T) {
	ms := []morph.Morpheme{
		{ID: "1", Text: "mal", Kind: morph.KindPrefix},
		{ID: "2", Text: "bon", Kind: morph.KindRoot},
		{ID: "3", Text: "a", Kind: morph.KindSuffix},
	}
	seg := morph.Decompose("malbona", ms)
	wr := ToWordResult("malbona", seg, morph.Stats{States: 3}, nil)
	assert.Equal(t, 4, wr.Score)
	assert.Equal(t, 3, wr.States)
	assert.Empty(t, wr.Error)

	failed := ToWordResult("x", morph.Decompose("x", ms), morph.Stats{}, nil)
	assert.True(t, failed.Failed)
	assert.Equal(t, 0, failed.Score)
}
