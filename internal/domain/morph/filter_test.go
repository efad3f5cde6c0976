package morph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func texts(inv *inventory, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = inv.entries[j].text
	}
	return out
}

func newTestCall(ms []Morpheme, word string) *call {
	return New(ms).newCall(context.Background(), word, 0)
}

func TestInventory_SortOrder(t *testing.T) {
	ms := []Morpheme{root("1", "nen"), prefix("2", "ne"), root("3", "iu"), suffix("4", "o"), root("5", "A")}
	inv := newInventory(ms)

	var got []string
	for _, e := range inv.entries {
		got = append(got, e.m.Text)
	}
	assert.Equal(t, []string{"A", "o", "iu", "ne", "nen"}, got)

	// Caller's slice is untouched.
	assert.Equal(t, "nen", ms[0].Text)
	assert.Equal(t, "A", ms[4].Text)
}

func TestInventory_DropsEmptyText(t *testing.T) {
	inv := newInventory([]Morpheme{root("1", ""), root("2", "ka")})
	assert.Len(t, inv.entries, 1)
	assert.Equal(t, []string{"ka"}, inv.patterns)
}

func TestInventory_PatternsAreDistinct(t *testing.T) {
	inv := newInventory([]Morpheme{root("1", "ha"), suffix("2", "HA"), root("3", "o")})
	assert.Equal(t, []string{"o", "ha"}, inv.patterns)
}

func TestCandidates_SuffixCannotStart(t *testing.T) {
	c := newTestCall([]Morpheme{suffix("1", "o"), root("2", "ol")}, "ola")
	assert.Equal(t, []string{"ol"}, texts(c.inv, c.candidates(0, -1)))
}

func TestCandidates_NoImmediateRepeat(t *testing.T) {
	ms := []Morpheme{root("1", "ha"), suffix("2", "Ha"), suffix("3", "h")}
	c := newTestCall(ms, "haha")
	last := 1 // "ha" root, sorted after "h"
	assert.Equal(t, "ha", c.inv.entries[last].text)
	assert.Equal(t, KindRoot, c.inv.entries[last].kind)
	assert.Equal(t, []string{"h"}, texts(c.inv, c.candidates(2, last)))
}

func TestCandidates_LiteralPrefixOnly(t *testing.T) {
	c := newTestCall([]Morpheme{root("1", "ka"), root("2", "ak"), root("3", "kat")}, "KATO")
	assert.Equal(t, []string{"ka", "kat"}, texts(c.inv, c.candidates(0, -1)))
}

func TestAllowed_KindOrdering(t *testing.T) {
	inv := newInventory([]Morpheme{prefix("p", "re"), root("r", "ka"), suffix("s", "o"), Morpheme{ID: "x", Text: "xx", Kind: "ending"}})
	byText := map[string]*entry{}
	for i := range inv.entries {
		byText[inv.entries[i].text] = &inv.entries[i]
	}
	p, r, s, x := byText["re"], byText["ka"], byText["o"], byText["xx"]

	assert.True(t, allowed(p, nil))
	assert.True(t, allowed(r, nil))
	assert.False(t, allowed(s, nil))
	assert.True(t, allowed(x, nil))

	assert.True(t, allowed(r, p), "root after prefix")
	assert.False(t, allowed(p, r), "prefix after root")
	assert.True(t, allowed(s, r), "suffix after root")
	assert.False(t, allowed(r, s), "root after suffix")
	assert.False(t, allowed(p, s), "prefix after suffix")
	assert.False(t, allowed(x, s), "generic kind after suffix")
	assert.True(t, allowed(x, r), "generic kind after root")
}

func TestAllowed_AdjacencySets(t *testing.T) {
	inv := newInventory([]Morpheme{
		{ID: "1", Text: "ka", Kind: KindRoot, AllowedSuccessors: []string{"SUFFIX"}},
		{ID: "2", Text: "la", Kind: KindRoot},
		{ID: "3", Text: "o", Kind: KindSuffix, AllowedPredecessors: []string{"Ka"}},
		{ID: "4", Text: "ki", Kind: KindRoot},
	})
	byText := map[string]*entry{}
	for i := range inv.entries {
		byText[inv.entries[i].text] = &inv.entries[i]
	}

	assert.False(t, allowed(byText["la"], byText["ka"]), "ka only admits suffixes after it")
	assert.True(t, allowed(byText["o"], byText["ka"]), "kind listed in successors, text listed in predecessors")
	assert.False(t, allowed(byText["o"], byText["ki"]), "o only admits ka before it")
	assert.True(t, allowed(byText["la"], byText["ki"]), "no restrictions")
}
