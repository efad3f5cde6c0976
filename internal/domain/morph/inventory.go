package morph

import (
	"sort"
	"unicode/utf8"
)

// nameSet holds folded kinds and literal texts from an allowed-neighbor list.
type nameSet map[string]struct{}

func newNameSet(f *folder, names []string) nameSet {
	if len(names) == 0 {
		return nil
	}
	set := make(nameSet, len(names))
	for _, n := range names {
		set[f.fold(n)] = struct{}{}
	}
	return set
}

// admits reports whether e's kind or literal text is listed.
func (s nameSet) admits(e *entry) bool {
	if _, ok := s[string(e.kind)]; ok {
		return true
	}
	_, ok := s[e.text]
	return ok
}

// entry is a morpheme prepared for matching.
type entry struct {
	m     Morpheme
	text  string // folded literal text
	kind  Kind   // folded kind
	runes int    // length of text in runes
	preds nameSet
	succs nameSet
}

func newEntry(f *folder, m Morpheme) entry {
	text := f.fold(m.Text)
	cp := m
	cp.AllowedPredecessors = append([]string(nil), m.AllowedPredecessors...)
	cp.AllowedSuccessors = append([]string(nil), m.AllowedSuccessors...)
	return entry{
		m:     cp,
		text:  text,
		kind:  Kind(f.fold(string(m.Kind))),
		runes: utf8.RuneCountInString(text),
		preds: newNameSet(f, m.AllowedPredecessors),
		succs: newNameSet(f, m.AllowedSuccessors),
	}
}

// inventory is a sorted, immutable copy of the caller's morphemes.
// Order: literal text length ascending, then alphabetical; ties keep the
// caller's order. Morphemes with empty text are dropped since they can
// never consume input.
type inventory struct {
	entries  []entry
	patterns []string // distinct folded texts, first-seen in inventory order
}

// newInventory copies ms and sorts the copy. ms itself is not modified.
func newInventory(ms []Morpheme) *inventory {
	f := newFolder()
	entries := make([]entry, 0, len(ms))
	for _, m := range ms {
		if e := newEntry(f, m); e.text != "" {
			entries = append(entries, e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].runes != entries[j].runes {
			return entries[i].runes < entries[j].runes
		}
		return entries[i].text < entries[j].text
	})

	seen := make(map[string]bool, len(entries))
	var patterns []string
	for _, e := range entries {
		if !seen[e.text] {
			seen[e.text] = true
			patterns = append(patterns, e.text)
		}
	}

	return &inventory{entries: entries, patterns: patterns}
}
