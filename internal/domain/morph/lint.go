package morph

import (
	"fmt"
	"sort"
)

// Issue is one problem found in an inventory by Lint.
type Issue struct {
	Index   int    `json:"index"` // position in the slice passed to Lint
	ID      string `json:"id"`
	Text    string `json:"text"`
	Problem string `json:"problem"`
}

func (i Issue) String() string {
	return fmt.Sprintf("#%d %s %q: %s", i.Index, i.ID, i.Text, i.Problem)
}

var standardKinds = map[Kind]bool{
	KindPrefix: true,
	KindRoot:   true,
	KindSuffix: true,
}

// Lint reports inventory entries that cannot behave as the author probably
// intended. It does not change how the search treats them: malformed entries
// still only ever surface as failures.
func Lint(ms []Morpheme) []Issue {
	f := newFolder()

	texts := make(map[string]bool, len(ms))
	kinds := make(map[string]bool, len(standardKinds))
	for k := range standardKinds {
		kinds[string(k)] = true
	}
	for _, m := range ms {
		if t := f.fold(m.Text); t != "" {
			texts[t] = true
		}
		kinds[f.fold(string(m.Kind))] = true
	}

	var issues []Issue
	add := func(i int, m Morpheme, format string, args ...any) {
		issues = append(issues, Issue{Index: i, ID: m.ID, Text: m.Text, Problem: fmt.Sprintf(format, args...)})
	}

	seenID := make(map[string]int, len(ms))
	for i, m := range ms {
		text := f.fold(m.Text)
		kind := Kind(f.fold(string(m.Kind)))

		if text == "" {
			add(i, m, "empty text, entry is ignored")
		}
		if m.ID == "" {
			add(i, m, "missing id")
		} else if prev, dup := seenID[m.ID]; dup {
			add(i, m, "duplicate id, first used by entry #%d", prev)
		} else {
			seenID[m.ID] = i
		}
		if !standardKinds[kind] {
			add(i, m, "kind %q is not prefix, root or suffix", m.Kind)
		}

		for _, name := range m.AllowedPredecessors {
			n := f.fold(name)
			if !kinds[n] && !texts[n] {
				add(i, m, "allowed predecessor %q names no kind or text in the inventory", name)
			}
		}
		for _, name := range m.AllowedSuccessors {
			n := f.fold(name)
			if !kinds[n] && !texts[n] {
				add(i, m, "allowed successor %q names no kind or text in the inventory", name)
			}
		}
	}

	// A suffix cannot open a word, so it is dead unless some other entry
	// may directly precede it.
	entries := make([]entry, len(ms))
	for i, m := range ms {
		entries[i] = newEntry(f, m)
	}
	for i := range entries {
		s := &entries[i]
		if s.kind != KindSuffix || s.text == "" {
			continue
		}
		reachable := false
		for j := range entries {
			if j != i && entries[j].text != "" && allowed(s, &entries[j]) {
				reachable = true
				break
			}
		}
		if !reachable {
			add(i, ms[i], "suffix can never be used: no morpheme may precede it")
		}
	}

	sort.SliceStable(issues, func(a, b int) bool { return issues[a].Index < issues[b].Index })
	return issues
}
