package morph

// allowed applies the adjacency rules for placing c directly after last.
// last is nil at the start of the word. Literal matching is checked
// separately by the caller.
func allowed(c, last *entry) bool {
	if last == nil {
		// A suffix cannot open a word.
		return c.kind != KindSuffix
	}

	// No doubled pieces.
	if c.text == last.text {
		return false
	}

	if last.kind == KindRoot && c.kind == KindPrefix {
		return false
	}
	// Once a suffix is placed, only suffixes follow. Checking the last piece
	// is enough since every piece after a suffix is itself a suffix.
	if last.kind == KindSuffix && c.kind != KindSuffix {
		return false
	}

	if len(last.succs) > 0 && !last.succs.admits(c) {
		return false
	}
	if len(c.preds) > 0 && !c.preds.admits(last) {
		return false
	}
	return true
}

// candidates returns the inventory indices that may be placed at byte offset
// pos of the word after the entry at index last (-1 at word start), in
// inventory order.
func (c *call) candidates(pos, last int) []int {
	var lastEntry *entry
	if last >= 0 {
		lastEntry = &c.inv.entries[last]
	}

	var out []int
	for i := range c.inv.entries {
		e := &c.inv.entries[i]
		if !c.matchesAt(pos, e) {
			continue
		}
		if !allowed(e, lastEntry) {
			continue
		}
		out = append(out, i)
	}
	return out
}
