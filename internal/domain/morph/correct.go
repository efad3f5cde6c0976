package morph

import "unicode/utf8"

// correct reconsiders the leading piece of the top-level result. When it is a
// prefix or root, the first root in inventory order that also matches at the
// start of the word, is strictly longer, and still leaves a parseable rest
// replaces it. Later pieces are taken from the search on that rest.
//
// Only the first segment of the whole word is reconsidered, never the first
// segment of a recursive branch.
func (c *call) correct(best outcome) outcome {
	if best.failed || len(best.segs) == 0 {
		return best
	}

	first := best.segs[0].Rendering
	if first.Kind != KindPrefix && first.Kind != KindRoot {
		return best
	}
	firstRunes := utf8.RuneCountInString(first.Text)

	for i := range c.inv.entries {
		e := &c.inv.entries[i]
		if e.kind != KindRoot || e.runes <= firstRunes {
			continue
		}
		if !c.matchesAt(0, e) {
			continue
		}

		tail := c.search(len(e.text), i, usedSet{i})
		if c.err != nil {
			return best
		}
		if tail.failed {
			continue
		}

		segs := make([]Segment, 0, len(tail.segs)+1)
		segs = append(segs, c.segment(i))
		segs = append(segs, tail.segs...)
		c.stats.Corrected = true
		return outcome{segs: segs}
	}
	return best
}
