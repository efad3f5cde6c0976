package morph

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/corey/radiko/internal/ports"
)

// ErrStateLimit is returned by DecomposeContext when the search expands more
// states than the configured limit.
var ErrStateLimit = errors.New("morph: search state limit exceeded")

// Stats describes the work done by one decomposition.
type Stats struct {
	States     int  `json:"states"`     // distinct search states expanded
	MemoHits   int  `json:"memo_hits"`  // lookups answered from the memo
	Candidates int  `json:"candidates"` // legal candidates tried
	Pruned     int  `json:"pruned"`     // candidates whose continuation failed
	Corrected  bool `json:"corrected"`  // the leading piece was replaced by a longer root
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithMatcher answers literal-prefix checks from a single multi-pattern scan
// of the word instead of one comparison per candidate. Results are identical.
func WithMatcher(build ports.MatcherBuilder) Option {
	return func(s *Segmenter) {
		s.build = build
	}
}

// WithStateLimit bounds the number of states DecomposeContext may expand.
// Zero means unbounded.
func WithStateLimit(n int) Option {
	return func(s *Segmenter) {
		s.limit = n
	}
}

// Segmenter decomposes words against one inventory.
type Segmenter struct {
	inv     *inventory
	build   ports.MatcherBuilder
	matcher ports.PatternMatcher
	limit   int
}

// New sorts a private copy of ms and returns a Segmenter over it.
func New(ms []Morpheme, opts ...Option) *Segmenter {
	s := &Segmenter{inv: newInventory(ms)}
	for _, opt := range opts {
		opt(s)
	}
	if s.build != nil && len(s.inv.patterns) > 0 {
		s.matcher = s.build(append([]string(nil), s.inv.patterns...))
	}
	return s
}

// Decompose returns the best segmentation of word. It never fails: when no
// legal segmentation exists the result is a single failure segment spanning
// the whole (folded) word. The state limit does not apply.
func (s *Segmenter) Decompose(word string) Segmentation {
	c := s.newCall(context.Background(), word, 0)
	return c.run()
}

// DecomposeContext is Decompose bounded by ctx and the configured state limit.
func (s *Segmenter) DecomposeContext(ctx context.Context, word string) (Segmentation, Stats, error) {
	c := s.newCall(ctx, word, s.limit)
	seg := c.run()
	if c.err != nil {
		return Segmentation{}, c.stats, c.err
	}
	return seg, c.stats, nil
}

// Decompose is a one-shot convenience: build a Segmenter over ms and
// decompose word with it.
func Decompose(word string, ms []Morpheme) Segmentation {
	return New(ms).Decompose(word)
}

// call holds the state of one top-level decomposition. The memo lives and
// dies with it.
type call struct {
	ctx    context.Context
	inv    *inventory
	word   string
	starts []map[string]struct{} // folded texts starting at each byte offset; nil without a matcher
	memo   map[stateKey]outcome
	limit  int
	stats  Stats
	err    error
}

// stateKey identifies a search state. pos is the byte offset of the remaining
// suffix, last the inventory index of the previous piece (-1 at start), used
// the canonical encoding of the used set.
type stateKey struct {
	pos  int
	last int
	used string
}

// outcome is the search result for one state: either parsed segments or a
// failure covering the remainder.
type outcome struct {
	segs   []Segment
	failed bool
}

func (s *Segmenter) newCall(ctx context.Context, word string, limit int) *call {
	c := &call{
		ctx:   ctx,
		inv:   s.inv,
		word:  newFolder().fold(word),
		memo:  make(map[stateKey]outcome),
		limit: limit,
	}
	if s.matcher != nil && c.word != "" {
		c.starts = make([]map[string]struct{}, len(c.word))
		for _, m := range s.matcher.Scan(c.word) {
			if m.Pattern < 0 || m.Pattern >= len(s.inv.patterns) {
				continue
			}
			if c.starts[m.Start] == nil {
				c.starts[m.Start] = make(map[string]struct{})
			}
			c.starts[m.Start][s.inv.patterns[m.Pattern]] = struct{}{}
		}
	}
	return c
}

func (c *call) run() Segmentation {
	if c.word == "" {
		return Segmentation{}
	}
	best := c.search(0, -1, nil)
	if c.err != nil {
		return Segmentation{}
	}
	best = c.correct(best)
	if best.failed {
		return Segmentation{Segments: best.segs, Failed: true}
	}
	return Segmentation{Segments: best.segs}
}

func (c *call) matchesAt(pos int, e *entry) bool {
	if c.starts != nil {
		if pos >= len(c.starts) {
			return false
		}
		_, ok := c.starts[pos][e.text]
		return ok
	}
	return strings.HasPrefix(c.word[pos:], e.text)
}

func (c *call) fail(pos int) outcome {
	return outcome{segs: []Segment{failureSegment(c.word[pos:])}, failed: true}
}

// search returns the best segmentation of the word from byte offset pos,
// given the previous piece and the pieces used along this path.
func (c *call) search(pos, last int, used usedSet) outcome {
	if pos == len(c.word) {
		return outcome{}
	}
	if c.err != nil {
		return c.fail(pos)
	}

	key := stateKey{pos: pos, last: last, used: used.key()}
	if out, ok := c.memo[key]; ok {
		c.stats.MemoHits++
		return out
	}

	if err := c.ctx.Err(); err != nil {
		c.err = err
		return c.fail(pos)
	}
	if c.limit > 0 && c.stats.States >= c.limit {
		c.err = ErrStateLimit
		return c.fail(pos)
	}
	c.stats.States++

	var (
		best      outcome
		bestScore int
		bestRunes int
		found     bool
	)
	for _, i := range c.candidates(pos, last) {
		e := &c.inv.entries[i]
		c.stats.Candidates++

		tail := c.search(pos+len(e.text), i, used.with(i))
		if tail.failed {
			c.stats.Pruned++
			continue
		}

		segs := make([]Segment, 0, len(tail.segs)+1)
		segs = append(segs, c.segment(i))
		segs = append(segs, tail.segs...)
		score := Score(segs)

		if !found || score > bestScore || (score == bestScore && e.runes < bestRunes) {
			best = outcome{segs: segs}
			bestScore = score
			bestRunes = e.runes
			found = true
		}
	}

	if !found {
		best = c.fail(pos)
	}
	if c.err == nil {
		c.memo[key] = best
	}
	return best
}

func (c *call) segment(i int) Segment {
	e := &c.inv.entries[i]
	return Segment{
		Morpheme: &e.m,
		Rendering: Rendering{
			Text:  e.text,
			Kind:  e.kind,
			Gloss: e.m.Gloss,
		},
	}
}

// usedSet is a sorted set of inventory indices. It is never modified in
// place; with returns a copy so sibling branches cannot see each other.
type usedSet []int

func (u usedSet) with(i int) usedSet {
	at := sort.SearchInts(u, i)
	if at < len(u) && u[at] == i {
		return u
	}
	out := make(usedSet, 0, len(u)+1)
	out = append(out, u[:at]...)
	out = append(out, i)
	out = append(out, u[at:]...)
	return out
}

func (u usedSet) key() string {
	if len(u) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(u)*4)
	for i, v := range u {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	return string(buf)
}
