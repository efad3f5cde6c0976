package morph

import (
	"strings"

	"github.com/corey/radiko/internal/ports"
)

func prefix(id, text string) Morpheme { return Morpheme{ID: id, Text: text, Kind: KindPrefix} }
func root(id, text string) Morpheme   { return Morpheme{ID: id, Text: text, Kind: KindRoot} }
func suffix(id, text string) Morpheme { return Morpheme{ID: id, Text: text, Kind: KindSuffix} }

// naiveMatcher is a brute-force ports.PatternMatcher for comparing against
// plain prefix checks.
type naiveMatcher struct {
	patterns []string
}

func buildNaive(patterns []string) ports.PatternMatcher {
	return &naiveMatcher{patterns: patterns}
}

func (m *naiveMatcher) Scan(text string) []ports.PatternMatch {
	var out []ports.PatternMatch
	for start := 0; start < len(text); start++ {
		for i, p := range m.patterns {
			if strings.HasPrefix(text[start:], p) {
				out = append(out, ports.PatternMatch{Pattern: i, Start: start, End: start + len(p)})
			}
		}
	}
	return out
}
