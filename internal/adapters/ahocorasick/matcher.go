// Package ahocorasick provides multi-pattern string matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library so a segmenter can find every
// inventory text occurring in a word in one O(n + m + z) pass.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/radiko/internal/ports"
)

// Scanner reports every occurrence of every pattern, overlapping matches
// included, with byte offsets. It implements ports.PatternMatcher.
type Scanner struct {
	automaton aho.AhoCorasick
	active    bool // false when no pattern can match
}

// NewScanner compiles a scanner from the given patterns. Match indices refer
// to the caller's slice; empty patterns never match.
func NewScanner(patterns []string) *Scanner {
	s := &Scanner{active: hasNonEmpty(patterns)}
	if s.active {
		builder := aho.NewAhoCorasickBuilder(aho.Opts{
			DFA: true,
		})
		s.automaton = builder.Build(patterns)
	}
	return s
}

// Build is a ports.MatcherBuilder backed by NewScanner.
func Build(patterns []string) ports.PatternMatcher {
	return NewScanner(patterns)
}

// Scan finds all pattern matches in text.
func (s *Scanner) Scan(text string) []ports.PatternMatch {
	if !s.active || text == "" {
		return nil
	}
	iter := s.automaton.IterOverlappingByte([]byte(text))
	var matches []ports.PatternMatch
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		if m.End() == m.Start() {
			continue
		}
		matches = append(matches, ports.PatternMatch{
			Pattern: m.Pattern(),
			Start:   m.Start(),
			End:     m.End(),
		})
	}
	return matches
}

func hasNonEmpty(patterns []string) bool {
	for _, p := range patterns {
		if p != "" {
			return true
		}
	}
	return false
}
