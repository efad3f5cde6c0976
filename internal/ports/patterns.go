package ports

// PatternMatcher finds every occurrence of a fixed pattern set in a text using
// multi-pattern matching (Aho-Corasick). A single pass over the text reports
// all matches, overlapping ones included, regardless of how many patterns
// there are.
//
// The pattern set is fixed at build time. Scan must be safe to call from
// multiple goroutines.
type PatternMatcher interface {
	// Scan returns every match in text. Offsets are byte offsets.
	// Returns nil if nothing matches.
	Scan(text string) []PatternMatch
}

// PatternMatch is one occurrence of a pattern.
type PatternMatch struct {
	Pattern int // index into the patterns the matcher was built from
	Start   int // byte offset start (inclusive)
	End     int // byte offset end (exclusive)
}

// MatcherBuilder compiles a PatternMatcher for the given patterns.
type MatcherBuilder func(patterns []string) PatternMatcher
