// Package morph decomposes a single word into an ordered sequence of known
// morphemes (prefixes, roots, suffixes).
//
// The search is exhaustive over every segmentation allowed by the adjacency
// rules, memoized per search state, and picks the segmentation with the best
// heuristic score. A single correction pass afterwards may swap the leading
// piece for a longer root when that root still yields a full parse.
//
// Known limitations:
//
//   - Ordering rules are heuristic. A parse that scores best is not
//     necessarily linguistically correct.
//   - Only one best segmentation is returned per call.
//   - The correction pass only reconsiders the first segment of the word.
//
// The package performs no I/O. A Segmenter is safe for concurrent use as long
// as the PatternMatcher it was built with is.
package morph

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Kind is the morphological category of a morpheme.
type Kind string

const (
	KindPrefix  Kind = "prefix"
	KindRoot    Kind = "root"
	KindSuffix  Kind = "suffix"
	KindUnknown Kind = "unknown" // failure sentinel only
)

// FailureMarker prefixes the rendering text of a failure segment so it can
// never be mistaken for a real morpheme.
const FailureMarker = "*"

// FailureGloss is the gloss carried by a failure segment.
const FailureGloss = "not a valid sequence or component"

// Morpheme is one entry of the inventory supplied by the caller.
type Morpheme struct {
	ID                  string
	Text                string
	Kind                Kind
	AllowedPredecessors []string // kinds or literal texts; empty = unrestricted
	AllowedSuccessors   []string // kinds or literal texts; empty = unrestricted
	Gloss               string
}

// Rendering is the display record of a segment.
type Rendering struct {
	Text  string `json:"text"`
	Kind  Kind   `json:"kind"`
	Gloss string `json:"gloss"`
}

// Segment pairs a matched morpheme with its rendering. Morpheme is nil for
// the failure sentinel. It points into the segmenter's inventory and must
// not be modified.
type Segment struct {
	Morpheme  *Morpheme
	Rendering Rendering
}

// IsFailure reports whether s is the failure sentinel.
func (s Segment) IsFailure() bool {
	return s.Morpheme == nil
}

// Segmentation is the result of decomposing one word. When Failed is true,
// Segments holds exactly one failure segment spanning the whole word.
type Segmentation struct {
	Segments []Segment
	Failed   bool
}

// Surface concatenates the rendering texts of all segments.
// For a successful segmentation this equals the folded input word.
func (s Segmentation) Surface() string {
	var sb strings.Builder
	for _, seg := range s.Segments {
		sb.WriteString(seg.Rendering.Text)
	}
	return sb.String()
}

// Texts returns the rendering text of each segment in order.
func (s Segmentation) Texts() []string {
	out := make([]string, len(s.Segments))
	for i, seg := range s.Segments {
		out[i] = seg.Rendering.Text
	}
	return out
}

// folder wraps a cases.Caser, which is stateful and must not be shared
// between goroutines.
type folder struct {
	lower cases.Caser
}

func newFolder() *folder {
	return &folder{lower: cases.Lower(language.Und)}
}

func (f *folder) fold(s string) string {
	return f.lower.String(norm.NFC.String(s))
}

func failureSegment(rest string) Segment {
	return Segment{
		Rendering: Rendering{
			Text:  FailureMarker + rest,
			Kind:  KindUnknown,
			Gloss: FailureGloss,
		},
	}
}
