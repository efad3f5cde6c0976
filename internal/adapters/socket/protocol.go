// Package socket implements a JSON-over-Unix-socket protocol for the radiko daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"

	"github.com/corey/radiko/internal/ports"
)

// SocketPath returns the Unix socket path for a given workspace root.
// Format: /tmp/radiko-{first12hex}.sock
func SocketPath(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/radiko-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodDecompose = "decompose"
	MethodLint      = "lint"
	MethodLexicons  = "lexicons"
	MethodImport    = "import"
	MethodRemove    = "remove"
	MethodStats     = "stats"
	MethodHealth    = "health"
	MethodShutdown  = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// DecomposeParams is the params for a decompose request. With Inline set,
// or Morphemes present on the wire, Morphemes is the inventory by value,
// even when empty. Otherwise the stored lexicon named by Lexicon is used
// (empty means the configured default).
type DecomposeParams struct {
	Words     []string              `json:"words"`
	Lexicon   string                `json:"lexicon,omitempty"`
	Inline    bool                  `json:"inline,omitempty"`
	Morphemes []ports.MorphemeEntry `json:"morphemes,omitempty"`
}

// ByValue reports whether the request carries its own inventory.
func (p DecomposeParams) ByValue() bool {
	return p.Inline || p.Morphemes != nil
}

// DecomposeResult is the result of a decompose request.
type DecomposeResult struct {
	Lexicon string       `json:"lexicon,omitempty"`
	Results []WordResult `json:"results"`
	Elapsed string       `json:"elapsed"`
}

// WordResult is the segmentation of one word (wire format).
type WordResult struct {
	Word      string        `json:"word"`
	Segments  []SegmentInfo `json:"segments"`
	Failed    bool          `json:"failed"`
	Score     int           `json:"score"`
	States    int           `json:"states"`
	MemoHits  int           `json:"memo_hits"`
	Corrected bool          `json:"corrected,omitempty"`
	Error     string        `json:"error,omitempty"` // search aborted, e.g. state limit
}

// SegmentInfo is one piece of a segmentation. MorphemeID is empty for the
// failure sentinel.
type SegmentInfo struct {
	Text       string `json:"text"`
	Kind       string `json:"kind"`
	Gloss      string `json:"gloss,omitempty"`
	MorphemeID string `json:"morpheme_id,omitempty"`
}

// LintParams selects the inventory to lint, the same way as DecomposeParams.
type LintParams struct {
	Lexicon   string                `json:"lexicon,omitempty"`
	Inline    bool                  `json:"inline,omitempty"`
	Morphemes []ports.MorphemeEntry `json:"morphemes,omitempty"`
}

// ByValue reports whether the request carries its own inventory.
func (p LintParams) ByValue() bool {
	return p.Inline || p.Morphemes != nil
}

// LintResult is the result of a lint request.
type LintResult struct {
	Lexicon string      `json:"lexicon,omitempty"`
	Issues  []LintIssue `json:"issues"`
	Count   int         `json:"count"`
}

// LintIssue describes one inventory problem.
type LintIssue struct {
	Index   int    `json:"index"`
	ID      string `json:"id"`
	Text    string `json:"text"`
	Problem string `json:"problem"`
}

// LexiconsResult is the result of a lexicons request.
type LexiconsResult struct {
	Lexicons []LexiconInfo `json:"lexicons"`
	Count    int           `json:"count"`
	Default  string        `json:"default,omitempty"`
}

// LexiconInfo describes one stored lexicon.
type LexiconInfo struct {
	ports.LexiconMeta
	Usage ports.Usage `json:"usage"`
}

// ImportParams is the params for an import request. Path is resolved by the
// daemon, so it should be absolute.
type ImportParams struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// ImportResult is the result of an import request.
type ImportResult struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Issues int    `json:"issues"` // lint issues found in the imported inventory
}

// RemoveParams is the params for a remove request.
type RemoveParams struct {
	Name string `json:"name"`
}

// StatsResult is the result of a stats request.
type StatsResult struct {
	LexiconCount   int    `json:"lexicon_count"`
	MorphemeCount  int    `json:"morpheme_count"`
	Decompositions uint64 `json:"decompositions"`
	Failures       uint64 `json:"failures"`
	Corrections    uint64 `json:"corrections"`
	DefaultLexicon string `json:"default_lexicon,omitempty"`
	StateLimit     int    `json:"state_limit"`

	// Since the serving process started; zero in-process.
	WordsPerMin  float64 `json:"words_per_min"`
	SessionWords int64   `json:"session_words"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status       string `json:"status"`
	LexiconCount int    `json:"lexicon_count"`
	Uptime       string `json:"uptime"`
}
