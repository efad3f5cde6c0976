// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// Storage persists lexicons (named morpheme inventories) and their usage
// counters. The backing store (bbolt) gives each lexicon its own namespace.
// Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveLexicon and RecordUsage must be transactional.
// A crash mid-write must not corrupt previously committed data.
type Storage interface {
	// SaveLexicon persists a lexicon under lex.Meta.Name.
	// Overwrites any prior lexicon with that name; usage counters survive.
	SaveLexicon(lex *Lexicon) error

	// LoadLexicon retrieves a lexicon by name.
	// Returns nil, nil if no such lexicon exists.
	LoadLexicon(name string) (*Lexicon, error)

	// ListLexicons returns the metadata of every stored lexicon, sorted by name.
	ListLexicons() ([]LexiconMeta, error)

	// DeleteLexicon removes a lexicon and its usage counters.
	// Idempotent: deleting a nonexistent lexicon is not an error.
	DeleteLexicon(name string) error

	// RecordUsage adds delta to the usage counters of a lexicon.
	RecordUsage(name string, delta Usage) error

	// LoadUsage returns the usage counters of a lexicon.
	// Returns a zero Usage if nothing was recorded yet.
	LoadUsage(name string) (Usage, error)
}

// LexiconLoader reads a lexicon from a file on disk.
type LexiconLoader interface {
	// Load parses the file at path. The lexicon name defaults to the file's
	// base name without extension.
	Load(path string) (*Lexicon, error)

	// Supports returns true if the loader understands files with this
	// extension (e.g., ".yaml"). Extension includes the leading dot.
	Supports(ext string) bool
}

// Lexicon is a named morpheme inventory.
type Lexicon struct {
	Meta      LexiconMeta
	Morphemes []MorphemeEntry
}

// LexiconMeta describes a stored lexicon.
type LexiconMeta struct {
	Name       string `json:"name"`
	Source     string `json:"source,omitempty"` // file the lexicon was imported from
	Count      int    `json:"count"`            // number of morphemes
	ImportedAt int64  `json:"imported_at"`      // unix seconds
}

// MorphemeEntry is the storage and wire form of one morpheme.
type MorphemeEntry struct {
	ID                  string   `json:"id" yaml:"id"`
	Text                string   `json:"text" yaml:"text"`
	Kind                string   `json:"kind" yaml:"kind"`
	AllowedPredecessors []string `json:"allowed_predecessors,omitempty" yaml:"allowed_predecessors,omitempty"`
	AllowedSuccessors   []string `json:"allowed_successors,omitempty" yaml:"allowed_successors,omitempty"`
	Gloss               string   `json:"gloss,omitempty" yaml:"gloss,omitempty"`
}

// Usage counts decompositions served against a lexicon.
type Usage struct {
	Decompositions uint64 `json:"decompositions"`
	Failures       uint64 `json:"failures"`    // whole-word failure results
	Corrections    uint64 `json:"corrections"` // results where the leading root was replaced
}

// Add returns the field-wise sum of u and d.
func (u Usage) Add(d Usage) Usage {
	return Usage{
		Decompositions: u.Decompositions + d.Decompositions,
		Failures:       u.Failures + d.Failures,
		Corrections:    u.Corrections + d.Corrections,
	}
}
