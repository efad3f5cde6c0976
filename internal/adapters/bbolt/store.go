// Package bbolt implements the ports.Storage interface using bbolt (embedded B+ tree).
// Each lexicon gets its own top-level bucket holding a JSON meta record, a gob-encoded
// morpheme blob and fixed-width usage counters. Writes are transactional; a crash
// mid-write cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/corey/radiko/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	keyMeta      = []byte("meta")
	keyMorphemes = []byte("morphemes")
	keyUsage     = []byte("usage")
)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveLexicon persists a lexicon, replacing its meta and morphemes.
// Usage counters recorded under the same name are kept.
func (s *Store) SaveLexicon(lex *ports.Lexicon) error {
	if lex == nil {
		return fmt.Errorf("nil lexicon")
	}
	if lex.Meta.Name == "" {
		return fmt.Errorf("lexicon has no name")
	}

	meta := lex.Meta
	meta.Count = len(lex.Morphemes)
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	var morphemes []byte
	if len(lex.Morphemes) > 0 {
		if morphemes, err = encodeGob(lex.Morphemes); err != nil {
			return fmt.Errorf("encode morphemes: %w", err)
		}
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(meta.Name))
		if err != nil {
			return err
		}
		if err := b.Put(keyMeta, metaJSON); err != nil {
			return err
		}
		if morphemes == nil {
			return b.Delete(keyMorphemes)
		}
		return b.Put(keyMorphemes, morphemes)
	})
}

// LoadLexicon retrieves a lexicon by name.
// Returns nil, nil if no lexicon exists under that name.
func (s *Store) LoadLexicon(name string) (*ports.Lexicon, error) {
	var metaJSON, morphemes []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		metaJSON = copyBytes(b.Get(keyMeta))
		morphemes = copyBytes(b.Get(keyMorphemes))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if metaJSON == nil {
		return nil, nil
	}

	lex := &ports.Lexicon{}
	if err := json.Unmarshal(metaJSON, &lex.Meta); err != nil {
		return nil, fmt.Errorf("unmarshal meta: %w", err)
	}
	if morphemes != nil {
		if err := decodeGob(morphemes, &lex.Morphemes); err != nil {
			return nil, fmt.Errorf("decode morphemes: %w", err)
		}
	}
	return lex, nil
}

// ListLexicons returns the meta record of every stored lexicon, sorted by name.
// Buckets without a meta record (usage recorded before any import) are skipped.
func (s *Store) ListLexicons() ([]ports.LexiconMeta, error) {
	var metas []ports.LexiconMeta

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			v := b.Get(keyMeta)
			if v == nil {
				return nil
			}
			var meta ports.LexiconMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return fmt.Errorf("unmarshal meta for %q: %w", name, err)
			}
			metas = append(metas, meta)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].Name < metas[j].Name })
	return metas, nil
}

// DeleteLexicon removes a lexicon and its usage counters.
// Idempotent: deleting a nonexistent lexicon is not an error.
func (s *Store) DeleteLexicon(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(name)); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// RecordUsage adds delta to the stored counters in a single transaction.
func (s *Store) RecordUsage(name string, delta ports.Usage) error {
	if name == "" {
		return fmt.Errorf("lexicon has no name")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		var cur ports.Usage
		if v := b.Get(keyUsage); v != nil {
			if cur, err = decodeUsage(v); err != nil {
				return err
			}
		}
		return b.Put(keyUsage, encodeUsage(cur.Add(delta)))
	})
}

// LoadUsage returns the usage counters of a lexicon, zero if none were recorded.
func (s *Store) LoadUsage(name string) (ports.Usage, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(name)); b != nil {
			data = copyBytes(b.Get(keyUsage))
		}
		return nil
	})
	if err != nil || data == nil {
		return ports.Usage{}, err
	}
	return decodeUsage(data)
}

func copyBytes(v []byte) []byte {
	if v == nil {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
