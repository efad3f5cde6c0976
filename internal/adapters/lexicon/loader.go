// Package lexicon implements ports.LexiconLoader for YAML, JSON and TSV
// inventory files. Files are memory-mapped read-only for decoding and
// unmapped before Load returns.
package lexicon

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
	"gopkg.in/yaml.v3"

	"github.com/corey/radiko/internal/ports"
)

// Loader implements ports.LexiconLoader.
type Loader struct{}

// NewLoader returns a loader for .yaml, .yml, .json and .tsv files.
func NewLoader() *Loader {
	return &Loader{}
}

// Supports returns true for the extensions Load understands.
func (l *Loader) Supports(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml", ".json", ".tsv":
		return true
	}
	return false
}

// document is the mapping form of a YAML or JSON lexicon. A bare list of
// morphemes is accepted too.
type document struct {
	Name      string                `json:"name" yaml:"name"`
	Morphemes []ports.MorphemeEntry `json:"morphemes" yaml:"morphemes"`
}

// Load parses the lexicon file at path.
func (l *Loader) Load(path string) (*ports.Lexicon, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !l.Supports(ext) {
		return nil, fmt.Errorf("unsupported lexicon extension %q", ext)
	}

	data, unmap, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	defer unmap()

	var doc document
	switch ext {
	case ".yaml", ".yml":
		doc, err = decodeYAML(data)
	case ".json":
		doc, err = decodeJSON(data)
	case ".tsv":
		doc.Morphemes, err = decodeTSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	name := doc.Name
	if name == "" {
		name = NameFromPath(path)
	}
	return &ports.Lexicon{
		Meta: ports.LexiconMeta{
			Name:   name,
			Source: path,
			Count:  len(doc.Morphemes),
		},
		Morphemes: doc.Morphemes,
	}, nil
}

// NameFromPath returns the lexicon name a file would be imported under when
// it does not name itself: its base name without extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// mapFile maps path read-only. The returned slice is only valid until unmap
// is called; decoders copy what they keep.
func mapFile(path string) ([]byte, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat lexicon: %w", err)
	}
	if info.Size() == 0 {
		return nil, nil, fmt.Errorf("lexicon file %s is empty", path)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap lexicon: %w", err)
	}
	return m, func() { _ = m.Unmap() }, nil
}

func decodeYAML(data []byte) (document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return document{}, err
	}
	var doc document
	if len(root.Content) == 0 {
		return doc, nil
	}
	node := root.Content[0]
	if node.Kind == yaml.SequenceNode {
		return doc, node.Decode(&doc.Morphemes)
	}
	return doc, node.Decode(&doc)
}

func decodeJSON(data []byte) (document, error) {
	var doc document
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return doc, json.Unmarshal(trimmed, &doc.Morphemes)
	}
	return doc, json.Unmarshal(trimmed, &doc)
}

// decodeTSV reads one morpheme per line:
//
//	id  text  kind  [predecessors]  [successors]  [gloss]
//
// Adjacency columns are "|"-separated. Blank lines and lines starting with
// "#" are skipped, as is a header line whose first column is "id".
func decodeTSV(data []byte) ([]ports.MorphemeEntry, error) {
	var out []ports.MorphemeEntry
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cols := strings.Split(text, "\t")
		if line == 1 && strings.EqualFold(strings.TrimSpace(cols[0]), "id") {
			continue
		}
		if len(cols) < 3 {
			return nil, fmt.Errorf("line %d: want at least 3 tab-separated columns, got %d", line, len(cols))
		}

		e := ports.MorphemeEntry{
			ID:   strings.TrimSpace(cols[0]),
			Text: strings.TrimSpace(cols[1]),
			Kind: strings.TrimSpace(cols[2]),
		}
		if len(cols) > 3 {
			e.AllowedPredecessors = splitNames(cols[3])
		}
		if len(cols) > 4 {
			e.AllowedSuccessors = splitNames(cols[4])
		}
		if len(cols) > 5 {
			e.Gloss = strings.TrimSpace(cols[5])
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func splitNames(col string) []string {
	var names []string
	for _, n := range strings.Split(col, "|") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
