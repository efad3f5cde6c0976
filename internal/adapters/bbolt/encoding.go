// Binary encoding for lexicon blobs.
//
// Morphemes are gob-encoded. Usage counters use a fixed little-endian layout:
//
//	version:        uint8 (usageVersion)
//	decompositions: uint64
//	failures:       uint64
//	corrections:    uint64
package bbolt

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"

	"github.com/corey/radiko/internal/ports"
)

const (
	usageVersion = 1
	usageSize    = 1 + 3*8
)

// encodeUsage encodes usage counters into a single pre-sized buffer.
func encodeUsage(u ports.Usage) []byte {
	buf := make([]byte, usageSize)
	buf[0] = usageVersion
	offset := 1
	binary.LittleEndian.PutUint64(buf[offset:], u.Decompositions)
	offset += 8
	binary.LittleEndian.PutUint64(buf[offset:], u.Failures)
	offset += 8
	binary.LittleEndian.PutUint64(buf[offset:], u.Corrections)
	return buf
}

// decodeUsage is bounds-checked to avoid panics on corrupt data.
func decodeUsage(data []byte) (ports.Usage, error) {
	if len(data) < usageSize {
		return ports.Usage{}, fmt.Errorf("usage record too short: %d bytes", len(data))
	}
	if data[0] != usageVersion {
		return ports.Usage{}, fmt.Errorf("unknown usage record version %d", data[0])
	}
	offset := 1
	var u ports.Usage
	u.Decompositions = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	u.Failures = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	u.Corrections = binary.LittleEndian.Uint64(data[offset:])
	return u, nil
}

// encodeGob encodes a value using gob. Morpheme blobs are small and gob is
// more compact than JSON for repeated struct records.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob decodes gob-encoded data into target. Target must be a pointer.
func decodeGob(data []byte, target interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}
