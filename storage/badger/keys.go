package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/coursegrid/core"
)

// Key prefixes for different data types
const (
	sectionRecordPrefix = "secrec"
	sectionOrderPrefix  = "secord"
	sectionOrderSeq     = "secseq"
	sectionGenSeq       = "secgenseq"
	sectionActiveKey    = "secgen:active"
	selectionKey        = "schedsel:current"
)

// Section keys carry a generation so a replacement catalog can be written
// beside the live one and switched in with a single key.

// makeSectionKey generates a key for a section from its catalog ID.
// Format: prefix:generation:idhash
func makeSectionKey(generation uint64, id string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%d", sectionRecordPrefix, generation, core.IDFromContent(id)))
}

// sectionRecordKeyPrefix matches every section record key of a generation.
func sectionRecordKeyPrefix(generation uint64) []byte {
	return []byte(fmt.Sprintf("%s:%d:", sectionRecordPrefix, generation))
}

// makeSectionOrderKey generates a key for the insertion-order index.
// Format: prefix:generation:position
func makeSectionOrderKey(generation, position uint64) []byte {
	buf := sectionOrderKeyPrefix(generation)
	// BigEndian so lexicographic key order is numeric order
	return binary.BigEndian.AppendUint64(buf, position)
}

// sectionOrderKeyPrefix matches every insertion-order key of a generation.
func sectionOrderKeyPrefix(generation uint64) []byte {
	buf := make([]byte, 0, len(sectionOrderPrefix)+1+8+8)
	buf = append(buf, sectionOrderPrefix+":"...)
	return binary.BigEndian.AppendUint64(buf, generation)
}

// sectionOrderGeneration extracts the generation from an order key.
func sectionOrderGeneration(key []byte) (uint64, bool) {
	offset := len(sectionOrderPrefix) + 1
	if len(key) < offset+8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[offset : offset+8]), true
}

// makeCheckpointKey generates a key for import checkpoints.
func makeCheckpointKey(source string) []byte {
	return []byte(fmt.Sprintf("%s:chkpt", source))
}
