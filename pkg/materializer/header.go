//go:build go1.23

package materializer

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/flier/arenac/pkg/zc"
)

// magic identifies an arenac snapshot blob: the ASCII bytes "PLAN".
var magic = [4]byte{'P', 'L', 'A', 'N'}

// version is a single u16 format version, not a split major/minor pair -
// it serializes little-endian as the two bytes 0x00, 0x01.
const version uint16 = 0x0100

// sectionAlign is the byte boundary every section start is padded to.
const sectionAlign = 64

// alignUp rounds n up to the next sectionAlign boundary.
func alignUp(n int) int {
	if rem := n % sectionAlign; rem != 0 {
		return n + (sectionAlign - rem)
	}
	return n
}

// Fixed record sizes. Every record is encoded field-by-field with
// explicit padding rather than derived from a Go struct's in-memory
// layout, so the wire format never shifts under a compiler or arch
// change.
const (
	headerSize = 64

	// nodeRecordSize is Term (a 12-byte Ref) + Kind (1 byte, padded to
	// 4) + OutDegree + InDegree + FirstOutEdge + FirstInEdge (4 u32s).
	nodeRecordSize = 32

	// tripleRecordSize is Subject/Predicate/Object/Datatype/Lang (five
	// 12-byte Refs) + ObjectKind + GraphID + Flags + ID + HasDatatype +
	// HasLang, each padded out to keep every field's own offset a
	// multiple of 4.
	tripleRecordSize = 88

	// indexRecordSize is one (node_key uint64, node_idx uint32) pair of
	// the sparse id->index map, node_key being graph.nodeKey(term, kind)
	// - a term hash packed with its NodeKind, the same key graph.Graph's
	// own in-memory node index hashes on.
	indexRecordSize = 12
)

// header is the 64-byte fixed prefix of a snapshot blob, laid out
// exactly as specified: magic, version, flags, triple_count, node_count,
// triples_offset, nodes_offset, strings_offset, index_offset, crc32, and
// 12 reserved bytes. Every offset is absolute from byte 0 of the blob.
type header struct {
	flags uint16

	tripleCount uint32
	nodeCount   uint32

	triplesOffset uint64
	nodesOffset   uint64
	stringsOffset uint64
	indexOffset   uint64

	// strings is not itself on the wire - the format only records where
	// the string pool starts, since it is always the blob's final
	// section - but every in-memory consumer wants an (offset, length)
	// pair, so View recomputes it once from the blob's length and keeps
	// it packed the same way zc.View packs any other byte range.
	strings zc.View

	crc32 uint32
}

func (h header) encode(buf []byte) {
	copy(buf[0:4], magic[:])

	le := binary.LittleEndian
	le.PutUint16(buf[4:], version)
	le.PutUint16(buf[6:], h.flags)
	le.PutUint32(buf[8:], h.tripleCount)
	le.PutUint32(buf[12:], h.nodeCount)
	le.PutUint64(buf[16:], h.triplesOffset)
	le.PutUint64(buf[24:], h.nodesOffset)
	le.PutUint64(buf[32:], h.stringsOffset)
	le.PutUint64(buf[40:], h.indexOffset)
	le.PutUint32(buf[48:], h.crc32)
	// buf[52:64] are the 12 reserved bytes, left zero
}

func decodeHeader(buf []byte) (h header, ok bool) {
	if len(buf) < headerSize {
		return header{}, false
	}
	if [4]byte(buf[0:4]) != magic {
		return header{}, false
	}

	le := binary.LittleEndian
	if le.Uint16(buf[4:]) != version {
		return header{}, false
	}

	h.flags = le.Uint16(buf[6:])
	h.tripleCount = le.Uint32(buf[8:])
	h.nodeCount = le.Uint32(buf[12:])
	h.triplesOffset = le.Uint64(buf[16:])
	h.nodesOffset = le.Uint64(buf[24:])
	h.stringsOffset = le.Uint64(buf[32:])
	h.indexOffset = le.Uint64(buf[40:])
	h.crc32 = le.Uint32(buf[48:])

	return h, true
}

func checksumOf(payload []byte) uint32 {
	return crc32.ChecksumIEEE(payload)
}
