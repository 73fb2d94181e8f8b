//go:build go1.23

package materializer

import (
	"sort"

	"github.com/flier/arenac/pkg/graph"
	"github.com/flier/arenac/pkg/interner"
	"github.com/flier/arenac/pkg/res"
	"github.com/flier/arenac/pkg/zc"
)

// Snapshot is a zero-copy view over a blob produced by Write: every
// accessor decodes directly out of the backing byte slice, with no
// intermediate per-record allocation.
type Snapshot struct {
	blob []byte
	hdr  header
}

func parseHeader(blob []byte) res.Result[header] {
	h, ok := decodeHeader(blob)
	if !ok {
		return res.Err[header](ErrCorruptSnapshot)
	}

	indexEnd := int(h.indexOffset) + int(h.nodeCount)*indexRecordSize
	if len(blob) < indexEnd || len(blob) < int(h.stringsOffset) {
		return res.Err[header](ErrCorruptSnapshot)
	}
	h.strings = zc.Raw(int(h.stringsOffset), len(blob)-int(h.stringsOffset))

	if got := checksumOf(blob[headerSize:]); got != h.crc32 {
		return res.Err[header](&ChecksumMismatchError{Want: h.crc32, Got: got})
	}

	return res.Ok(h)
}

// View validates blob's header and checksum and returns a Snapshot over
// it. The returned Snapshot aliases blob; mutating blob after View
// invalidates every accessor.
func View(blob []byte) (*Snapshot, error) {
	parsed := parseHeader(blob)
	if parsed.IsErr() {
		return nil, parsed.Err
	}
	return &Snapshot{blob: blob, hdr: parsed.Unwrap()}, nil
}

func (s *Snapshot) TripleCount() int { return int(s.hdr.tripleCount) }
func (s *Snapshot) NodeCount() int   { return int(s.hdr.nodeCount) }

func (s *Snapshot) Triple(idx uint32) graph.Triple {
	off := int(s.hdr.triplesOffset) + int(idx)*tripleRecordSize
	return decodeTriple(s.blob[off:])
}

func (s *Snapshot) Node(idx uint32) graph.Node {
	off := int(s.hdr.nodesOffset) + int(idx)*nodeRecordSize
	return decodeNode(s.blob[off:])
}

// LookupNode mirrors graph.Graph.LookupNode: a binary search over the
// blob's sparse id->index map section for (term, kind)'s node index.
func (s *Snapshot) LookupNode(term interner.Ref, kind graph.NodeKind) (uint32, bool) {
	want := nodeKey(term, kind)
	n := int(s.hdr.nodeCount)
	i := sort.Search(n, func(i int) bool {
		off := int(s.hdr.indexOffset) + i*indexRecordSize
		key, _ := decodeIndexEntry(s.blob[off:])
		return key >= want
	})
	if i >= n {
		return 0, false
	}
	off := int(s.hdr.indexOffset) + i*indexRecordSize
	key, idx := decodeIndexEntry(s.blob[off:])
	if key != want {
		return 0, false
	}
	return idx, true
}

// Triples decodes every triple record in the snapshot, short-circuiting
// on the first malformed record it hits (none, once View has already
// validated the checksum covering this exact section).
func (s *Snapshot) Triples() ([]graph.Triple, error) {
	return res.Collect(s.tripleSeq())
}

func (s *Snapshot) tripleSeq() func(yield func(res.Result[graph.Triple]) bool) {
	return func(yield func(res.Result[graph.Triple]) bool) {
		for i := 0; i < s.TripleCount(); i++ {
			if !yield(res.Ok(s.Triple(uint32(i)))) {
				return
			}
		}
	}
}

// Resolve returns the raw bytes an interner.Ref refers to, read directly
// out of the snapshot's string pool section rather than a live Interner.
// The ref's offset is relative to the pool, so it is rebased onto the
// whole-blob View zc.Bytes expects before slicing.
func (s *Snapshot) Resolve(ref interner.Ref) []byte {
	if int(ref.Offset)+int(ref.Length) > s.hdr.strings.Len() {
		return nil
	}
	v := zc.Raw(int(s.hdr.stringsOffset)+int(ref.Offset), int(ref.Length))
	return v.Bytes(&s.blob[0])
}

// ResolveString is Resolve, converted to a string.
func (s *Snapshot) ResolveString(ref interner.Ref) string {
	return string(s.Resolve(ref))
}
