//go:build go1.23

package materializer

import (
	"encoding/binary"
	"sort"

	"github.com/flier/arenac/pkg/graph"
	"github.com/flier/arenac/pkg/interner"
)

// nodeKey mirrors graph.nodeKey: a term's hash packed with its NodeKind,
// the key graph.Graph's own in-memory node index hashes on.
func nodeKey(term interner.Ref, kind graph.NodeKind) uint64 {
	return uint64(term.Hash)<<8 | uint64(kind)
}

// Write serializes g and the interner backing its terms into a single
// self-contained blob: a 64-byte header followed by packed triple and
// node record sections, a sparse id->index map, and a raw string pool,
// every section start padded to a sectionAlign boundary. The write is a
// single buffered pass: the whole blob is sized up front and filled in
// one allocation, never grown. Edges are not stored - every Edge is
// reconstructible from a Triple (its Subject/Predicate/Object), so
// storing both would duplicate the same information twice on the wire.
func Write(g *graph.Graph, in *interner.Interner) ([]byte, error) {
	tripleCount := g.TripleCount()
	nodeCount := g.NodeCount()

	poolLen := 0
	for ref := range in.All() {
		if end := int(ref.Offset) + int(ref.Length); end > poolLen {
			poolLen = end
		}
	}

	triplesOffset := headerSize
	nodesOffset := alignUp(triplesOffset + tripleCount*tripleRecordSize)
	indexOffset := alignUp(nodesOffset + nodeCount*nodeRecordSize)
	stringsOffset := alignUp(indexOffset + nodeCount*indexRecordSize)
	total := stringsOffset + poolLen

	buf := make([]byte, total)

	for i := 0; i < tripleCount; i++ {
		encodeTriple(buf[triplesOffset+i*tripleRecordSize:], g.Triple(uint32(i)))
	}

	type keyedNode struct {
		key uint64
		idx uint32
	}
	keys := make([]keyedNode, nodeCount)
	for i := 0; i < nodeCount; i++ {
		n := g.Node(uint32(i))
		encodeNode(buf[nodesOffset+i*nodeRecordSize:], n)
		keys[i] = keyedNode{key: nodeKey(n.Term, n.Kind), idx: uint32(i)}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].key < keys[j].key })
	le := binary.LittleEndian
	for i, k := range keys {
		rec := buf[indexOffset+i*indexRecordSize:]
		le.PutUint64(rec[0:], k.key)
		le.PutUint32(rec[8:], k.idx)
	}

	for ref, b := range in.All() {
		copy(buf[stringsOffset+int(ref.Offset):], b)
	}

	h := header{
		tripleCount:   uint32(tripleCount),
		nodeCount:     uint32(nodeCount),
		triplesOffset: uint64(triplesOffset),
		nodesOffset:   uint64(nodesOffset),
		stringsOffset: uint64(stringsOffset),
		indexOffset:   uint64(indexOffset),
	}
	h.crc32 = checksumOf(buf[headerSize:])
	h.encode(buf[:headerSize])

	return buf, nil
}

func putRef(buf []byte, r interner.Ref) {
	le := binary.LittleEndian
	le.PutUint32(buf[0:], r.Hash)
	le.PutUint32(buf[4:], r.Offset)
	le.PutUint32(buf[8:], r.Length)
}

func getRef(buf []byte) interner.Ref {
	le := binary.LittleEndian
	return interner.Ref{
		Hash:   le.Uint32(buf[0:]),
		Offset: le.Uint32(buf[4:]),
		Length: le.Uint32(buf[8:]),
	}
}

func encodeNode(buf []byte, n graph.Node) {
	le := binary.LittleEndian
	putRef(buf[0:], n.Term)
	buf[12] = byte(n.Kind)
	le.PutUint32(buf[16:], n.OutDegree)
	le.PutUint32(buf[20:], n.InDegree)
	le.PutUint32(buf[24:], n.FirstOutEdge)
	le.PutUint32(buf[28:], n.FirstInEdge)
}

func decodeNode(buf []byte) graph.Node {
	le := binary.LittleEndian
	return graph.Node{
		Term:         getRef(buf[0:]),
		Kind:         graph.NodeKind(buf[12]),
		OutDegree:    le.Uint32(buf[16:]),
		InDegree:     le.Uint32(buf[20:]),
		FirstOutEdge: le.Uint32(buf[24:]),
		FirstInEdge:  le.Uint32(buf[28:]),
	}
}

func encodeTriple(buf []byte, t graph.Triple) {
	le := binary.LittleEndian
	putRef(buf[0:], t.Subject)
	putRef(buf[12:], t.Predicate)
	putRef(buf[24:], t.Object)
	buf[36] = byte(t.ObjectKind)
	le.PutUint32(buf[40:], t.GraphID)
	le.PutUint16(buf[44:], t.Flags)
	le.PutUint32(buf[48:], t.ID)
	putRef(buf[52:], t.Datatype)
	if t.HasDatatype {
		buf[64] = 1
	}
	putRef(buf[68:], t.Lang)
	if t.HasLang {
		buf[80] = 1
	}
}

func decodeTriple(buf []byte) graph.Triple {
	le := binary.LittleEndian
	return graph.Triple{
		Subject:     getRef(buf[0:]),
		Predicate:   getRef(buf[12:]),
		Object:      getRef(buf[24:]),
		ObjectKind:  graph.NodeKind(buf[36]),
		GraphID:     le.Uint32(buf[40:]),
		Flags:       le.Uint16(buf[44:]),
		ID:          le.Uint32(buf[48:]),
		Datatype:    getRef(buf[52:]),
		HasDatatype: buf[64] != 0,
		Lang:        getRef(buf[68:]),
		HasLang:     buf[80] != 0,
	}
}

func decodeIndexEntry(buf []byte) (key uint64, idx uint32) {
	le := binary.LittleEndian
	return le.Uint64(buf[0:]), le.Uint32(buf[8:])
}
