//go:build go1.22

package graph

import "github.com/flier/arenac/pkg/interner"

// nodeKey mixes a term's Ref and its NodeKind into the 64-bit key used by
// the node-IRI index, so a blank node and a literal that happen to intern
// to the same bytes (impossible in practice, since interning is
// content-addressed per byte range, but not forbidden by the type system)
// never collide in the index.
func nodeKey(term interner.Ref, kind NodeKind) uint64 {
	return uint64(term.Hash)<<8 | uint64(kind)
}

// tripleKey mixes the three term hashes plus the owning graph's id, per
// the "triple hash mixes the three StringRef hashes plus graph_id" rule.
func tripleKey(s, p, o interner.Ref, graphID uint32) uint64 {
	h := uint64(s.Hash)
	h = h*1099511628211 ^ uint64(p.Hash)
	h = h*1099511628211 ^ uint64(o.Hash)
	h = h*1099511628211 ^ uint64(graphID)
	return h
}

// graphKey mixes a named graph's IRI hash for the graph-IRI index; graphs
// are few enough that collisions are resolved by the caller comparing the
// resolved IRI bytes.
func graphKey(iri interner.Ref) uint64 {
	return uint64(iri.Hash)
}
