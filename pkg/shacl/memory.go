//go:build go1.22

package shacl

import (
	"github.com/flier/arenac/pkg/graph"
	"github.com/flier/arenac/pkg/interner"
	"github.com/flier/arenac/pkg/opt"
)

// nodeRecordSize/edgeRecordSize mirror the per-record arena charge
// graph.Graph itself budgets in graphArenaBytes: 48 bytes per Node, 32
// per Edge. MemoryBound reuses the same constants so its footprint
// tracks what the Graph actually consumed, rather than re-deriving
// unsafe.Sizeof against a package it doesn't import the internals of.
const (
	nodeRecordSize = 48
	edgeRecordSize = 32
)

// footprintOf sums (node-record + edge-record + string-pool bytes) over
// every triple with focus as its subject, per "total arena footprint
// reachable from the focus node".
func footprintOf(g *graph.Graph, in *interner.Interner, focus interner.Ref) uint64 {
	triples := g.FindTriples(opt.Some(focus), opt.None[interner.Ref](), opt.None[interner.Ref]())

	var total uint64
	total += nodeRecordSize + uint64(len(in.Resolve(focus)))

	for _, t := range triples {
		total += edgeRecordSize
		total += nodeRecordSize
		total += uint64(len(in.Resolve(t.Predicate)))
		total += uint64(len(in.Resolve(t.Object)))
		if t.HasDatatype {
			total += uint64(len(in.Resolve(t.Datatype)))
		}
		if t.HasLang {
			total += uint64(len(in.Resolve(t.Lang)))
		}
	}

	return total
}
