//go:build go1.22

package graph

import "github.com/flier/arenac/pkg/interner"

// InvalidIndex is the sentinel returned in place of a 32-bit index for any
// lookup that finds nothing; it never refers to a real node, edge, triple,
// or named graph.
const InvalidIndex uint32 = ^uint32(0)

// NodeKind classifies what a Node's interned term actually denotes.
type NodeKind uint8

const (
	// KindIRI marks a node identified by an absolute IRI.
	KindIRI NodeKind = iota
	// KindBlank marks a blank node (an anonymous, document-scoped identifier).
	KindBlank
	// KindLiteral marks a literal value node (string/number/boolean/etc).
	KindLiteral
)

func (k NodeKind) valid() bool { return k <= KindLiteral }

// Node is an entity identified by an interned term and a [NodeKind]. It
// carries its own adjacency-list heads so traversal never needs a
// separate index lookup: first_out_edge/first_in_edge point at the most
// recently inserted incident edge, and each Edge chains to the previous
// one via NextOut/NextIn.
type Node struct {
	Term interner.Ref
	Kind NodeKind

	OutDegree, InDegree uint32

	FirstOutEdge, FirstInEdge uint32
}

// Edge is a directed link between two nodes, labeled with the predicate
// term that produced it, intrusively chained into both endpoints'
// adjacency lists by index rather than pointer.
type Edge struct {
	Source, Target uint32
	Predicate      interner.Ref
	TripleID       uint32

	NextOut, NextIn uint32
}

// Triple is (subject, predicate, object, object's kind, owning named
// graph, flags), plus the dense triple_id assigned at insertion.
//
// Datatype and Lang apply only when ObjectKind is KindLiteral: Datatype
// is the literal's xsd datatype IRI (HasDatatype false means it was
// never set, as for non-literal objects), and Lang is its language tag
// when HasLang is true, in which case Datatype is implicitly
// rdf:langString.
type Triple struct {
	Subject, Predicate, Object interner.Ref
	ObjectKind                 NodeKind
	GraphID                    uint32
	Flags                      uint16
	ID                         uint32

	Datatype    interner.Ref
	HasDatatype bool
	Lang        interner.Ref
	HasLang     bool
}

// NamedGraph partitions the triple set: every triple belongs to exactly
// one graph, graph 0 being the default, unnamed graph.
type NamedGraph struct {
	IRI         interner.Ref
	TripleCount uint32
	Flags       uint16
}

// DefaultGraphID is the graph_id every triple is assigned unless inserted
// via InsertTripleNamed.
const DefaultGraphID uint32 = 0
