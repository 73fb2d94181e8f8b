//go:build go1.22

package parser

import (
	"github.com/flier/arenac/pkg/graph"
	"github.com/flier/arenac/pkg/interner"
)

// term is a parsed RDF term together with enough context to emit it: its
// interned content, its node kind, and - for a literal - its datatype
// and language tag.
type term struct {
	ref  interner.Ref
	kind graph.NodeKind
	lit  graph.Literal
}

func iriTerm(ref interner.Ref) term   { return term{ref: ref, kind: graph.KindIRI} }
func blankTerm(ref interner.Ref) term { return term{ref: ref, kind: graph.KindBlank} }
func literalTerm(ref interner.Ref, lit graph.Literal) term {
	return term{ref: ref, kind: graph.KindLiteral, lit: lit}
}
