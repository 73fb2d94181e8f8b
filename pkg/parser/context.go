//go:build go1.22

package parser

import (
	"github.com/flier/arenac/pkg/arena"
	"github.com/flier/arenac/pkg/arena/art"
)

// parseContext holds every piece of state a Turtle document's directives
// mutate as parsing proceeds: the prefix table, the current base IRI,
// and the blank-node label counter used to synthesize fresh labels for
// anonymous nodes ('[...]') and collections. It is owned by exactly one
// Parser; nothing here is package-level, unlike the function-local
// statics a C parser's directive handling tends to accumulate.
type parseContext struct {
	arena *arena.Arena

	prefixes art.Tree[string] // prefix name bytes ("ex") -> resolved base IRI
	base     string

	blankSeq uint64
}

func newParseContext(a *arena.Arena) *parseContext {
	return &parseContext{arena: a}
}

// declarePrefix records name -> iri, overwriting any prior declaration.
func (c *parseContext) declarePrefix(name []byte, iri string) {
	c.prefixes.Insert(c.arena, name, iri)
}

// resolvePrefix returns the base IRI declared for name, if any.
func (c *parseContext) resolvePrefix(name []byte) (string, bool) {
	if v := c.prefixes.Search(name); v != nil {
		return *v, true
	}
	return "", false
}

// setBase replaces the document's base IRI, honoring a relative @base
// against the previous one the same way resolveIRI resolves relative
// references against it.
func (c *parseContext) setBase(iri string) {
	c.base = resolveIRI(c.base, iri)
}

// freshBlankLabel synthesizes a blank node label for an anonymous node:
// "_:arenac" followed by a per-parser counter. An explicit label spelled
// the same way in the document (such as _:arenac1) names the same node.
func (c *parseContext) freshBlankLabel() string {
	c.blankSeq++
	return "_:arenac" + itoa(c.blankSeq)
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
