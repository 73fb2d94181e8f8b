//go:build go1.22

package parser

import (
	"fmt"
	"strings"
)

// parseIRITerm reads either a '<...>' IRI reference or a PN_PREFIX:PN_LOCAL
// prefixed name and returns the resolved, interned absolute IRI term.
func (p *Parser) parseIRITerm() (term, error) {
	b, ok := p.peekByte()
	if !ok {
		return term{}, ErrEndOfInputErr
	}
	if b == '<' {
		iri, err := p.parseIRIREF()
		if err != nil {
			return term{}, err
		}
		ref, err := p.in.InternString(resolveIRI(p.ctx.base, iri))
		if err != nil {
			return term{}, err
		}
		return iriTerm(ref), nil
	}
	return p.parsePrefixedName()
}

// parsePrefixedName reads a bare PN_PREFIX:PN_LOCAL token and resolves it
// against the declared prefix table.
func (p *Parser) parsePrefixedName() (term, error) {
	tok := p.readBareToken()
	if tok == "" {
		return term{}, fmt.Errorf("expected a term, found %q", p.peekRune())
	}

	name, local, found := strings.Cut(tok, ":")
	if !found {
		return term{}, fmt.Errorf("%w: %q", ErrNotAPrefixedName, tok)
	}

	base, ok := p.ctx.resolvePrefix([]byte(name))
	if !ok {
		p.recordError(ErrUnresolvedPrefix, fmt.Sprintf("unresolved prefix %q", name))
		return term{}, fmt.Errorf("unresolved prefix %q", name)
	}

	ref, err := p.in.InternString(base + local)
	if err != nil {
		return term{}, err
	}
	return iriTerm(ref), nil
}

// parseBlankNodeLabel reads an explicit '_:label' blank node reference.
func (p *Parser) parseBlankNodeLabel() (term, error) {
	if err := p.expectByte('_'); err != nil {
		return term{}, err
	}
	if err := p.expectByte(':'); err != nil {
		return term{}, err
	}
	label := p.readNameChars()
	if label == "" {
		return term{}, fmt.Errorf("empty blank node label")
	}
	ref, err := p.in.InternString("_:" + label)
	if err != nil {
		return term{}, err
	}
	return blankTerm(ref), nil
}

func (p *Parser) readNameChars() string {
	var buf []byte
	for {
		b, ok := p.peekByte()
		if !ok || !isNameChar(b) {
			break
		}
		p.nextByte()
		buf = append(buf, b)
	}
	return string(buf)
}

func (p *Parser) peekRune() string {
	b, ok := p.peekByte()
	if !ok {
		return "<eof>"
	}
	return string(rune(b))
}
