//go:build go1.22

package parser

import "fmt"

// parseBlankNodePropertyList parses '[' predicateObjectList? ']',
// synthesizing a fresh blank node as the subject of every predicate it
// contains and returning that blank node as the term for whatever
// position (subject or object) the brackets occupied.
func (p *Parser) parseBlankNodePropertyList() (term, error) {
	if err := p.expectByte('['); err != nil {
		return term{}, err
	}

	label := p.ctx.freshBlankLabel()
	ref, err := p.in.InternString(label)
	if err != nil {
		return term{}, err
	}
	subj := blankTerm(ref)

	p.skipIgnorable()
	if b, ok := p.peekByte(); ok && b == ']' {
		p.nextByte()
		return subj, nil
	}

	if err := p.parsePropertyListUntil(subj, ']'); err != nil {
		return term{}, err
	}
	return subj, nil
}

// parsePropertyListUntil is parsePredicateObjectList's body, but
// terminated by closing byte instead of '.' - used inside '[...]'
// blank node property lists, which have no statement terminator of
// their own.
func (p *Parser) parsePropertyListUntil(subj term, closing byte) error {
	for {
		p.skipIgnorable()
		pred, err := p.parseVerb()
		if err != nil {
			return err
		}
		if err := p.parseObjectList(subj, pred); err != nil {
			return err
		}

		p.skipIgnorable()
		b, ok := p.peekByte()
		if !ok {
			return ErrEndOfInputErr
		}
		if b == closing {
			p.nextByte()
			return nil
		}
		if b != ';' {
			return fmt.Errorf("expected ';' or %q, found %q", closing, b)
		}
		for {
			p.nextByte()
			p.skipIgnorable()
			b2, ok := p.peekByte()
			if !ok {
				return ErrEndOfInputErr
			}
			if b2 == closing {
				p.nextByte()
				return nil
			}
			if b2 != ';' {
				break
			}
		}
	}
}

// parseCollection parses a '(' object* ')' list, desugaring it into an
// rdf:first/rdf:rest chain of fresh blank nodes terminated by rdf:nil,
// and returns the term for the list's head (rdf:nil itself if empty).
func (p *Parser) parseCollection() (term, error) {
	if err := p.expectByte('('); err != nil {
		return term{}, err
	}

	nilRef, err := p.in.InternString(rdfNil)
	if err != nil {
		return term{}, err
	}
	nilTerm := iriTerm(nilRef)

	firstRef, err := p.in.InternString(rdfFirst)
	if err != nil {
		return term{}, err
	}
	restRef, err := p.in.InternString(rdfRest)
	if err != nil {
		return term{}, err
	}
	firstPred, restPred := iriTerm(firstRef), iriTerm(restRef)

	p.skipIgnorable()
	if b, ok := p.peekByte(); ok && b == ')' {
		p.nextByte()
		return nilTerm, nil
	}

	var head term
	var prev term
	havePrev := false

	for {
		p.skipIgnorable()
		if b, ok := p.peekByte(); ok && b == ')' {
			p.nextByte()
			break
		}

		elem, err := p.parseObject()
		if err != nil {
			return term{}, err
		}

		label := p.ctx.freshBlankLabel()
		nodeRef, err := p.in.InternString(label)
		if err != nil {
			return term{}, err
		}
		node := blankTerm(nodeRef)

		if !havePrev {
			head = node
			havePrev = true
		} else {
			if err := p.emitTriple(prev, restPred, node); err != nil {
				return term{}, err
			}
		}
		if err := p.emitTriple(node, firstPred, elem); err != nil {
			return term{}, err
		}
		prev = node

		p.skipIgnorable()
	}

	if err := p.emitTriple(prev, restPred, nilTerm); err != nil {
		return term{}, err
	}

	return head, nil
}
