//go:build go1.22

package parser

import (
	"errors"
	"fmt"

	"github.com/flier/arenac/internal/debug"
	"github.com/flier/arenac/pkg/arena"
	"github.com/flier/arenac/pkg/graph"
	"github.com/flier/arenac/pkg/interner"
	"github.com/flier/arenac/pkg/untrust"
)

// Config controls a Parser's error handling.
type Config struct {
	// Strict aborts at the first diagnostic instead of recording it and
	// resynchronizing to the next '.'.
	Strict bool
	// PrefixTableBytes sizes the parse context's own arena, which backs
	// only the prefix table (the document's triples and nodes flow
	// straight into the Graph's own arenas). Defaults to 16KiB.
	PrefixTableBytes int
}

// Parser streams a Turtle-subset document directly into a Graph, one
// statement at a time: every token is interned as soon as it's scanned
// and every complete (subject, predicate, object) triple is inserted
// before the next one is read, so the document's byte slice never
// needs to be retained past Parse returning.
type Parser struct {
	g   *graph.Graph
	in  *interner.Interner
	ctx *parseContext
	cfg Config

	r      *untrust.Reader
	line   int
	col    int
	offset int

	errors []ParseError
}

// New creates a Parser that inserts into g, interning terms through in.
func New(g *graph.Graph, in *interner.Interner, cfg Config) *Parser {
	if cfg.PrefixTableBytes == 0 {
		cfg.PrefixTableBytes = 1 << 14
	}
	return &Parser{
		g:   g,
		in:  in,
		cfg: cfg,
		ctx: newParseContext(arena.NewArena(cfg.PrefixTableBytes, arena.Config{})),
	}
}

// Parse parses data as a sequence of Turtle statements, inserting each
// completed triple into the Graph as soon as it's recognized. It returns
// the diagnostics recorded along the way (empty on a clean parse) and a
// non-nil error only when Strict is set and a statement failed.
func (p *Parser) Parse(data []byte) ([]ParseError, error) {
	p.r = untrust.NewReader(untrust.Input(data))
	p.line, p.col, p.offset = 1, 1, 0

	for {
		p.skipIgnorable()
		if _, ok := p.peekByte(); !ok {
			break
		}

		if err := p.parseStatement(); err != nil {
			if p.cfg.Strict {
				return p.errors, err
			}
			kind := ErrSyntax
			if errors.Is(err, ErrEndOfInputErr) {
				kind = ErrEndOfInput
			}
			p.recordError(kind, err.Error())
			if !p.resyncToDot() {
				break
			}
		}
	}

	return p.errors, nil
}

func (p *Parser) parseStatement() error {
	b, ok := p.peekByte()
	if !ok {
		return nil
	}

	switch {
	case b == '@':
		return p.parseAtDirective()
	case (b == 'P' || b == 'p') && p.consumeKeywordCI("PREFIX"):
		return p.finishPrefixDirective(false)
	case (b == 'B' || b == 'b') && p.consumeKeywordCI("BASE"):
		return p.finishBaseDirective(false)
	default:
		return p.parseTriples()
	}
}

func (p *Parser) parseAtDirective() error {
	if err := p.expectByte('@'); err != nil {
		return err
	}
	kw := p.readNameChars()
	switch kw {
	case "prefix":
		return p.finishPrefixDirective(true)
	case "base":
		return p.finishBaseDirective(true)
	default:
		return fmt.Errorf("unknown directive @%s", kw)
	}
}

func (p *Parser) finishPrefixDirective(requireDot bool) error {
	p.skipIgnorable()
	name := p.readNameChars()
	if err := p.expectByte(':'); err != nil {
		return fmt.Errorf("malformed @prefix name: %w", err)
	}
	p.skipIgnorable()
	iri, err := p.parseIRIREF()
	if err != nil {
		return err
	}
	p.skipIgnorable()
	if requireDot {
		if err := p.expectByte('.'); err != nil {
			return fmt.Errorf("@prefix missing terminating '.': %w", err)
		}
	}
	p.ctx.declarePrefix([]byte(name), resolveIRI(p.ctx.base, iri))
	return nil
}

func (p *Parser) finishBaseDirective(requireDot bool) error {
	p.skipIgnorable()
	iri, err := p.parseIRIREF()
	if err != nil {
		return err
	}
	p.skipIgnorable()
	if requireDot {
		if err := p.expectByte('.'); err != nil {
			return fmt.Errorf("@base missing terminating '.': %w", err)
		}
	}
	p.ctx.setBase(iri)
	return nil
}

// parseTriples parses one "subject predicateObjectList '.'" statement.
func (p *Parser) parseTriples() error {
	subj, err := p.parseSubject()
	if err != nil {
		return err
	}
	p.skipIgnorable()
	return p.parsePredicateObjectList(subj)
}

func (p *Parser) parseSubject() (term, error) {
	b, ok := p.peekByte()
	if !ok {
		return term{}, ErrEndOfInputErr
	}
	switch {
	case b == '_':
		return p.parseBlankNodeLabel()
	case b == '[':
		return p.parseBlankNodePropertyList()
	case b == '(':
		return p.parseCollection()
	default:
		return p.parseIRITerm()
	}
}

// parsePredicateObjectList parses ';'-separated predicate/objectList
// groups, terminated by '.', emitting a triple for every object as soon
// as it's parsed.
func (p *Parser) parsePredicateObjectList(subj term) error {
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
		if b == '.' {
			p.nextByte()
			return nil
		}
		if b != ';' {
			return fmt.Errorf("expected ';' or '.', found %q", b)
		}

		// consume one or more ';', which may be followed directly by '.'
		// (a trailing semicolon) or by another verb/objectList.
		for {
			p.nextByte()
			p.skipIgnorable()
			b2, ok := p.peekByte()
			if !ok {
				return ErrEndOfInputErr
			}
			if b2 == '.' {
				p.nextByte()
				return nil
			}
			if b2 != ';' {
				break
			}
		}
	}
}

func (p *Parser) parseVerb() (term, error) {
	b, ok := p.peekByte()
	if !ok {
		return term{}, ErrEndOfInputErr
	}
	if b == 'a' {
		if next, ok := p.lookahead(1); !ok || isSpace(next) || isPunct(next) {
			p.nextByte()
			ref, err := p.in.InternString(rdfType)
			if err != nil {
				return term{}, err
			}
			return iriTerm(ref), nil
		}
	}
	return p.parseIRITerm()
}

func (p *Parser) parseObjectList(subj, pred term) error {
	for {
		p.skipIgnorable()
		obj, err := p.parseObject()
		if err != nil {
			return err
		}
		if err := p.emitTriple(subj, pred, obj); err != nil {
			return err
		}

		p.skipIgnorable()
		if b, ok := p.peekByte(); ok && b == ',' {
			p.nextByte()
			continue
		}
		return nil
	}
}

// parseObject dispatches on the object's opening byte to one of:
// IRI reference, prefixed name, blank node label, anonymous blank node
// property list, collection, quoted string literal, or numeric/boolean
// unquoted literal.
func (p *Parser) parseObject() (term, error) {
	b, ok := p.peekByte()
	if !ok {
		return term{}, ErrEndOfInputErr
	}

	switch {
	case b == '"' || b == '\'':
		return p.parseLiteralObject(b)
	case b == '_':
		return p.parseBlankNodeLabel()
	case b == '[':
		return p.parseBlankNodePropertyList()
	case b == '(':
		return p.parseCollection()
	default:
		next, hasNext := p.lookahead(1)
		if looksNumeric(b, next, hasNext) {
			return p.parseNumericObject()
		}
		tok := p.peekBareTokenLookalike()
		if tok == "true" || tok == "false" {
			p.readBareToken()
			ref, err := p.in.InternString(tok)
			if err != nil {
				return term{}, err
			}
			dt, err := p.in.InternString(xsdBoolean)
			if err != nil {
				return term{}, err
			}
			return literalTerm(ref, graph.Literal{Datatype: dt}), nil
		}
		return p.parseIRITerm()
	}
}

// peekBareTokenLookalike looks ahead at what readBareToken would
// consume, without consuming it, so boolean-literal detection doesn't
// have to unread a prefixed name it turned out not to be.
func (p *Parser) peekBareTokenLookalike() string {
	c := p.r.Clone()
	var buf []byte
	for {
		b, err := c.ReadByte()
		if err != nil || isSpace(b) || isPunct(b) || b == '<' || b == '"' || b == '\'' || b == '@' || b == '^' {
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}

func (p *Parser) parseLiteralObject(quote byte) (term, error) {
	lex, err := p.parseStringLiteral()
	if err != nil {
		return term{}, err
	}
	ref, err := p.in.InternString(lex)
	if err != nil {
		return term{}, err
	}

	if b, ok := p.peekByte(); ok && b == '@' {
		p.nextByte()
		lang := p.readLangTag()
		langRef, err := p.in.InternString(lang)
		if err != nil {
			return term{}, err
		}
		dt, err := p.in.InternString(rdfLangString)
		if err != nil {
			return term{}, err
		}
		return literalTerm(ref, graph.Literal{Datatype: dt, Lang: langRef, HasLang: true}), nil
	}

	if b, ok := p.peekByte(); ok && b == '^' {
		if b2, ok2 := p.lookahead(1); ok2 && b2 == '^' {
			p.nextByte()
			p.nextByte()
			dtTerm, err := p.parseIRITerm()
			if err != nil {
				return term{}, err
			}
			return literalTerm(ref, graph.Literal{Datatype: dtTerm.ref}), nil
		}
	}

	dt, err := p.in.InternString(xsdString)
	if err != nil {
		return term{}, err
	}
	return literalTerm(ref, graph.Literal{Datatype: dt}), nil
}

func (p *Parser) readLangTag() string {
	var buf []byte
	for {
		b, ok := p.peekByte()
		if !ok || !(isNameChar(b) || b == '-') {
			break
		}
		p.nextByte()
		buf = append(buf, b)
	}
	return string(buf)
}

func (p *Parser) parseNumericObject() (term, error) {
	var buf []byte
	b, _ := p.peekByte()
	if b == '+' || b == '-' {
		p.nextByte()
		buf = append(buf, b)
	}
	for {
		b, ok := p.peekByte()
		if !ok {
			break
		}
		if isDigit(b) || b == '.' {
			p.nextByte()
			buf = append(buf, b)
			continue
		}
		if (b == 'e' || b == 'E') && len(buf) > 0 {
			p.nextByte()
			buf = append(buf, b)
			if b2, ok := p.peekByte(); ok && (b2 == '+' || b2 == '-') {
				p.nextByte()
				buf = append(buf, b2)
			}
			continue
		}
		break
	}
	lex := string(buf)
	ref, err := p.in.InternString(lex)
	if err != nil {
		return term{}, err
	}
	dt, err := p.in.InternString(inferNumericDatatype(lex))
	if err != nil {
		return term{}, err
	}
	return literalTerm(ref, graph.Literal{Datatype: dt}), nil
}

// emitTriple inserts (subj, pred, obj) into the default graph, routing
// through the Graph's literal-aware insert when obj is a literal.
func (p *Parser) emitTriple(subj, pred, obj term) error {
	var err error
	if obj.kind == graph.KindLiteral {
		_, err = p.g.InsertLiteralTripleNamedKind(subj.ref, subj.kind, pred.ref, obj.ref, obj.lit, graph.DefaultGraphID)
	} else {
		_, err = p.g.InsertTripleNamedKind(subj.ref, subj.kind, pred.ref, obj.ref, obj.kind, graph.DefaultGraphID)
	}
	if err != nil {
		debug.Log(nil, "parser", "emit failed: %v", err)
	}
	return err
}

func (p *Parser) recordError(kind ErrorKind, msg string) {
	ref, _ := p.in.InternString(msg)
	p.errors = append(p.errors, ParseError{
		Kind: kind, Line: p.line, Column: p.col, Offset: p.offset, Message: ref,
	})
}

// resyncToDot discards input up to and including the next top-level '.',
// the recovery strategy for lenient-mode parse errors. Returns false if
// it ran off the end of input without finding one.
func (p *Parser) resyncToDot() bool {
	for {
		b, err := p.nextByte()
		if err != nil {
			return false
		}
		if b == '.' {
			return true
		}
	}
}

// Errors returns every diagnostic recorded so far.
func (p *Parser) Errors() []ParseError { return p.errors }
