//go:build go1.22

package parser

import (
	"fmt"
)

// nextByte advances the cursor by one byte, tracking line/column the way
// the spec's "parser tracks byte offset plus line/column for diagnostics"
// requires. Every other cursor method in this package funnels through
// this one or through a cloned Reader that never advances p.r itself.
func (p *Parser) nextByte() (byte, error) {
	b, err := p.r.ReadByte()
	if err != nil {
		return 0, err
	}
	p.offset++
	if b == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return b, nil
}

// peekByte reports the next byte without consuming it, by reading from a
// cloned Reader - Reader itself only exposes single-byte equality peek,
// not an arbitrary byte-value peek.
func (p *Parser) peekByte() (byte, bool) {
	return p.lookahead(0)
}

// lookahead reports the byte n positions ahead of the cursor (0 is the
// next unread byte) without consuming anything.
func (p *Parser) lookahead(n int) (byte, bool) {
	c := p.r.Clone()
	if n > 0 {
		if err := c.Skip(n); err != nil {
			return 0, false
		}
	}
	b, err := c.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}

func (p *Parser) expectByte(want byte) error {
	b, err := p.nextByte()
	if err != nil {
		return err
	}
	if b != want {
		return fmt.Errorf("expected %q, got %q", want, b)
	}
	return nil
}

// skipIgnorable consumes whitespace and '#' line comments, the only two
// kinds of inter-token filler the grammar allows.
func (p *Parser) skipIgnorable() {
	for {
		b, ok := p.peekByte()
		if !ok {
			return
		}
		if isSpace(b) {
			p.nextByte()
			continue
		}
		if b == '#' {
			for {
				b2, err := p.nextByte()
				if err != nil || b2 == '\n' {
					break
				}
			}
			continue
		}
		return
	}
}

// consumeKeywordCI consumes word from the cursor case-insensitively,
// requiring a name-boundary right after it (so "PREFIX" doesn't match a
// prefixed name spelled "Prefixed:thing"), and leaving the cursor
// untouched and returning false if word isn't there.
func (p *Parser) consumeKeywordCI(word string) bool {
	c := p.r.Clone()
	for i := 0; i < len(word); i++ {
		b, err := c.ReadByte()
		if err != nil || lowerByte(b) != lowerByte(word[i]) {
			return false
		}
	}
	if b, err := c.ReadByte(); err != nil || !isSpace(b) {
		return false
	}
	for i := 0; i < len(word); i++ {
		p.nextByte()
	}
	return true
}

// readBareToken consumes a run of bytes that are neither whitespace,
// punctuation, nor the delimiters that start or continue a different
// token kind ('<', '"', '\'', '@', '^'), used for boolean literals and
// prefixed names.
func (p *Parser) readBareToken() string {
	var buf []byte
	for {
		b, ok := p.peekByte()
		if !ok || isSpace(b) || isPunct(b) || b == '<' || b == '"' || b == '\'' || b == '@' || b == '^' {
			break
		}
		p.nextByte()
		buf = append(buf, b)
	}
	return string(buf)
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
