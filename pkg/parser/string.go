//go:build go1.22

package parser

import (
	"fmt"
	"unicode/utf8"
)

// parseIRIREF reads a '<...>' IRI reference, already positioned at the
// opening '<', and returns its unescaped content.
func (p *Parser) parseIRIREF() (string, error) {
	if err := p.expectByte('<'); err != nil {
		return "", err
	}

	var buf []byte
	for {
		b, err := p.nextByte()
		if err != nil {
			return "", fmt.Errorf("unterminated IRI reference: %w", err)
		}
		switch b {
		case '>':
			return string(buf), nil
		case '\\':
			r, err := p.readEscape(false)
			if err != nil {
				return "", err
			}
			var tmp [utf8.UTFMax]byte
			n := utf8.EncodeRune(tmp[:], r)
			buf = append(buf, tmp[:n]...)
		case ' ', '<', '"', '{', '}', '|', '^', '`':
			return "", fmt.Errorf("illegal byte %q in IRI reference", b)
		default:
			buf = append(buf, b)
		}
	}
}

// parseStringLiteral reads a quoted string literal (short '"..."'/'\'...\''
// or long '"""..."""'/'\'\'\'...\'\'\'') already positioned at the opening
// quote, and returns its unescaped lexical value.
func (p *Parser) parseStringLiteral() (string, error) {
	q, err := p.nextByte()
	if err != nil {
		return "", err
	}

	long := false
	if b, ok := p.peekByte(); ok && b == q {
		if b2, ok2 := p.lookahead(1); ok2 && b2 == q {
			p.nextByte()
			p.nextByte()
			long = true
		}
	}

	var buf []byte
	for {
		b, err := p.nextByte()
		if err != nil {
			return "", fmt.Errorf("unterminated string literal: %w", err)
		}
		switch {
		case b == '\\':
			r, err := p.readEscape(true)
			if err != nil {
				return "", err
			}
			var tmp [utf8.UTFMax]byte
			n := utf8.EncodeRune(tmp[:], r)
			buf = append(buf, tmp[:n]...)
		case b == q && !long:
			return string(buf), nil
		case b == q && long:
			if b2, ok := p.peekByte(); ok && b2 == q {
				if b3, ok := p.lookahead(1); ok && b3 == q {
					p.nextByte()
					p.nextByte()
					return string(buf), nil
				}
			}
			buf = append(buf, b)
		case (b == '\n' || b == '\r') && !long:
			return "", fmt.Errorf("unescaped newline in short string literal")
		default:
			buf = append(buf, b)
		}
	}
}

// readEscape reads the character(s) following a backslash already
// consumed by the caller. allowShort enables the extra string-only
// escapes (\t \n \r \b \f \" \'); IRI references only accept \uXXXX,
// \UXXXXXXXX and \\.
func (p *Parser) readEscape(allowShort bool) (rune, error) {
	b, err := p.nextByte()
	if err != nil {
		return 0, fmt.Errorf("unterminated escape: %w", err)
	}
	switch b {
	case 'u':
		return p.readHexEscape(4)
	case 'U':
		return p.readHexEscape(8)
	case '\\':
		return '\\', nil
	}
	if allowShort {
		switch b {
		case 't':
			return '\t', nil
		case 'n':
			return '\n', nil
		case 'r':
			return '\r', nil
		case 'b':
			return '\b', nil
		case 'f':
			return '\f', nil
		case '"':
			return '"', nil
		case '\'':
			return '\'', nil
		}
	}
	return 0, fmt.Errorf("invalid escape \\%c", b)
}

func (p *Parser) readHexEscape(digits int) (rune, error) {
	var v rune
	for i := 0; i < digits; i++ {
		b, err := p.nextByte()
		if err != nil {
			return 0, fmt.Errorf("unterminated unicode escape: %w", err)
		}
		d, ok := hexDigit(b)
		if !ok {
			return 0, fmt.Errorf("invalid hex digit %q in unicode escape", b)
		}
		v = v<<4 | rune(d)
	}
	return v, nil
}

func hexDigit(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}
