//go:build go1.22

package parser

// class is a bitmask describing what a single input byte can start or
// continue, classified once via a 256-entry lookup table rather than a
// chain of branches on every byte the cursor advances over.
type class uint8

const (
	classWS       class = 1 << iota // space, tab, CR, LF
	classDigit                      // 0-9
	classAlpha                      // A-Z, a-z, and any byte >= 0x80 (PN_CHARS_BASE over ASCII)
	classNameStart                  // alpha or '_' or ':'
	classNameChar                   // alpha, digit, '_' or '-' (not ':' or '.')
	classPunct                      // . ; , ( ) [ ] <space-sensitive Turtle punctuation>
)

var classTable [256]class

func init() {
	for c := 0; c < 256; c++ {
		var m class
		switch byte(c) {
		case ' ', '\t', '\r', '\n':
			m |= classWS
		case '.', ';', ',', '(', ')', '[', ']':
			m |= classPunct
		}
		if c >= '0' && c <= '9' {
			m |= classDigit | classNameChar
		}
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c >= 0x80 {
			m |= classAlpha | classNameStart | classNameChar
		}
		if c == '_' {
			m |= classNameStart | classNameChar
		}
		if c == ':' {
			// ':' separates a prefix label from its local name; it is
			// never itself part of a bare PN_PREFIX/PN_LOCAL run read via
			// readNameChars (readBareToken, which scans a whole prefixed
			// name at once, classifies it separately).
			m |= classNameStart
		}
		if c == '-' {
			m |= classNameChar
		}
		classTable[c] = m
	}
}

func isSpace(b byte) bool      { return classTable[b]&classWS != 0 }
func isDigit(b byte) bool      { return classTable[b]&classDigit != 0 }
func isNameStart(b byte) bool  { return classTable[b]&classNameStart != 0 }
func isNameChar(b byte) bool   { return classTable[b]&classNameChar != 0 }
func isPunct(b byte) bool      { return classTable[b]&classPunct != 0 }
