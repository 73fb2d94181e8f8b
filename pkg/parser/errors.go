//go:build go1.22

package parser

import (
	"errors"

	"github.com/flier/arenac/pkg/interner"
)

// ErrEndOfInputErr is returned by a term-level parse when the cursor is
// already at the end of input with a term still expected.
var ErrEndOfInputErr = errors.New("parser: unexpected end of input")

// ErrNotAPrefixedName is returned when a bare token lacks the ':' a
// prefixed name requires.
var ErrNotAPrefixedName = errors.New("parser: not a prefixed name")

// ErrorKind classifies a diagnostic raised while parsing a document.
type ErrorKind uint8

const (
	// ErrSyntax covers any malformed token sequence: an unexpected byte,
	// an unterminated string or IRI, a missing '.', and the like.
	ErrSyntax ErrorKind = iota
	// ErrUnresolvedPrefix is raised for a prefixed name whose prefix was
	// never declared by a preceding @prefix/PREFIX directive.
	ErrUnresolvedPrefix
	// ErrEndOfInput is raised when the document ends mid-statement.
	ErrEndOfInput
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax"
	case ErrUnresolvedPrefix:
		return "unresolved-prefix"
	case ErrEndOfInput:
		return "end-of-input"
	default:
		return "unknown"
	}
}

// ParseError is one recorded diagnostic: a position plus a human-readable
// message, interned like every other token the parser touches.
type ParseError struct {
	Kind    ErrorKind
	Line    int
	Column  int
	Offset  int
	Message interner.Ref
}

func (e ParseError) Error() string {
	return e.Kind.String() + " error"
}
