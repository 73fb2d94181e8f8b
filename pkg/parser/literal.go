//go:build go1.22

package parser

// XSD datatype IRIs recognized by the parser's literal-typing pass. A
// literal with no explicit ^^datatype and no @lang is typed xsd:string;
// one with @lang is rdf:langString, per RDF 1.1's literal model.
const (
	xsdString  = "http://www.w3.org/2001/XMLSchema#string"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	rdfLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// inferNumericDatatype classifies an unquoted numeric token's lexical
// form into one of xsd:integer/decimal/double, the three numeric
// literal shapes the Turtle grammar accepts without quotes. The caller
// has already verified lex looks numeric (starts with a digit or a
// sign); this only distinguishes the three shapes from each other.
func inferNumericDatatype(lex string) string {
	hasDot, hasExp := false, false
	for i := 0; i < len(lex); i++ {
		switch lex[i] {
		case '.':
			hasDot = true
		case 'e', 'E':
			hasExp = true
		}
	}
	switch {
	case hasExp:
		return xsdDouble
	case hasDot:
		return xsdDecimal
	default:
		return xsdInteger
	}
}

// looksNumeric reports whether b (followed by next) could start an
// unquoted numeric literal: an optional sign followed by a digit, or a
// digit, or a '.' immediately followed by a digit (a bare ".5" is not
// valid Turtle but the caller only uses this to pick a parse path, not
// to validate).
func looksNumeric(b byte, next byte, hasNext bool) bool {
	if isDigit(b) {
		return true
	}
	if (b == '+' || b == '-') && hasNext && isDigit(next) {
		return true
	}
	if b == '.' && hasNext && isDigit(next) {
		return true
	}
	return false
}

func isBooleanLexeme(lex string) bool { return lex == "true" || lex == "false" }
