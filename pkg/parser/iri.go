//go:build go1.22

package parser

import "strings"

// resolveIRI resolves ref against base using the simple cases Turtle
// documents actually exercise: an absolute ref (has a scheme) is
// returned unchanged; a ref starting with '/' replaces base's path; a
// ref starting with '#' replaces base's fragment; a bare relative path
// is appended after trimming base back to its last '/'. This is not a general RFC 3986
// resolver; document authors who need one write an absolute @base.
func resolveIRI(base, ref string) string {
	if hasScheme(ref) {
		return ref
	}
	if base == "" {
		return ref
	}
	if strings.HasPrefix(ref, "#") {
		return strings.TrimSuffix(strings.SplitN(base, "#", 2)[0], "") + ref
	}
	if strings.HasPrefix(ref, "/") {
		scheme, rest, ok := strings.Cut(base, "://")
		if !ok {
			return ref
		}
		authority, _, _ := strings.Cut(rest, "/")
		return scheme + "://" + authority + ref
	}

	i := strings.LastIndexByte(base, '/')
	if i < 0 {
		return ref
	}
	return base[:i+1] + ref
}

func hasScheme(s string) bool {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return false
	}
	for j := 0; j < i; j++ {
		c := s[j]
		alpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		alnum := alpha || (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'
		if !alnum {
			return false
		}
	}
	return true
}
