//go:build go1.22

package shacl

import (
	"regexp"
	"sync"
)

// patternCache compiles each distinct Pattern constraint's regex once and
// reuses it across every focus node and report, since the same shape set
// is typically validated against many graphs.
type patternCache struct {
	mu    sync.Mutex
	byRaw map[string]*regexp.Regexp
}

func newPatternCache() *patternCache {
	return &patternCache{byRaw: make(map[string]*regexp.Regexp)}
}

func (c *patternCache) compile(raw string) (*regexp.Regexp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.byRaw[raw]; ok {
		return re, nil
	}
	re, err := regexp.Compile(raw)
	if err != nil {
		return nil, err
	}
	c.byRaw[raw] = re
	return re, nil
}
