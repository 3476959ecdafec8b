package ignore

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Selector restricts a traversal to files matching at least one include glob.
// A selector without patterns selects every file.
type Selector struct {
	patterns []string
}

// NewSelector validates patterns and returns a Selector. Patterns without a
// slash are matched against the file name, others against the root-relative
// path, with doublestar ("**") semantics.
func NewSelector(patterns ...string) (*Selector, error) {
	s := &Selector{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.TrimPrefix(p, "./")
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, doublestar.ErrBadPattern)
		}
		s.patterns = append(s.patterns, p)
	}
	return s, nil
}

// Selects reports whether the file at rel should be kept.
func (s *Selector) Selects(rel string) bool {
	if s == nil || len(s.patterns) == 0 {
		return true
	}
	for _, p := range s.patterns {
		target := rel
		if !strings.Contains(p, "/") {
			target = path.Base(rel)
		}
		if ok, err := doublestar.Match(p, target); err == nil && ok {
			return true
		}
	}
	return false
}
