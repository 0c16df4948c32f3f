// internal/app/system/search/search.go
package search

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Needle is a search query prepared for repeated matching. The zero value
// (empty query) matches everything.
type Needle struct {
	raw    string
	folded string
}

// Prepare folds q once so it can be matched against many records.
// Surrounding whitespace is not significant; inner whitespace is kept.
func Prepare(q string) Needle {
	q = strings.TrimSpace(q)
	if q == "" {
		return Needle{}
	}
	return Needle{raw: q, folded: text.Fold(q)}
}

// Empty reports whether the query is blank.
func (n Needle) Empty() bool { return n.folded == "" }

// String returns the trimmed query as typed.
func (n Needle) String() string { return n.raw }

// MatchAny reports whether at least one of fields contains the query as a
// case-insensitive substring. An empty query matches every record.
func (n Needle) MatchAny(fields ...string) bool {
	if n.Empty() {
		return true
	}
	for _, f := range fields {
		if strings.Contains(text.Fold(f), n.folded) {
			return true
		}
	}
	return false
}

// Match is a convenience for one-off checks.
func Match(q string, fields ...string) bool {
	return Prepare(q).MatchAny(fields...)
}
