// internal/app/system/collection/schema.go
package collection

import (
	"fmt"
	"slices"
)

// FilterAll is the sentinel filter value that disables a filter.
const FilterAll = "All"

// Transition is an implicit status change, e.g. Unread -> Read when a
// contact message is opened.
type Transition struct {
	From string
	To   string
}

// Schema describes one admin domain: its closed status enumeration, which
// fields are searchable, which can be filtered on, and how it is ordered.
//
// A Schema is plain data plus accessors so that the store, the query engine
// and the detail controller stay generic over the fields type F.
type Schema[F any] struct {
	// Name is the domain name used in routes, logs and metrics (e.g. "posts").
	Name string

	// Statuses is the closed status enumeration. SetStatus rejects anything else.
	Statuses []string

	// Status reads the status field; SetStatus writes it.
	Status    func(F) string
	SetStatus func(*F, string)

	// Searchable returns the values matched against the search text.
	Searchable func(F) []string

	// Filters maps a filter name (e.g. "status", "role") to its field accessor.
	Filters map[string]func(F) string

	// Rank, when set, orders views by rank ascending (ties by insertion order).
	Rank func(F) int

	// OnOpen, when set, is applied once when a record in state From is opened.
	OnOpen *Transition

	// Validate, when set, checks fields before they are stored by a page.
	Validate func(F) error
}

// FieldError reports an unacceptable field value.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Check runs the schema's validator, if any.
func (s Schema[F]) Check(f F) error {
	if s.Validate == nil {
		return nil
	}
	return s.Validate(f)
}

// ValidStatus reports whether v belongs to the domain's status enumeration.
func (s Schema[F]) ValidStatus(v string) bool {
	return slices.Contains(s.Statuses, v)
}

// FilterNames returns the domain's filter names in sorted order.
func (s Schema[F]) FilterNames() []string {
	names := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
