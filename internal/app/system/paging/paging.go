// Package paging derives the visible slice of a list page from a collection
// snapshot and the page's query parameters.
//
// Derivation is pure: the same snapshot and Params always give the same
// View. Memo caches the last View per store version so repeated reads of an
// unchanged page do not refilter.
package paging

import (
	"slices"
	"sync"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/search"
)

// View is the filtered, ordered and paginated subset of a collection.
type View[F any] struct {
	Records    []collection.Record[F] `json:"records"`
	Total      int                    `json:"total"`
	TotalPages int                    `json:"total_pages"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	Range      Range                  `json:"range"`
}

// Range holds computed display range values ("Showing 11 - 20 of 50").
type Range struct {
	Start int `json:"start"` // 1-based start index (0 if no results)
	End   int `json:"end"`   // 1-based end index (0 if no results)
}

// ComputeRange calculates the display range for a page showing `shown` rows.
func ComputeRange(page, pageSize, shown int) Range {
	if shown == 0 {
		return Range{}
	}
	start := (page-1)*pageSize + 1
	return Range{Start: start, End: start + shown - 1}
}

// TotalPages returns max(1, ceil(total/pageSize)).
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Clamp moves page into [1, totalPages].
func Clamp(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Matches reports whether rec passes every active filter in p and, when the
// search text is set, whether one of the schema's searchable fields contains it.
func Matches[F any](schema collection.Schema[F], rec collection.Record[F], p Params) bool {
	return matches(schema, rec, p, search.Prepare(p.Search))
}

func matches[F any](schema collection.Schema[F], rec collection.Record[F], p Params, needle search.Needle) bool {
	for name, want := range p.Filters {
		if want == "" || want == collection.FilterAll {
			continue
		}
		get, ok := schema.Filters[name]
		if !ok {
			// Unknown filters are ignored rather than hiding every row.
			continue
		}
		if get(rec.Fields) != want {
			return false
		}
	}
	if needle.Empty() {
		return true
	}
	if schema.Searchable == nil {
		return false
	}
	return needle.MatchAny(schema.Searchable(rec.Fields)...)
}

// Derive filters, orders and slices recs according to p.
//
// The page size is normalised and the page clamped against the filtered
// total before slicing, so a stale page number never selects an empty or
// out-of-range window.
func Derive[F any](schema collection.Schema[F], recs []collection.Record[F], p Params) View[F] {
	needle := search.Prepare(p.Search)
	filtered := make([]collection.Record[F], 0, len(recs))
	for _, rec := range recs {
		if matches(schema, rec, p, needle) {
			filtered = append(filtered, rec)
		}
	}

	if schema.Rank != nil {
		slices.SortStableFunc(filtered, func(a, b collection.Record[F]) int {
			ra, rb := schema.Rank(a.Fields), schema.Rank(b.Fields)
			switch {
			case ra < rb:
				return -1
			case ra > rb:
				return 1
			}
			return 0
		})
	}

	pageSize := p.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(filtered)
	totalPages := TotalPages(total, pageSize)
	page := Clamp(p.Page, totalPages)

	lo := (page - 1) * pageSize
	hi := min(lo+pageSize, total)
	rows := slices.Clone(filtered[lo:hi])

	return View[F]{
		Records:    rows,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
		Range:      ComputeRange(page, pageSize, len(rows)),
	}
}

// Memo caches the most recent View of a store.
type Memo[F any] struct {
	mu      sync.Mutex
	valid   bool
	version uint64
	params  Params
	view    View[F]
}

// View returns the View of store under p, recomputing only when the store
// has been mutated or p differs from the cached params.
func (m *Memo[F]) View(store *collection.Store[F], p Params) View[F] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.version == store.Version() && m.params.Equal(p) {
		return m.view
	}
	recs, version := store.Versioned()
	m.view = Derive(store.Schema(), recs, p)
	m.version = version
	m.params = p
	m.valid = true
	return m.view
}
