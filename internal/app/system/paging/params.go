// internal/app/system/paging/params.go
package paging

import (
	"maps"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows shown when no page size is chosen.
const DefaultPageSize = 10

// MaxPageSize bounds the page size accepted from a request.
const MaxPageSize = 100

// PageSizes are the page sizes offered by the list pages.
var PageSizes = []int{10, 20, 30, 50}

// Params are the query parameters of one list page.
//
// Params is a value type. The With* methods return a modified copy and
// enforce the reset rule: changing the search text, any filter, or the page
// size moves the page back to 1.
type Params struct {
	Search   string            `json:"search"`
	Filters  map[string]string `json:"filters,omitempty"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// NewParams returns first-page params with the given page size.
func NewParams(pageSize int) Params {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return Params{Page: 1, PageSize: pageSize}
}

// Filter returns the selected value for name, or collection.FilterAll.
func (p Params) Filter(name string) string {
	if v, ok := p.Filters[name]; ok && v != "" {
		return v
	}
	return collection.FilterAll
}

// WithSearch sets the search text.
func (p Params) WithSearch(q string) Params {
	if q == p.Search {
		return p
	}
	p.Search = q
	p.Page = 1
	return p
}

// WithFilter selects value for the named filter. An empty value or
// collection.FilterAll clears the filter.
func (p Params) WithFilter(name, value string) Params {
	if value == "" {
		value = collection.FilterAll
	}
	if p.Filter(name) == value {
		return p
	}
	next := maps.Clone(p.Filters)
	if next == nil {
		next = make(map[string]string)
	}
	if value == collection.FilterAll {
		delete(next, name)
	} else {
		next[name] = value
	}
	p.Filters = next
	p.Page = 1
	return p
}

// WithPageSize sets the page size. Values below 1 select DefaultPageSize.
func (p Params) WithPageSize(n int) Params {
	if n < 1 {
		n = DefaultPageSize
	}
	if n == p.PageSize {
		return p
	}
	p.PageSize = n
	p.Page = 1
	return p
}

// WithPage moves to page n. It is not clamped here; Derive clamps against
// the current result size.
func (p Params) WithPage(n int) Params {
	p.Page = n
	return p
}

// Equal reports whether two params select the same view.
func (p Params) Equal(o Params) bool {
	if p.Search != o.Search || p.Page != o.Page || p.PageSize != o.PageSize {
		return false
	}
	return maps.Equal(active(p.Filters), active(o.Filters))
}

func active(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != "" && v != collection.FilterAll {
			out[k] = v
		}
	}
	return out
}

// Apply folds the request's query string into p, in the order search,
// filters, page size, page, so that an explicit page in the same request
// survives the reset caused by the other changes.
//
// Only parameters present in the request are applied; filterNames limits
// which filter keys are honoured.
func Apply(r *http.Request, p Params, filterNames []string) Params {
	values := r.URL.Query()
	if values.Has("search") {
		p = p.WithSearch(strings.TrimSpace(query.Get(r, "search")))
	}
	for _, name := range filterNames {
		if values.Has(name) {
			p = p.WithFilter(name, strings.TrimSpace(query.Get(r, name)))
		}
	}
	if n, ok := ParseInt(r, "page_size"); ok {
		p = p.WithPageSize(min(n, MaxPageSize))
	}
	if n, ok := ParseInt(r, "page"); ok {
		p = p.WithPage(n)
	}
	return p
}

// ParseInt extracts a positive integer query parameter.
// Returns ok=false if not present or invalid.
func ParseInt(r *http.Request, key string) (int, bool) {
	s := query.Get(r, key)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
