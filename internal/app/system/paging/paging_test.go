package paging

import (
	"fmt"
	"math/rand/v2"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
)

type person struct {
	Name   string
	Email  string
	Status string
	Role   string
	Rank   int
}

func personSchema() collection.Schema[person] {
	return collection.Schema[person]{
		Name:       "people",
		Statuses:   []string{"Active", "Inactive"},
		Status:     func(f person) string { return f.Status },
		SetStatus:  func(f *person, s string) { f.Status = s },
		Searchable: func(f person) []string { return []string{f.Name, f.Email} },
		Filters: map[string]func(person) string{
			"status": func(f person) string { return f.Status },
			"role":   func(f person) string { return f.Role },
		},
	}
}

func newPeople(n int) *collection.Store[person] {
	s := collection.New(personSchema())
	roles := []string{"Admin", "Editor", "User"}
	for i := 1; i <= n; i++ {
		status := "Active"
		if i%3 == 0 {
			status = "Inactive"
		}
		s.Create(person{
			Name:   fmt.Sprintf("User %d", i),
			Email:  fmt.Sprintf("user%d@example.com", i),
			Status: status,
			Role:   roles[i%len(roles)],
		})
	}
	return s
}

func TestDerive_ClampsOutOfRangePage(t *testing.T) {
	s := newPeople(50)
	p := NewParams(10).WithPage(7)

	v := Derive(s.Schema(), s.Snapshot(), p)

	if v.TotalPages != 5 {
		t.Errorf("TotalPages: got %d, want 5", v.TotalPages)
	}
	if v.Page != 5 {
		t.Errorf("Page: got %d, want 5", v.Page)
	}
	if len(v.Records) != 10 {
		t.Fatalf("rows: got %d, want 10", len(v.Records))
	}
	if v.Records[0].Fields.Name != "User 41" || v.Records[9].Fields.Name != "User 50" {
		t.Errorf("window: got %q..%q, want User 41..User 50", v.Records[0].Fields.Name, v.Records[9].Fields.Name)
	}
	if v.Range != (Range{Start: 41, End: 50}) {
		t.Errorf("Range: got %+v", v.Range)
	}
}

func TestDerive_PageBelowOne(t *testing.T) {
	s := newPeople(5)
	v := Derive(s.Schema(), s.Snapshot(), NewParams(10).WithPage(-3))
	if v.Page != 1 || len(v.Records) != 5 {
		t.Errorf("got page %d with %d rows", v.Page, len(v.Records))
	}
}

func TestDerive_SearchFindsSingleRecord(t *testing.T) {
	s := newPeople(10)
	s.Create(person{Name: "Alice Smith", Email: "asmith@example.com", Status: "Active"})

	v := Derive(s.Schema(), s.Snapshot(), NewParams(10).WithSearch("alice"))

	if v.Total != 1 {
		t.Fatalf("Total: got %d, want 1", v.Total)
	}
	if v.Records[0].Fields.Name != "Alice Smith" {
		t.Errorf("got %q", v.Records[0].Fields.Name)
	}
}

func TestDerive_EmptyResult(t *testing.T) {
	s := newPeople(10)
	v := Derive(s.Schema(), s.Snapshot(), NewParams(10).WithSearch("nobody").WithPage(4))

	if v.Total != 0 || v.TotalPages != 1 || v.Page != 1 || len(v.Records) != 0 {
		t.Errorf("empty view: %+v", v)
	}
	if v.Range != (Range{}) {
		t.Errorf("Range: got %+v, want zero", v.Range)
	}
}

func TestDerive_PageSizeChangeClampsBeforeSlicing(t *testing.T) {
	s := newPeople(25)
	// Page 3 of size 10 is valid; page 3 of size 20 is not.
	p := Params{Page: 3, PageSize: 20}
	v := Derive(s.Schema(), s.Snapshot(), p)
	if v.Page != 2 {
		t.Fatalf("Page: got %d, want 2", v.Page)
	}
	if len(v.Records) != 5 || v.Records[0].Fields.Name != "User 21" {
		t.Errorf("unexpected window: %d rows starting %q", len(v.Records), v.Records[0].Fields.Name)
	}
}

func TestDerive_FilterAllIsIgnored(t *testing.T) {
	s := newPeople(9)
	p := NewParams(50)
	p.Filters = map[string]string{"status": collection.FilterAll, "unknown": "x"}
	v := Derive(s.Schema(), s.Snapshot(), p)
	if v.Total != 9 {
		t.Errorf("Total: got %d, want 9", v.Total)
	}
}

func TestDerive_RankOrdering(t *testing.T) {
	schema := personSchema()
	schema.Rank = func(f person) int { return f.Rank }
	s := collection.New(schema)
	s.Create(person{Name: "c", Rank: 3})
	s.Create(person{Name: "a1", Rank: 1})
	s.Create(person{Name: "b", Rank: 2})
	s.Create(person{Name: "a2", Rank: 1})

	v := Derive(schema, s.Snapshot(), NewParams(10))
	var got []string
	for _, r := range v.Records {
		got = append(got, r.Fields.Name)
	}
	want := []string{"a1", "a2", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order: got %v, want %v", got, want)
	}
}

func TestDerive_InsertionOrderWithoutRank(t *testing.T) {
	s := collection.New(personSchema())
	s.Create(person{Name: "z"})
	s.Create(person{Name: "a"})
	v := Derive(s.Schema(), s.Snapshot(), NewParams(10))
	if v.Records[0].Fields.Name != "z" || v.Records[1].Fields.Name != "a" {
		t.Errorf("insertion order not preserved")
	}
}

func TestDerive_ReflectsStatusChange(t *testing.T) {
	s := newPeople(3)
	first := s.Snapshot()[0]
	if _, err := s.SetStatus(first.ID, "Inactive"); err != nil {
		t.Fatal(err)
	}
	v := Derive(s.Schema(), s.Snapshot(), NewParams(10).WithFilter("status", "Inactive"))
	found := false
	for _, r := range v.Records {
		if r.ID == first.ID {
			found = true
		}
	}
	if !found {
		t.Error("status change not reflected on next query")
	}
}

func randomParams(rng *rand.Rand) Params {
	statuses := []string{"All", "Active", "Inactive"}
	roles := []string{"All", "Admin", "Editor", "User"}
	queries := []string{"", "user 1", "USER", "example", "@", "nomatch", "2"}
	return NewParams(1+rng.IntN(15)).
		WithSearch(queries[rng.IntN(len(queries))]).
		WithFilter("status", statuses[rng.IntN(len(statuses))]).
		WithFilter("role", roles[rng.IntN(len(roles))]).
		WithPage(rng.IntN(12) - 2)
}

func TestDerive_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	s := newPeople(47)
	schema := s.Schema()
	recs := s.Snapshot()

	for i := 0; i < 200; i++ {
		p := randomParams(rng)
		v := Derive(schema, recs, p)

		// Pagination bounds.
		want := (v.Total + v.PageSize - 1) / v.PageSize
		if want == 0 {
			want = 1
		}
		if v.TotalPages != want {
			t.Fatalf("%+v: TotalPages %d, want %d", p, v.TotalPages, want)
		}
		if v.Page < 1 || v.Page > v.TotalPages {
			t.Fatalf("%+v: page %d outside [1,%d]", p, v.Page, v.TotalPages)
		}

		// Soundness: everything shown matches.
		for _, r := range v.Records {
			if !Matches(schema, r, p) {
				t.Fatalf("%+v: %q shown but does not match", p, r.Fields.Name)
			}
		}

		// Completeness: the total counts every matching record.
		matching := 0
		for _, r := range recs {
			if Matches(schema, r, p) {
				matching++
			}
		}
		if matching != v.Total {
			t.Fatalf("%+v: Total %d, matching %d", p, v.Total, matching)
		}

		// Idempotence.
		if again := Derive(schema, recs, p); !reflect.DeepEqual(v, again) {
			t.Fatalf("%+v: derive not idempotent", p)
		}
	}
}

func TestParams_ResetRule(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	p := NewParams(10)

	for i := 0; i < 40; i++ {
		p = p.WithPage(2 + rng.IntN(9))
		var changed bool
		switch rng.IntN(3) {
		case 0:
			q := fmt.Sprintf("q%d", i)
			changed = q != p.Search
			p = p.WithSearch(q)
		case 1:
			v := []string{"Active", "Inactive"}[i%2]
			changed = p.Filter("status") != v
			p = p.WithFilter("status", v)
		case 2:
			n := PageSizes[i%len(PageSizes)]
			changed = n != p.PageSize
			p = p.WithPageSize(n)
		}
		if changed && p.Page != 1 {
			t.Fatalf("step %d: page %d after a change, want 1", i, p.Page)
		}
	}
}

func TestParams_NoResetWithoutChange(t *testing.T) {
	p := NewParams(10).WithSearch("a").WithPage(3)
	if got := p.WithSearch("a").Page; got != 3 {
		t.Errorf("same search reset page to %d", got)
	}
	if got := p.WithPageSize(10).Page; got != 3 {
		t.Errorf("same page size reset page to %d", got)
	}
	if got := p.WithFilter("status", "All").Page; got != 3 {
		t.Errorf("clearing an unset filter reset page to %d", got)
	}
}

func TestParams_WithFilterDoesNotAlias(t *testing.T) {
	a := NewParams(10).WithFilter("status", "Active")
	b := a.WithFilter("status", "Inactive")
	if a.Filter("status") != "Active" || b.Filter("status") != "Inactive" {
		t.Errorf("filters aliased: a=%q b=%q", a.Filter("status"), b.Filter("status"))
	}
}

func TestApply(t *testing.T) {
	base := NewParams(10).WithPage(4)
	r := httptest.NewRequest("GET", "/?search=alice&status=Active&role=&page_size=500&page=2&bogus=1", nil)

	p := Apply(r, base, []string{"status", "role"})

	if p.Search != "alice" || p.Filter("status") != "Active" || p.Filter("role") != collection.FilterAll {
		t.Errorf("unexpected params: %+v", p)
	}
	if p.PageSize != MaxPageSize {
		t.Errorf("PageSize: got %d, want %d", p.PageSize, MaxPageSize)
	}
	if p.Page != 2 {
		t.Errorf("explicit page lost: got %d", p.Page)
	}
}

func TestApply_ChangeWithoutPageResets(t *testing.T) {
	base := NewParams(10).WithPage(4)
	r := httptest.NewRequest("GET", "/?search=bob", nil)
	if p := Apply(r, base, nil); p.Page != 1 {
		t.Errorf("Page: got %d, want 1", p.Page)
	}
	r = httptest.NewRequest("GET", "/", nil)
	if p := Apply(r, base, nil); p.Page != 4 {
		t.Errorf("empty request changed page to %d", p.Page)
	}
}

func TestMemo(t *testing.T) {
	s := newPeople(12)
	var m Memo[person]
	p := NewParams(5)

	v1 := m.View(s, p)
	v2 := m.View(s, p)
	if !reflect.DeepEqual(v1, v2) {
		t.Fatal("memo returned different views for identical inputs")
	}

	s.Create(person{Name: "Late"})
	v3 := m.View(s, p.WithPageSize(50))
	if v3.Total != 13 {
		t.Errorf("memo not invalidated by mutation: total %d", v3.Total)
	}
}

func TestComputeRange(t *testing.T) {
	tests := []struct {
		page, size, shown int
		want              Range
	}{
		{1, 10, 10, Range{1, 10}},
		{2, 10, 3, Range{11, 13}},
		{1, 10, 0, Range{}},
	}
	for _, tc := range tests {
		if got := ComputeRange(tc.page, tc.size, tc.shown); got != tc.want {
			t.Errorf("ComputeRange(%d,%d,%d) = %+v, want %+v", tc.page, tc.size, tc.shown, got, tc.want)
		}
	}
}
