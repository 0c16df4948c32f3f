package remote_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   remote.Kind
	}{
		{http.StatusUnauthorized, remote.KindAuth},
		{http.StatusForbidden, remote.KindPermission},
		{http.StatusNotFound, remote.KindNotFound},
		{http.StatusUnprocessableEntity, remote.KindValidation},
		{http.StatusInternalServerError, remote.KindServer},
		{http.StatusBadGateway, remote.KindServer},
		{http.StatusBadRequest, remote.KindOther},
		{http.StatusConflict, remote.KindOther},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := remote.FromStatus(tt.status, "msg")
			if err.Kind != tt.want {
				t.Errorf("FromStatus(%d).Kind = %v, want %v", tt.status, err.Kind, tt.want)
			}
		})
	}
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("delete user: %w", remote.FromStatus(http.StatusUnauthorized, ""))
	if !remote.IsAuth(err) {
		t.Error("IsAuth lost the kind through wrapping")
	}
	if _, ok := remote.KindOf(errors.New("plain")); ok {
		t.Error("KindOf matched a non-remote error")
	}

	netErr := remote.Network(context.DeadlineExceeded)
	if !errors.Is(netErr, context.DeadlineExceeded) {
		t.Error("Network error does not unwrap to its cause")
	}
	if k, _ := remote.KindOf(netErr); k != remote.KindNetwork {
		t.Errorf("kind: got %v", k)
	}
}

type row struct{ N int }

func schema() collection.Schema[row] { return collection.Schema[row]{Name: "rows"} }

func recs(ids ...string) []collection.Record[row] {
	out := make([]collection.Record[row], len(ids))
	for i, id := range ids {
		out[i] = collection.Record[row]{ID: id, Fields: row{N: i}}
	}
	return out
}

func ids(s *collection.Store[row]) []string {
	var out []string
	for _, r := range s.Snapshot() {
		out = append(out, r.ID)
	}
	return out
}

func TestLoader_StaleResultIsDropped(t *testing.T) {
	store := collection.New(schema())
	l := remote.NewLoader[row](remote.NewMemory[row](), store)

	older := l.Ticket()
	newer := l.Ticket()

	if applied, err := l.Apply(newer, recs("new"), nil); !applied || err != nil {
		t.Fatalf("newer: applied=%v err=%v", applied, err)
	}
	applied, err := l.Apply(older, recs("old-1", "old-2"), nil)
	if applied || err != nil {
		t.Fatalf("older: applied=%v err=%v", applied, err)
	}
	if got := ids(store); len(got) != 1 || got[0] != "new" {
		t.Errorf("store: got %v, want [new]", got)
	}
}

func TestLoader_InOrderResultsBothApply(t *testing.T) {
	store := collection.New(schema())
	l := remote.NewLoader[row](remote.NewMemory[row](), store)

	first, second := l.Ticket(), l.Ticket()
	if ok, _ := l.Apply(first, recs("a"), nil); !ok {
		t.Fatal("first not applied")
	}
	if ok, _ := l.Apply(second, recs("b", "c"), nil); !ok {
		t.Fatal("second not applied")
	}
	if got := ids(store); len(got) != 2 {
		t.Errorf("store: got %v", got)
	}
}

func TestLoader_StaleErrorIsDropped(t *testing.T) {
	store := collection.New(schema())
	l := remote.NewLoader[row](remote.NewMemory[row](), store)

	older, newer := l.Ticket(), l.Ticket()
	_, _ = l.Apply(newer, recs("x"), nil)
	applied, err := l.Apply(older, nil, remote.FromStatus(500, "boom"))
	if applied || err != nil {
		t.Errorf("stale failure surfaced: applied=%v err=%v", applied, err)
	}
}

func TestLoader_Load(t *testing.T) {
	mem := remote.NewMemory(recs("a", "b", "c")...)
	store := collection.New(schema())
	l := remote.NewLoader[row](mem, store)

	applied, err := l.Load(context.Background())
	if !applied || err != nil {
		t.Fatalf("Load: applied=%v err=%v", applied, err)
	}
	if store.Len() != 3 {
		t.Errorf("store len: got %d", store.Len())
	}

	mem.FailNext(remote.FromStatus(http.StatusForbidden, ""))
	_, err = l.Load(context.Background())
	var re *remote.Error
	if !errors.As(err, &re) || re.Kind != remote.KindPermission {
		t.Fatalf("expected permission error, got %v", err)
	}
	if store.Len() != 3 {
		t.Error("failed load changed the store")
	}
}

func TestMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	mem := remote.NewMemory[row]()

	if err := mem.Create(ctx, collection.Record[row]{ID: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := mem.Create(ctx, collection.Record[row]{ID: "1"}); err == nil {
		t.Error("duplicate create accepted")
	}
	if err := mem.Update(ctx, collection.Record[row]{ID: "1", Fields: row{N: 9}}); err != nil {
		t.Fatal(err)
	}
	list, _ := mem.List(ctx)
	if len(list) != 1 || list[0].Fields.N != 9 {
		t.Errorf("list: %+v", list)
	}
	if err := mem.Delete(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	err := mem.Delete(ctx, "1")
	if k, _ := remote.KindOf(err); k != remote.KindNotFound {
		t.Errorf("second delete: %v", err)
	}
	if n, _ := mem.Count(ctx); n != 0 {
		t.Errorf("count: %d", n)
	}
}

func TestMemory_CancelledContextIsNetworkError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := remote.NewMemory[row]().List(ctx)
	if k, _ := remote.KindOf(err); k != remote.KindNetwork {
		t.Errorf("got %v", err)
	}
}
