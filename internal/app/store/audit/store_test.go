package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/store/audit"
	"github.com/dalemusser/adminpanel/internal/testutil"
)

func TestStore_LogAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := audit.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	base := time.Now().UTC().Truncate(time.Millisecond)
	events := []audit.Event{
		{Timestamp: base.Add(-3 * time.Minute), Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Actor: "admin@x.io", Success: true},
		{Timestamp: base.Add(-2 * time.Minute), Category: audit.CategoryAdmin, EventType: audit.EventMutation, Actor: "admin@x.io", Domain: "users", Op: "create", RecordID: "u1", Outcome: "ok", Success: true},
		{Timestamp: base.Add(-1 * time.Minute), Category: audit.CategoryAdmin, EventType: audit.EventMutation, Actor: "admin@x.io", Domain: "posts", Op: "delete", RecordID: "p1", Outcome: "rolled_back", FailureReason: "server error"},
		{Timestamp: base, Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, Actor: "who@x.io"},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	recent, err := store.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(recent) != 2 || recent[0].EventType != audit.EventLoginFailedWrongPassword || recent[1].Domain != "posts" {
		t.Errorf("GetRecent order wrong: %+v", recent)
	}

	tests := []struct {
		name   string
		filter audit.QueryFilter
		want   int64
	}{
		{"all", audit.QueryFilter{}, 4},
		{"admin only", audit.QueryFilter{Category: audit.CategoryAdmin}, 2},
		{"by domain", audit.QueryFilter{Domain: "users"}, 1},
		{"by actor", audit.QueryFilter{Actor: "who@x.io"}, 1},
		{"since", audit.QueryFilter{StartTime: ptr(base.Add(-90 * time.Second))}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := store.CountByFilter(ctx, tt.filter)
			if err != nil {
				t.Fatalf("CountByFilter: %v", err)
			}
			if n != tt.want {
				t.Errorf("count = %d, want %d", n, tt.want)
			}
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if int64(len(got)) != tt.want {
				t.Errorf("query returned %d events, want %d", len(got), tt.want)
			}
		})
	}

	failed, err := store.GetFailedLogins(ctx, base.Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("GetFailedLogins: %v", err)
	}
	if len(failed) != 1 || failed[0].Actor != "who@x.io" {
		t.Errorf("failed logins = %+v", failed)
	}
}

func ptr[T any](v T) *T { return &v }
