package confirm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/adminpanel/internal/app/system/confirm"
)

func TestConfirm_RunsActionOnce(t *testing.T) {
	var g confirm.Gate[string]
	calls := 0
	var got string
	g.Request("u1", func(_ context.Context, id string) error {
		calls++
		got = id
		return nil
	})

	if target, ok := g.Pending(); !ok || target != "u1" {
		t.Fatalf("Pending: got (%q, %v)", target, ok)
	}

	ran, err := g.Confirm(context.Background())
	if !ran || err != nil {
		t.Fatalf("Confirm: ran=%v err=%v", ran, err)
	}
	if calls != 1 || got != "u1" {
		t.Errorf("action calls=%d target=%q", calls, got)
	}

	ran, _ = g.Confirm(context.Background())
	if ran {
		t.Error("second Confirm ran the action again")
	}
	if calls != 1 {
		t.Errorf("action calls after second confirm: %d", calls)
	}
	if _, ok := g.Pending(); ok {
		t.Error("gate not idle after confirm")
	}
}

func TestCancel_DiscardsWithoutRunning(t *testing.T) {
	var g confirm.Gate[string]
	called := false
	g.Request("u1", func(context.Context, string) error { called = true; return nil })

	if !g.Cancel() {
		t.Error("Cancel reported nothing pending")
	}
	if called {
		t.Error("Cancel ran the action")
	}
	if ran, _ := g.Confirm(context.Background()); ran {
		t.Error("Confirm after Cancel ran an action")
	}
}

func TestIdleOperationsAreNoOps(t *testing.T) {
	var g confirm.Gate[int]
	if g.Cancel() {
		t.Error("Cancel on idle gate reported a request")
	}
	ran, err := g.Confirm(context.Background())
	if ran || err != nil {
		t.Errorf("Confirm on idle gate: ran=%v err=%v", ran, err)
	}
}

func TestRequest_LastRequestWins(t *testing.T) {
	var g confirm.Gate[string]
	var deleted []string
	del := func(_ context.Context, id string) error { deleted = append(deleted, id); return nil }

	g.Request("a", del)
	g.Request("b", del)

	if _, err := g.Confirm(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(deleted) != 1 || deleted[0] != "b" {
		t.Errorf("deleted: got %v, want [b]", deleted)
	}
}

func TestConfirm_PropagatesActionError(t *testing.T) {
	var g confirm.Gate[string]
	boom := errors.New("boom")
	g.Request("x", func(context.Context, string) error { return boom })

	ran, err := g.Confirm(context.Background())
	if !ran {
		t.Error("expected action to run")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if _, ok := g.Pending(); ok {
		t.Error("failed confirm left the gate pending")
	}
}
