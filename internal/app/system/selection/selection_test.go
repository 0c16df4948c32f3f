package selection_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/selection"
)

type message struct {
	Subject string
	Status  string
}

func messageSchema(withOpen bool) collection.Schema[message] {
	s := collection.Schema[message]{
		Name:      "messages",
		Statuses:  []string{"Unread", "Read", "Resolved"},
		Status:    func(f message) string { return f.Status },
		SetStatus: func(f *message, v string) { f.Status = v },
	}
	if withOpen {
		s.OnOpen = &collection.Transition{From: "Unread", To: "Read"}
	}
	return s
}

func TestOpen_AppliesOpenTransitionOnce(t *testing.T) {
	store := collection.New(messageSchema(true))
	rec := store.Create(message{Subject: "hi", Status: "Unread"})

	updates := 0
	store.Watch(func(ev collection.Event) {
		if ev.Kind == collection.Updated {
			updates++
		}
	})

	c := selection.New(store)
	got, err := c.Open(rec.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Fields.Status != "Read" {
		t.Errorf("status after open: got %q, want Read", got.Fields.Status)
	}

	// Reading the active record again must not transition again.
	if _, ok := c.Active(); !ok {
		t.Fatal("expected active record")
	}
	if _, err := c.Open(rec.ID); err != nil {
		t.Fatal(err)
	}
	if updates != 1 {
		t.Errorf("status updates: got %d, want 1", updates)
	}
}

func TestOpen_NoTransitionForOtherStates(t *testing.T) {
	store := collection.New(messageSchema(true))
	rec := store.Create(message{Status: "Resolved"})
	c := selection.New(store)

	got, err := c.Open(rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Fields.Status != "Resolved" {
		t.Errorf("status changed to %q", got.Fields.Status)
	}
}

func TestOpen_NoTransitionWithoutSchemaRule(t *testing.T) {
	store := collection.New(messageSchema(false))
	rec := store.Create(message{Status: "Unread"})
	c := selection.New(store)

	got, _ := c.Open(rec.ID)
	if got.Fields.Status != "Unread" {
		t.Errorf("status changed to %q", got.Fields.Status)
	}
}

func TestOpen_Missing(t *testing.T) {
	c := selection.New(collection.New(messageSchema(true)))
	if _, err := c.Open("nope"); !errors.Is(err, collection.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok := c.ActiveID(); ok {
		t.Error("failed open left a selection")
	}
}

func TestClose_IsIdempotent(t *testing.T) {
	c := selection.New(collection.New(messageSchema(false)))
	c.Close()
	c.Close()
	if _, ok := c.ActiveID(); ok {
		t.Error("expected no selection")
	}
}

func TestRemovingActiveClearsSelection(t *testing.T) {
	store := collection.New(messageSchema(false))
	keep := store.Create(message{Subject: "keep"})
	gone := store.Create(message{Subject: "gone"})
	c := selection.New(store)

	if _, err := c.Open(gone.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Remove(keep.ID); err != nil {
		t.Fatal(err)
	}
	if id, _ := c.ActiveID(); id != gone.ID {
		t.Fatalf("removing another record cleared selection")
	}

	if _, err := store.Remove(gone.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.ActiveID(); ok {
		t.Error("selection still set after its record was removed")
	}
	if _, ok := c.Active(); ok {
		t.Error("Active returned a removed record")
	}
}

func TestReloadWithoutActiveClearsSelection(t *testing.T) {
	store := collection.New(messageSchema(false))
	rec := store.Create(message{})
	c := selection.New(store)
	_, _ = c.Open(rec.ID)

	if err := store.Reload(nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.ActiveID(); ok {
		t.Error("selection survived a reload that dropped its record")
	}
}

func TestMutateActiveAndClose(t *testing.T) {
	store := collection.New(messageSchema(false))
	rec := store.Create(message{Status: "Unread"})
	c := selection.New(store)

	err := c.MutateActiveAndClose(func(string) error { return nil })
	if !errors.Is(err, selection.ErrNoActiveSelection) {
		t.Fatalf("expected ErrNoActiveSelection, got %v", err)
	}

	_, _ = c.Open(rec.ID)
	err = c.MutateActiveAndClose(func(id string) error {
		_, err := store.SetStatus(id, "Resolved")
		return err
	})
	if err != nil {
		t.Fatalf("MutateActiveAndClose: %v", err)
	}
	if _, ok := c.ActiveID(); ok {
		t.Error("expected selection closed")
	}
	got, _ := store.Get(rec.ID)
	if got.Fields.Status != "Resolved" {
		t.Errorf("status: got %q", got.Fields.Status)
	}
}

func TestMutateActiveAndClose_FailureKeepsSelection(t *testing.T) {
	store := collection.New(messageSchema(false))
	rec := store.Create(message{Status: "Unread"})
	c := selection.New(store)
	_, _ = c.Open(rec.ID)

	err := c.MutateActiveAndClose(func(id string) error {
		_, err := store.SetStatus(id, "Frobnicated")
		return err
	})
	if !errors.Is(err, collection.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, ok := c.ActiveID(); !ok {
		t.Error("failed mutation closed the detail view")
	}
}

func TestMutateActiveAndClose_DeleteClearsViaWatcher(t *testing.T) {
	store := collection.New(messageSchema(false))
	rec := store.Create(message{})
	c := selection.New(store)
	_, _ = c.Open(rec.ID)

	err := c.MutateActiveAndClose(func(id string) error {
		_, err := store.Remove(id)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if store.Len() != 0 {
		t.Error("record not removed")
	}
}
