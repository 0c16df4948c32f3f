// Package selection tracks which single record of a list page is open in
// the detail panel.
//
// The controller watches its store: when the active record is removed by
// any path (row action, detail action, bulk removal, reload) the selection
// is cleared so it never points at a record that no longer exists.
package selection

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
)

// ErrNoActiveSelection is returned when a detail mutation is requested with
// nothing open. It indicates a programming error, not a user error.
var ErrNoActiveSelection = errors.New("no active selection")

// Controller manages the "currently open detail view" of one store.
type Controller[F any] struct {
	store *collection.Store[F]

	mu     sync.Mutex
	active string
}

// New returns a controller bound to store.
func New[F any](store *collection.Store[F]) *Controller[F] {
	c := &Controller[F]{store: store}
	store.Watch(c.observe)
	return c
}

func (c *Controller[F]) observe(ev collection.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == "" {
		return
	}
	switch ev.Kind {
	case collection.Removed:
		if ev.ID == c.active {
			c.active = ""
		}
	case collection.Reloaded:
		if _, ok := c.store.Get(c.active); !ok {
			c.active = ""
		}
	}
}

// Open makes the record with the given id active and returns it. When the
// domain defines an open transition and the record is in its From state,
// the status is moved to To exactly once, as part of opening.
func (c *Controller[F]) Open(id string) (collection.Record[F], error) {
	rec, ok := c.store.Get(id)
	if !ok {
		return collection.Record[F]{}, fmt.Errorf("open %q: %w", id, collection.ErrNotFound)
	}

	schema := c.store.Schema()
	if t := schema.OnOpen; t != nil && schema.Status != nil && schema.Status(rec.Fields) == t.From {
		updated, err := c.store.SetStatus(id, t.To)
		if err != nil {
			return collection.Record[F]{}, fmt.Errorf("open %q: %w", id, err)
		}
		rec = updated
	}

	c.mu.Lock()
	c.active = id
	c.mu.Unlock()
	return rec, nil
}

// Close clears the selection. Closing with nothing open is a no-op.
func (c *Controller[F]) Close() {
	c.mu.Lock()
	c.active = ""
	c.mu.Unlock()
}

// ActiveID returns the id of the open record.
func (c *Controller[F]) ActiveID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.active != ""
}

// Active returns the current state of the open record.
func (c *Controller[F]) Active() (collection.Record[F], bool) {
	id, ok := c.ActiveID()
	if !ok {
		return collection.Record[F]{}, false
	}
	return c.store.Get(id)
}

// MutateActiveAndClose applies mutate to the open record and then closes
// the detail view. The view is closed only when mutate succeeds.
func (c *Controller[F]) MutateActiveAndClose(mutate func(id string) error) error {
	id, ok := c.ActiveID()
	if !ok {
		return ErrNoActiveSelection
	}
	if err := mutate(id); err != nil {
		return err
	}
	c.Close()
	return nil
}
