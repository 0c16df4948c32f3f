// Package confirm implements a two-step gate for destructive actions.
//
// A request binds a target and the action to run on it. Nothing happens
// until Confirm; Cancel discards the request. A newer request replaces an
// older one that was never resolved.
package confirm

import (
	"context"
	"sync"
)

// Gate holds at most one pending request for a target of type T.
type Gate[T any] struct {
	mu      sync.Mutex
	pending *request[T]
}

type request[T any] struct {
	target T
	action func(context.Context, T) error
}

// Request records target and the action that Confirm will run on it.
// An earlier unresolved request is replaced.
func (g *Gate[T]) Request(target T, action func(context.Context, T) error) {
	g.mu.Lock()
	g.pending = &request[T]{target: target, action: action}
	g.mu.Unlock()
}

// Pending reports the target awaiting confirmation.
func (g *Gate[T]) Pending() (T, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		var zero T
		return zero, false
	}
	return g.pending.target, true
}

// Confirm runs the pending action exactly once with ctx and returns the
// gate to idle. ran is false when nothing was pending.
func (g *Gate[T]) Confirm(ctx context.Context) (ran bool, err error) {
	g.mu.Lock()
	req := g.pending
	g.pending = nil
	g.mu.Unlock()

	if req == nil {
		return false, nil
	}
	if req.action == nil {
		return true, nil
	}
	return true, req.action(ctx, req.target)
}

// Cancel discards the pending request. It reports whether one existed.
func (g *Gate[T]) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	had := g.pending != nil
	g.pending = nil
	return had
}
