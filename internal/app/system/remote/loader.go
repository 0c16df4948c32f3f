package remote

import (
	"context"
	"sync"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
)

// Loader reloads a store from its remote. Every load takes a ticket; a
// result is applied only if no newer ticket has been applied already, so
// overlapping loads resolve to the most recently issued one that finished.
type Loader[F any] struct {
	client Client[F]
	store  *collection.Store[F]

	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// NewLoader binds client to store.
func NewLoader[F any](client Client[F], store *collection.Store[F]) *Loader[F] {
	return &Loader[F]{client: client, store: store}
}

// Ticket issues the next sequence number.
func (l *Loader[F]) Ticket() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	return l.issued
}

// Load fetches the remote list under a fresh ticket and applies it.
// applied is false when a newer result had already been applied; in that
// case the result, including any error, is discarded.
func (l *Loader[F]) Load(ctx context.Context) (applied bool, err error) {
	ticket := l.Ticket()
	recs, err := l.client.List(ctx)
	return l.Apply(ticket, recs, err)
}

// Apply installs the result of the load that holds ticket.
func (l *Loader[F]) Apply(ticket uint64, recs []collection.Record[F], loadErr error) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ticket <= l.applied {
		return false, nil
	}
	if loadErr != nil {
		return true, loadErr
	}
	if err := l.store.Reload(recs); err != nil {
		return true, err
	}
	l.applied = ticket
	return true, nil
}
