// Package collection holds the authoritative in-memory list of records for
// one admin domain (users, posts, reports, ...) and applies mutations to it.
//
// Records keep insertion order. Every mutation bumps the store version so
// memoized views derived from an older version are recomputed on next read,
// and every mutation is published to watchers after the store lock is
// released (watchers may read the store back).
package collection

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an operation references an id that is not in the store.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidTransition is returned when a status is not in the domain's enumeration.
	ErrInvalidTransition = errors.New("status not allowed for this domain")
	// ErrDuplicateID is returned when a restore or reload would break id uniqueness.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Record is one entity instance in a domain collection.
type Record[F any] struct {
	ID     string `json:"id"`
	Seq    int64  `json:"-"` // insertion position; only increases
	Fields F      `json:"fields"`
}

// EventKind identifies the kind of mutation published to watchers.
type EventKind int

const (
	Created EventKind = iota + 1
	Updated
	Removed
	Reloaded
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	case Reloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// Event describes a single applied mutation. ID is empty for Reloaded.
type Event struct {
	Kind EventKind
	ID   string
}

// Store is the in-memory collection for a single domain.
type Store[F any] struct {
	mu       sync.RWMutex
	schema   Schema[F]
	records  []Record[F]
	index    map[string]int
	seq      int64
	version  uint64
	watchers []func(Event)
	newID    func() string
}

// Option configures a Store.
type Option[F any] func(*Store[F])

// WithIDFunc overrides id generation (uuid by default).
func WithIDFunc[F any](fn func() string) Option[F] {
	return func(s *Store[F]) { s.newID = fn }
}

// New constructs an empty store for the given schema.
func New[F any](schema Schema[F], opts ...Option[F]) *Store[F] {
	s := &Store[F]{
		schema: schema,
		index:  make(map[string]int),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schema returns the domain schema this store was built with.
func (s *Store[F]) Schema() Schema[F] { return s.schema }

// Watch registers fn to be called after every applied mutation.
func (s *Store[F]) Watch(fn func(Event)) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

// Version returns a counter that changes on every mutation.
func (s *Store[F]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of records.
func (s *Store[F]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns a copy of all records in insertion order.
func (s *Store[F]) Snapshot() []Record[F] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record[F], len(s.records))
	copy(out, s.records)
	return out
}

// Versioned returns a snapshot together with the version it was taken at.
func (s *Store[F]) Versioned() ([]Record[F], uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record[F], len(s.records))
	copy(out, s.records)
	return out, s.version
}

// Get returns the record with the given id.
func (s *Store[F]) Get(id string) (Record[F], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Record[F]{}, false
	}
	return s.records[i], true
}

// Seed bulk-appends records at initialization time. It publishes a single
// Reloaded event rather than one Created event per record.
func (s *Store[F]) Seed(fields ...F) []Record[F] {
	s.mu.Lock()
	out := make([]Record[F], 0, len(fields))
	for _, f := range fields {
		out = append(out, s.appendLocked(s.newID(), f))
	}
	s.version++
	s.mu.Unlock()

	s.publish(Event{Kind: Reloaded})
	return out
}

// Create assigns a new id, appends the record and returns it.
func (s *Store[F]) Create(fields F) Record[F] {
	s.mu.Lock()
	rec := s.appendLocked(s.newID(), fields)
	s.version++
	s.mu.Unlock()

	s.publish(Event{Kind: Created, ID: rec.ID})
	return rec
}

// Update applies patch to the record's fields. The id is never touched and
// any field the patch does not assign keeps its value.
func (s *Store[F]) Update(id string, patch func(*F)) (Record[F], error) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return Record[F]{}, fmt.Errorf("update %s %q: %w", s.schema.Name, id, ErrNotFound)
	}
	f := s.records[i].Fields
	patch(&f)
	s.records[i].Fields = f
	rec := s.records[i]
	s.version++
	s.mu.Unlock()

	s.publish(Event{Kind: Updated, ID: id})
	return rec, nil
}

// SetStatus is Update restricted to the domain's status enumeration.
func (s *Store[F]) SetStatus(id, status string) (Record[F], error) {
	if s.schema.SetStatus == nil || !s.schema.ValidStatus(status) {
		return Record[F]{}, fmt.Errorf("set %s status %q: %w", s.schema.Name, status, ErrInvalidTransition)
	}
	return s.Update(id, func(f *F) { s.schema.SetStatus(f, status) })
}

// Remove deletes the record and returns it. Removing an absent id is an
// error so callers can detect double deletes.
func (s *Store[F]) Remove(id string) (Record[F], error) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return Record[F]{}, fmt.Errorf("remove %s %q: %w", s.schema.Name, id, ErrNotFound)
	}
	rec := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)
	s.reindexLocked()
	s.version++
	s.mu.Unlock()

	s.publish(Event{Kind: Removed, ID: id})
	return rec, nil
}

// RemoveWhere deletes every record matching pred and returns them in order.
func (s *Store[F]) RemoveWhere(pred func(Record[F]) bool) []Record[F] {
	s.mu.Lock()
	var removed []Record[F]
	kept := s.records[:0]
	for _, rec := range s.records {
		if pred(rec) {
			removed = append(removed, rec)
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	if len(removed) > 0 {
		s.reindexLocked()
		s.version++
	}
	s.mu.Unlock()

	for _, rec := range removed {
		s.publish(Event{Kind: Removed, ID: rec.ID})
	}
	return removed
}

// Restore re-inserts a previously removed record at its original position.
// It is used to roll back an optimistic delete.
func (s *Store[F]) Restore(rec Record[F]) error {
	s.mu.Lock()
	if _, exists := s.index[rec.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("restore %s %q: %w", s.schema.Name, rec.ID, ErrDuplicateID)
	}
	i := sort.Search(len(s.records), func(i int) bool { return s.records[i].Seq > rec.Seq })
	s.records = append(s.records, Record[F]{})
	copy(s.records[i+1:], s.records[i:])
	s.records[i] = rec
	if rec.Seq > s.seq {
		s.seq = rec.Seq
	}
	s.reindexLocked()
	s.version++
	s.mu.Unlock()

	s.publish(Event{Kind: Created, ID: rec.ID})
	return nil
}

// Reload replaces the whole collection, keeping the given order and ids.
// Duplicate ids are rejected and leave the store unchanged.
func (s *Store[F]) Reload(recs []Record[F]) error {
	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("reload %s %q: %w", s.schema.Name, r.ID, ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}
	}

	s.mu.Lock()
	s.records = make([]Record[F], 0, len(recs))
	clear(s.index)
	s.seq = 0
	for _, r := range recs {
		s.appendLocked(r.ID, r.Fields)
	}
	s.version++
	s.mu.Unlock()

	s.publish(Event{Kind: Reloaded})
	return nil
}

func (s *Store[F]) appendLocked(id string, fields F) Record[F] {
	s.seq++
	rec := Record[F]{ID: id, Seq: s.seq, Fields: fields}
	s.index[id] = len(s.records)
	s.records = append(s.records, rec)
	return rec
}

func (s *Store[F]) reindexLocked() {
	clear(s.index)
	for i, r := range s.records {
		s.index[r.ID] = i
	}
}

func (s *Store[F]) publish(ev Event) {
	s.mu.RLock()
	watchers := make([]func(Event), len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.RUnlock()

	for _, fn := range watchers {
		fn(ev)
	}
}
