package remote

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
)

// Memory is an in-process Client. It backs desks when no database is
// configured and lets tests script remote failures.
type Memory[F any] struct {
	mu      sync.Mutex
	records []collection.Record[F]
	fail    []error
}

// NewMemory returns a client holding a copy of recs.
func NewMemory[F any](recs ...collection.Record[F]) *Memory[F] {
	return &Memory[F]{records: slices.Clone(recs)}
}

// FailNext makes the next call return err. Calls queue in order.
func (m *Memory[F]) FailNext(err error) {
	m.mu.Lock()
	m.fail = append(m.fail, err)
	m.mu.Unlock()
}

func (m *Memory[F]) takeFailure() error {
	if len(m.fail) == 0 {
		return nil
	}
	err := m.fail[0]
	m.fail = m.fail[1:]
	return err
}

func (m *Memory[F]) find(id string) int {
	return slices.IndexFunc(m.records, func(r collection.Record[F]) bool { return r.ID == id })
}

func (m *Memory[F]) List(ctx context.Context) ([]collection.Record[F], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, Network(err)
	}
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	return slices.Clone(m.records), nil
}

func (m *Memory[F]) Create(ctx context.Context, rec collection.Record[F]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Network(err)
	}
	if err := m.takeFailure(); err != nil {
		return err
	}
	if m.find(rec.ID) >= 0 {
		return FromStatus(http.StatusUnprocessableEntity, "duplicate id")
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *Memory[F]) Update(ctx context.Context, rec collection.Record[F]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Network(err)
	}
	if err := m.takeFailure(); err != nil {
		return err
	}
	i := m.find(rec.ID)
	if i < 0 {
		return FromStatus(http.StatusNotFound, "record not found")
	}
	m.records[i].Fields = rec.Fields
	return nil
}

func (m *Memory[F]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Network(err)
	}
	if err := m.takeFailure(); err != nil {
		return err
	}
	i := m.find(id)
	if i < 0 {
		return FromStatus(http.StatusNotFound, "record not found")
	}
	m.records = slices.Delete(m.records, i, i+1)
	return nil
}

func (m *Memory[F]) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, Network(err)
	}
	return int64(len(m.records)), nil
}
