// Package listpage is the generic admin list page: a local collection
// store mirrored from a remote, the current query parameters, the open
// detail record, and the pending confirmation. Every domain page (users,
// posts, reports, contacts, deletions, waitlist) is a Page over its own
// fields type.
//
// Mutations are optimistic: the local store changes first, then the remote
// call runs, and a remote failure reverts the local change. Each completed
// mutation or failure produces exactly one notice.
package listpage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/confirm"
	"github.com/dalemusser/adminpanel/internal/app/system/metrics"
	"github.com/dalemusser/adminpanel/internal/app/system/normalize"
	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"github.com/dalemusser/adminpanel/internal/app/system/paging"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
	"github.com/dalemusser/adminpanel/internal/app/system/selection"
	"github.com/dalemusser/adminpanel/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Domain configures a Page for one admin domain.
type Domain[F any] struct {
	Schema collection.Schema[F]

	// Noun names one record in notices, e.g. "User".
	Noun string

	// Label returns the record's display name for notice descriptions.
	Label func(F) string

	// Clean normalizes and sanitizes fields before they are stored.
	Clean func(*F)

	// Prepare, when set, fills in a new record's fields from the records
	// already on the page (e.g. the next queue rank).
	Prepare func(existing []collection.Record[F], f *F)

	// DeletePrompt is shown while a delete awaits confirmation.
	DeletePrompt string

	// DefaultFilters preselects filter values on a fresh page.
	DefaultFilters map[string]string

	// ClosesOnStatus decides whether a status change made from the detail
	// view closes it. Nil closes on every status.
	ClosesOnStatus func(status string) bool

	// StatusNotice overrides the notice for a status change.
	StatusNotice func(f F, status string) notify.Notice

	// Optional overrides for the create, update and delete notices.
	CreatedNotice func(F) notify.Notice
	UpdatedNotice func(F) notify.Notice
	DeletedNotice func(F) notify.Notice
}

func (d Domain[F]) created(f F) notify.Notice {
	if d.CreatedNotice != nil {
		return d.CreatedNotice(f)
	}
	return notify.Success(d.Noun+" created successfully", d.label(f)+" has been added.")
}

func (d Domain[F]) updated(f F) notify.Notice {
	if d.UpdatedNotice != nil {
		return d.UpdatedNotice(f)
	}
	return notify.Success(d.Noun+" updated successfully", d.label(f)+" has been updated.")
}

func (d Domain[F]) deleted(f F) notify.Notice {
	if d.DeletedNotice != nil {
		return d.DeletedNotice(f)
	}
	return notify.Success(d.Noun+" deleted successfully", d.label(f)+" has been removed.")
}

func (d Domain[F]) label(f F) string {
	if d.Label == nil {
		return d.Noun
	}
	if s := d.Label(f); s != "" {
		return s
	}
	return d.Noun
}

// Pending describes an action awaiting confirmation.
type Pending struct {
	Action string `json:"action"`
	ID     string `json:"id"`
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// Page is one desk's state for one domain. All operations are serialized
// under the page mutex, so mutations apply in arrival order.
type Page[F any] struct {
	dom    Domain[F]
	store  *collection.Store[F]
	sel    *selection.Controller[F]
	gate   confirm.Gate[Pending]
	loader *remote.Loader[F]
	client remote.Client[F]
	notes  notify.Notifier
	log    *zap.Logger
	hooks  []func(Mutation)

	mu     sync.Mutex
	params paging.Params
	memo   paging.Memo[F]
}

// New builds a page over client. The store starts empty; call Load to
// fill it from the remote.
func New[F any](dom Domain[F], client remote.Client[F], notes notify.Notifier, pageSize int, logger *zap.Logger) *Page[F] {
	store := collection.New(dom.Schema)
	params := paging.NewParams(pageSize)
	for name, value := range dom.DefaultFilters {
		params = params.WithFilter(name, value)
	}
	return &Page[F]{
		dom:    dom,
		store:  store,
		sel:    selection.New(store),
		loader: remote.NewLoader(client, store),
		client: client,
		notes:  notes,
		log:    logger.With(zap.String("domain", dom.Schema.Name)),
		params: params,
	}
}

// Name returns the domain name.
func (p *Page[F]) Name() string { return p.dom.Schema.Name }

// Store exposes the local collection for read-only consumers.
func (p *Page[F]) Store() *collection.Store[F] { return p.store }

/*─────────────────────────────────────────────────────────────────────────────*
| Loading and views                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// Load reloads the store from the remote. A result overtaken by a newer
// load is discarded without a notice. The reload holds the page lock, so it
// never lands in the middle of a mutation.
func (p *Page[F]) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), p.log, p.Name()+" load")
	defer cancel()

	applied, err := p.loader.Load(ctx)
	if !applied {
		metrics.RecordDroppedLoad(p.Name())
		return nil
	}
	if err != nil {
		p.notes.Notify(notify.FromError(err))
		p.log.Warn("load failed", zap.String("op", "load"), zap.Error(err))
		return fmt.Errorf("load %s: %w", p.Name(), err)
	}
	return nil
}

// Params returns the current query parameters.
func (p *Page[F]) Params() paging.Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// SetParams replaces the query parameters.
func (p *Page[F]) SetParams(params paging.Params) {
	p.mu.Lock()
	p.params = params
	p.mu.Unlock()
}

// UpdateParams applies fn to the current parameters under the page lock.
func (p *Page[F]) UpdateParams(fn func(paging.Params) paging.Params) paging.Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.params = fn(p.params)
	return p.params
}

// View derives the visible page from the current store and parameters.
// The clamped page number is written back so later navigation starts from
// a valid page.
func (p *Page[F]) View() paging.View[F] {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.memo.View(p.store, p.params)
	p.params = p.params.WithPage(v.Page)
	return v
}

// Active returns the open detail record.
func (p *Page[F]) Active() (collection.Record[F], bool) {
	return p.sel.Active()
}

// Pending returns the action awaiting confirmation.
func (p *Page[F]) Pending() (Pending, bool) {
	return p.gate.Pending()
}

/*─────────────────────────────────────────────────────────────────────────────*
| Mutations                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Create stores a new record and sends it to the remote.
func (p *Page[F]) Create(ctx context.Context, fields F) (collection.Record[F], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dom.Prepare != nil {
		p.dom.Prepare(p.store.Snapshot(), &fields)
	}
	if p.dom.Clean != nil {
		p.dom.Clean(&fields)
	}
	if err := p.dom.Schema.Check(fields); err != nil {
		return collection.Record[F]{}, p.reject("create", "", err)
	}

	rec := p.store.Create(fields)
	if err := p.call(ctx, "create", func(ctx context.Context) error { return p.client.Create(ctx, rec) }); err != nil {
		if _, rerr := p.store.Remove(rec.ID); rerr != nil {
			p.log.Error("rollback failed", zap.String("op", "create"), zap.String("record_id", rec.ID), zap.Error(rerr))
		}
		return collection.Record[F]{}, p.rollback("create", rec.ID, err)
	}

	p.succeed("create", rec.ID, p.dom.created(rec.Fields))
	return rec, nil
}

// Update merges patch into the record and sends the result to the remote.
// patch may reject the change by returning an error.
func (p *Page[F]) Update(ctx context.Context, id string, patch func(*F) error) (collection.Record[F], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updateLocked(ctx, "update", id, patch, p.dom.updated)
}

// Patch applies patch to one record under op, reporting success with the
// notice built by success.
func (p *Page[F]) Patch(ctx context.Context, op, id string, patch func(*F) error, success func(F) notify.Notice) (collection.Record[F], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updateLocked(ctx, op, id, patch, success)
}

// SetStatus moves the record to status.
func (p *Page[F]) SetStatus(ctx context.Context, id, status string) (collection.Record[F], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setStatusLocked(ctx, id, status)
}

// CycleStatus moves the record to the status next derives from its
// current one.
func (p *Page[F]) CycleStatus(ctx context.Context, id string, next func(current string) string) (collection.Record[F], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.store.Get(id)
	if !ok || p.dom.Schema.Status == nil {
		err := fmt.Errorf("status %s %q: %w", p.Name(), id, collection.ErrNotFound)
		return collection.Record[F]{}, p.reject("status", id, err)
	}
	return p.setStatusLocked(ctx, id, next(p.dom.Schema.Status(rec.Fields)))
}

func (p *Page[F]) setStatusLocked(ctx context.Context, id, status string) (collection.Record[F], error) {
	status = normalize.Enum(status, p.dom.Schema.Statuses)
	if p.dom.Schema.SetStatus == nil || !p.dom.Schema.ValidStatus(status) {
		err := fmt.Errorf("set %s status %q: %w", p.Name(), status, collection.ErrInvalidTransition)
		return collection.Record[F]{}, p.reject("status", id, err)
	}
	return p.updateLocked(ctx, "status", id,
		func(f *F) error { p.dom.Schema.SetStatus(f, status); return nil },
		func(f F) notify.Notice {
			if p.dom.StatusNotice != nil {
				return p.dom.StatusNotice(f, status)
			}
			return notify.Success("Status updated", fmt.Sprintf("%s is now %s.", p.dom.label(f), status))
		})
}

func (p *Page[F]) updateLocked(ctx context.Context, op, id string, patch func(*F) error, success func(F) notify.Notice) (collection.Record[F], error) {
	prev, ok := p.store.Get(id)
	if !ok {
		err := fmt.Errorf("%s %s %q: %w", op, p.Name(), id, collection.ErrNotFound)
		return collection.Record[F]{}, p.reject(op, id, err)
	}

	next := prev.Fields
	if err := patch(&next); err != nil {
		return collection.Record[F]{}, p.reject(op, id, err)
	}
	if p.dom.Clean != nil {
		p.dom.Clean(&next)
	}
	if err := p.dom.Schema.Check(next); err != nil {
		return collection.Record[F]{}, p.reject(op, id, err)
	}

	updated, err := p.store.Update(id, func(f *F) { *f = next })
	if err != nil {
		return collection.Record[F]{}, p.reject(op, id, err)
	}
	if err := p.call(ctx, op, func(ctx context.Context) error { return p.client.Update(ctx, updated) }); err != nil {
		if _, rerr := p.store.Update(id, func(f *F) { *f = prev.Fields }); rerr != nil {
			p.log.Error("rollback failed", zap.String("op", op), zap.String("record_id", id), zap.Error(rerr))
		}
		return collection.Record[F]{}, p.rollback(op, id, err)
	}

	p.succeed(op, id, success(updated.Fields))
	return updated, nil
}

// Delete removes the record immediately. Interactive deletes go through
// RequestDelete and Confirm instead.
func (p *Page[F]) Delete(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deleteLocked(ctx, id)
}

func (p *Page[F]) deleteLocked(ctx context.Context, id string) error {
	removed, err := p.store.Remove(id)
	if err != nil {
		return p.reject("delete", id, err)
	}
	if err := p.call(ctx, "delete", func(ctx context.Context) error { return p.client.Delete(ctx, id) }); err != nil {
		if rerr := p.store.Restore(removed); rerr != nil {
			p.log.Error("rollback failed", zap.String("op", "delete"), zap.String("record_id", id), zap.Error(rerr))
		}
		return p.rollback("delete", id, err)
	}
	p.succeed("delete", id, p.dom.deleted(removed.Fields))
	return nil
}

// UpdateWhere applies patch to every record matching pred. Records whose
// remote update fails are reverted; the others keep the change.
func (p *Page[F]) UpdateWhere(ctx context.Context, op string, pred func(collection.Record[F]) bool, patch func(*F), success notify.Notice) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr, authErr error
	changed := 0
	for _, prev := range p.store.Snapshot() {
		if !pred(prev) {
			continue
		}
		updated, err := p.store.Update(prev.ID, patch)
		if err != nil {
			continue
		}
		err = p.call(ctx, op, func(ctx context.Context) error { return p.client.Update(ctx, updated) })
		if err != nil {
			if _, rerr := p.store.Update(prev.ID, func(f *F) { *f = prev.Fields }); rerr != nil {
				p.log.Error("rollback failed", zap.String("op", op), zap.String("record_id", prev.ID), zap.Error(rerr))
			}
			p.record(op, prev.ID, metrics.OutcomeRolledBack, err)
			if remote.IsAuth(err) {
				// Records after this one are never sent.
				authErr = err
				break
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		p.record(op, prev.ID, metrics.OutcomeOK, nil)
		changed++
	}
	return changed, p.finishBulk(op, changed, bulkErr(authErr, firstErr), success)
}

func (p *Page[F]) deleteWhereLocked(ctx context.Context, op string, pred func(collection.Record[F]) bool, success notify.Notice) (int, error) {
	removed := p.store.RemoveWhere(pred)

	var firstErr, authErr error
	deleted := 0
	for i, rec := range removed {
		err := p.call(ctx, op, func(ctx context.Context) error { return p.client.Delete(ctx, rec.ID) })
		if err != nil {
			p.restore(op, rec)
			p.record(op, rec.ID, metrics.OutcomeRolledBack, err)
			if remote.IsAuth(err) {
				// Records after this one are never sent; put them back.
				authErr = err
				for _, rest := range removed[i+1:] {
					p.restore(op, rest)
				}
				break
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		p.record(op, rec.ID, metrics.OutcomeOK, nil)
		deleted++
	}
	return deleted, p.finishBulk(op, deleted, bulkErr(authErr, firstErr), success)
}

func (p *Page[F]) restore(op string, rec collection.Record[F]) {
	if err := p.store.Restore(rec); err != nil {
		p.log.Error("rollback failed", zap.String("op", op), zap.String("record_id", rec.ID), zap.Error(err))
	}
}

// bulkErr reports an authentication failure ahead of any other error so
// the caller always ends the session.
func bulkErr(authErr, firstErr error) error {
	if authErr != nil {
		return authErr
	}
	return firstErr
}

func (p *Page[F]) finishBulk(op string, n int, err error, success notify.Notice) error {
	if err != nil {
		p.notes.Notify(notify.FromError(err))
		p.log.Warn("bulk mutation partially rolled back",
			zap.String("op", op), zap.Int("applied", n), zap.Error(err))
		return fmt.Errorf("%s %s: %w", op, p.Name(), err)
	}
	p.notes.Notify(success)
	p.log.Info("bulk mutation", zap.String("op", op), zap.Int("applied", n), zap.String("outcome", metrics.OutcomeOK))
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Detail view                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Open shows the record in the detail view. A status change implied by
// opening is sent to the remote and reverted if the remote rejects it.
func (p *Page[F]) Open(ctx context.Context, id string) (collection.Record[F], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev, _ := p.store.Get(id)
	rec, err := p.sel.Open(id)
	if err != nil {
		return collection.Record[F]{}, p.reject("open", id, err)
	}

	status := p.dom.Schema.Status
	if status == nil || status(prev.Fields) == status(rec.Fields) {
		return rec, nil
	}
	if err := p.call(ctx, "open", func(ctx context.Context) error { return p.client.Update(ctx, rec) }); err != nil {
		if _, rerr := p.store.Update(id, func(f *F) { *f = prev.Fields }); rerr != nil {
			p.log.Error("rollback failed", zap.String("op", "open"), zap.String("record_id", id), zap.Error(rerr))
		}
		// The detail stays open on the unchanged record.
		restored, _ := p.store.Get(id)
		return restored, p.rollback("open", id, err)
	}
	p.record("open", id, metrics.OutcomeOK, nil)
	return rec, nil
}

// Close hides the detail view. Closing with nothing open is a no-op.
func (p *Page[F]) Close() {
	p.sel.Close()
}

// SetActiveStatus changes the open record's status and, when the domain
// says so, closes the detail view.
func (p *Page[F]) SetActiveStatus(ctx context.Context, status string) (collection.Record[F], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out collection.Record[F]
	mutate := func(id string) error {
		rec, err := p.setStatusLocked(ctx, id, status)
		out = rec
		return err
	}

	if p.dom.ClosesOnStatus == nil || p.dom.ClosesOnStatus(status) {
		err := p.sel.MutateActiveAndClose(mutate)
		if errors.Is(err, selection.ErrNoActiveSelection) {
			p.log.Warn("status change with no open record", zap.String("op", "status"))
		}
		return out, err
	}

	id, ok := p.sel.ActiveID()
	if !ok {
		p.log.Warn("status change with no open record", zap.String("op", "status"))
		return out, selection.ErrNoActiveSelection
	}
	return out, mutate(id)
}

// MutateActiveAndClose runs fn on the open record's id while holding the page
// lock, then closes the detail view if fn succeeds.
func (p *Page[F]) MutateActiveAndClose(fn func(id string) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sel.MutateActiveAndClose(fn)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Confirmation                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// RequestDelete asks for confirmation before deleting the record. A newer
// request replaces any earlier one.
func (p *Page[F]) RequestDelete(id string) (Pending, error) {
	rec, ok := p.store.Get(id)
	if !ok {
		err := fmt.Errorf("delete %s %q: %w", p.Name(), id, collection.ErrNotFound)
		return Pending{}, p.reject("delete", id, err)
	}
	target := Pending{Action: "delete", ID: id, Label: p.dom.label(rec.Fields), Prompt: p.dom.DeletePrompt}
	p.gate.Request(target, func(ctx context.Context, t Pending) error {
		return p.deleteLocked(ctx, t.ID)
	})
	return target, nil
}

// RequestActiveDelete asks for confirmation before deleting the open record.
func (p *Page[F]) RequestActiveDelete() (Pending, error) {
	id, ok := p.sel.ActiveID()
	if !ok {
		p.log.Warn("delete with no open record", zap.String("op", "delete"))
		return Pending{}, selection.ErrNoActiveSelection
	}
	return p.RequestDelete(id)
}

// RequestDeleteWhere asks for confirmation before removing every record
// matching pred.
func (p *Page[F]) RequestDeleteWhere(target Pending, pred func(collection.Record[F]) bool, success notify.Notice) {
	p.gate.Request(target, func(ctx context.Context, t Pending) error {
		_, err := p.deleteWhereLocked(ctx, t.Action, pred, success)
		return err
	})
}

// Confirm runs the pending action. ran is false when nothing was pending.
func (p *Page[F]) Confirm(ctx context.Context) (ran bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gate.Confirm(ctx)
}

// Cancel discards the pending action.
func (p *Page[F]) Cancel() bool {
	return p.gate.Cancel()
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (p *Page[F]) call(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), p.log, p.Name()+" "+op)
	defer cancel()
	return fn(ctx)
}

// Reject reports an operation the caller refused before touching the
// store, with the same notice and metrics as the page's own checks.
func (p *Page[F]) Reject(op, id string, err error) error {
	return p.reject(op, id, err)
}

// reject reports a mutation refused before any state changed.
func (p *Page[F]) reject(op, id string, err error) error {
	p.record(op, id, metrics.OutcomeRejected, err)
	p.notes.Notify(notify.FromError(err))
	p.log.Info("mutation rejected",
		zap.String("op", op), zap.String("record_id", id),
		zap.String("outcome", metrics.OutcomeRejected), zap.Error(err))
	return err
}

// rollback reports a mutation reverted after the remote refused it.
func (p *Page[F]) rollback(op, id string, err error) error {
	p.record(op, id, metrics.OutcomeRolledBack, err)
	p.notes.Notify(notify.FromError(err))
	p.log.Warn("mutation rolled back",
		zap.String("op", op), zap.String("record_id", id),
		zap.String("outcome", metrics.OutcomeRolledBack), zap.Error(err))
	return fmt.Errorf("%s %s %q: %w", op, p.Name(), id, err)
}

func (p *Page[F]) succeed(op, id string, n notify.Notice) {
	p.record(op, id, metrics.OutcomeOK, nil)
	p.notes.Notify(n)
	p.log.Info("mutation",
		zap.String("op", op), zap.String("record_id", id),
		zap.String("outcome", metrics.OutcomeOK))
}

// Mutation is one per-record outcome reported to OnMutation hooks.
type Mutation struct {
	Domain   string
	Op       string
	RecordID string
	Outcome  string
	Err      error
}

// OnMutation registers fn to run after every per-record outcome. Hooks run
// under the page mutex.
func (p *Page[F]) OnMutation(fn func(Mutation)) {
	p.mu.Lock()
	p.hooks = append(p.hooks, fn)
	p.mu.Unlock()
}

func (p *Page[F]) record(op, id, outcome string, err error) {
	metrics.RecordMutation(p.Name(), op, outcome)
	for _, fn := range p.hooks {
		fn(Mutation{Domain: p.Name(), Op: op, RecordID: id, Outcome: outcome, Err: err})
	}
}
