// Package workspace holds the per-session page state of signed-in
// operators. Each session owns one Workspace (its "desk"); list pages and
// their stores live inside it and are created lazily on first use, so no
// page state exists for a request that has not passed sign-in.
package workspace

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/metrics"
	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"go.uber.org/zap"
)

type ctxKey string

const workspaceKey ctxKey = "workspace"

// Workspace is one session's desk.
type Workspace struct {
	SessionID string
	Email     string
	Notices   *notify.Queue

	mu       sync.Mutex
	pages    map[string]any
	lastSeen time.Time
}

func newWorkspace(id auth.Identity, now time.Time, logger *zap.Logger) *Workspace {
	return &Workspace{
		SessionID: id.SessionID,
		Email:     id.Email,
		Notices:   notify.NewQueue(logger.With(zap.String("session_id", id.SessionID))),
		pages:     make(map[string]any),
		lastSeen:  now,
	}
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

// LastSeen returns when the desk last served a request.
func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Has reports whether a page has been created under key.
func (w *Workspace) Has(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.pages[key]
	return ok
}

// Page returns the page stored under key, building it on first use. A
// failed build stores nothing so the next call retries.
func Page[P any](w *Workspace, key string, build func() (P, error)) (P, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if existing, ok := w.pages[key]; ok {
		p, ok := existing.(P)
		if !ok {
			var zero P
			return zero, fmt.Errorf("workspace page %q has type %T", key, existing)
		}
		return p, nil
	}
	p, err := build()
	if err != nil {
		var zero P
		return zero, err
	}
	w.pages[key] = p
	return p, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Registry                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Registry owns every live desk, keyed by session id.
type Registry struct {
	log *zap.Logger
	now func() time.Time

	mu      sync.Mutex
	desks   map[string]*Workspace
	onEvict []func(sessionID string)
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		log:   logger,
		now:   time.Now,
		desks: make(map[string]*Workspace),
	}
}

// OnEvict registers fn to run for each desk removed by Sweep.
func (r *Registry) OnEvict(fn func(sessionID string)) {
	r.mu.Lock()
	r.onEvict = append(r.onEvict, fn)
	r.mu.Unlock()
}

// Acquire returns the desk for id, creating it if needed, and marks it seen.
func (r *Registry) Acquire(id auth.Identity) *Workspace {
	now := r.now()
	r.mu.Lock()
	ws, ok := r.desks[id.SessionID]
	if !ok {
		ws = newWorkspace(id, now, r.log)
		r.desks[id.SessionID] = ws
		metrics.SetActiveDesks(len(r.desks))
	}
	r.mu.Unlock()

	if ok {
		ws.touch(now)
	} else {
		r.log.Debug("desk created", zap.String("session_id", id.SessionID), zap.String("email", id.Email))
	}
	return ws
}

// Lookup returns an existing desk without creating one.
func (r *Registry) Lookup(sessionID string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.desks[sessionID]
	return ws, ok
}

// Drop discards a desk. It reports whether one existed.
func (r *Registry) Drop(sessionID string) bool {
	r.mu.Lock()
	_, ok := r.desks[sessionID]
	delete(r.desks, sessionID)
	metrics.SetActiveDesks(len(r.desks))
	r.mu.Unlock()
	if ok {
		r.log.Debug("desk dropped", zap.String("session_id", sessionID))
	}
	return ok
}

// Len returns the number of live desks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.desks)
}

// Sweep drops desks idle for longer than idle and returns their session ids.
func (r *Registry) Sweep(idle time.Duration) []string {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var evicted []string
	for id, ws := range r.desks {
		if ws.LastSeen().Before(cutoff) {
			evicted = append(evicted, id)
			delete(r.desks, id)
		}
	}
	metrics.SetActiveDesks(len(r.desks))
	hooks := r.onEvict
	r.mu.Unlock()

	for _, id := range evicted {
		for _, fn := range hooks {
			fn(id)
		}
	}
	return evicted
}

// Middleware attaches the signed-in session's desk to the request. It must
// run after auth.RequireSignedIn; an anonymous request is redirected to
// sign in without creating any state.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id, ok := auth.CurrentIdentity(req)
		if !ok {
			auth.RedirectToSignIn(w, req)
			return
		}
		ws := r.Acquire(id)
		next.ServeHTTP(w, req.WithContext(WithWorkspace(req.Context(), ws)))
	})
}

// WithWorkspace returns a copy of ctx carrying ws.
func WithWorkspace(ctx context.Context, ws *Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey, ws)
}

// FromContext retrieves the desk attached by Middleware.
func FromContext(ctx context.Context) (*Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey).(*Workspace)
	return ws, ok
}
