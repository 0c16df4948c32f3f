package auth

import (
	"errors"
	"maps"
	"sync"
)

// Intent is the navigation decision for a route.
type Intent int

const (
	Proceed Intent = iota
	RedirectToLogin
	RedirectToAdmin
)

func (i Intent) String() string {
	switch i {
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToAdmin:
		return "redirect_to_admin"
	default:
		return "proceed"
	}
}

// Decide maps authentication state and route kind to an intent. Protected
// routes need a session; the public auth pages bounce signed-in users to
// the admin area.
func Decide(authenticated, protected bool) Intent {
	switch {
	case protected && !authenticated:
		return RedirectToLogin
	case !protected && authenticated:
		return RedirectToAdmin
	default:
		return Proceed
	}
}

// ErrMissingCredentials is returned by Login when identity or token is empty.
var ErrMissingCredentials = errors.New("identity and token are both required")

const (
	keyIdentity = "identity"
	keyToken    = "token"
)

// Persister stores the session as an opaque set of key/value pairs.
// Store with an empty map erases it.
type Persister interface {
	Load() (map[string]string, error)
	Store(values map[string]string) error
}

// Gate is the session state machine: Unauthenticated or Authenticated.
// A Gate is owned by one request or one client and is not safe for
// concurrent use.
type Gate struct {
	p        Persister
	identity string
	token    string
	reason   string
}

// NewGate returns an unauthenticated gate backed by p. Call Init to
// restore a persisted session.
func NewGate(p Persister) *Gate {
	return &Gate{p: p}
}

// Init restores the persisted session. A partial record (identity without
// token or the reverse) is treated as no session and erased.
func (g *Gate) Init() error {
	vals, err := g.p.Load()
	if err != nil {
		return err
	}
	identity, token := vals[keyIdentity], vals[keyToken]
	if identity == "" || token == "" {
		g.identity, g.token = "", ""
		if len(vals) > 0 {
			return g.p.Store(nil)
		}
		return nil
	}
	g.identity, g.token = identity, token
	return nil
}

// Login moves to Authenticated and persists the credentials.
func (g *Gate) Login(identity, token string) error {
	if identity == "" || token == "" {
		return ErrMissingCredentials
	}
	if err := g.p.Store(map[string]string{keyIdentity: identity, keyToken: token}); err != nil {
		return err
	}
	g.identity, g.token, g.reason = identity, token, ""
	return nil
}

// Logout clears the session.
func (g *Gate) Logout() error {
	return g.clear("")
}

// ForceLogout clears the session because the remote rejected it.
func (g *Gate) ForceLogout(reason string) error {
	return g.clear(reason)
}

func (g *Gate) clear(reason string) error {
	g.identity, g.token, g.reason = "", "", reason
	return g.p.Store(nil)
}

// Authenticated reports the current state.
func (g *Gate) Authenticated() bool { return g.identity != "" && g.token != "" }

// Identity returns the signed-in identity, or "".
func (g *Gate) Identity() string { return g.identity }

// Token returns the session token, or "".
func (g *Gate) Token() string { return g.token }

// Reason returns why the last forced logout happened.
func (g *Gate) Reason() string { return g.reason }

// Guard returns the intent for a protected or public route.
func (g *Gate) Guard(protected bool) Intent {
	return Decide(g.Authenticated(), protected)
}

// MemoryPersister keeps the session in process memory.
type MemoryPersister struct {
	mu   sync.Mutex
	vals map[string]string
}

func (m *MemoryPersister) Load() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.vals), nil
}

func (m *MemoryPersister) Store(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(values) == 0 {
		m.vals = nil
		return nil
	}
	m.vals = maps.Clone(values)
	return nil
}
