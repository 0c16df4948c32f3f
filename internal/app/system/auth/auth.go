// Package auth holds the session gate, the token service and the HTTP
// middleware that keeps protected routes behind a signed-in session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Identity in request context                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Identity is the signed-in operator attached to a request.
type Identity struct {
	Email     string
	SessionID string
	ExpiresAt time.Time
}

// Role derives the display role from the identity.
func (id Identity) Role() string {
	if strings.Contains(strings.ToLower(id.Email), "admin") {
		return "ADMIN"
	}
	return "USER"
}

type ctxKey string

const identityKey ctxKey = "identity"

// CurrentIdentity returns the identity and a "found?" flag.
func CurrentIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager ties the cookie-backed Gate to token verification and
// revocation.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	maxAge  int
	tokens  *Tokens
	revoker Revoker
	log     *zap.Logger

	mu    sync.RWMutex
	onEnd []func(sessionID string)
}

// NewSessionManager builds the cookie store. The `secure` flag controls
// whether cookies are marked Secure and which SameSite mode is used.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, tokens *Tokens, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session manager initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{
		store:   store,
		name:    name,
		maxAge:  opts.MaxAge,
		tokens:  tokens,
		revoker: NewMemoryRevoker(),
		log:     logger,
	}, nil
}

// SetRevoker replaces the in-memory revocation list.
func (sm *SessionManager) SetRevoker(r Revoker) {
	sm.revoker = r
}

// OnSessionEnd registers fn to run with the session id whenever a session
// ends through SignOut or ForceLogout.
func (sm *SessionManager) OnSessionEnd(fn func(sessionID string)) {
	sm.mu.Lock()
	sm.onEnd = append(sm.onEnd, fn)
	sm.mu.Unlock()
}

func (sm *SessionManager) ended(sessionID string) {
	if sessionID == "" {
		return
	}
	sm.mu.RLock()
	fns := sm.onEnd
	sm.mu.RUnlock()
	for _, fn := range fns {
		fn(sessionID)
	}
}

// Gate returns the request's session gate, restored from its cookie.
func (sm *SessionManager) Gate(w http.ResponseWriter, r *http.Request) *Gate {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			// A cookie signed with an old key decodes to a fresh session.
			sm.log.Debug("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			sm.log.Error("session store error, using fresh session", zap.Error(err))
		}
	}
	g := NewGate(&cookiePersister{sess: sess, maxAge: sm.maxAge, w: w, r: r})
	if err := g.Init(); err != nil {
		sm.log.Warn("session init failed", zap.Error(err))
	}
	return g
}

// SignIn issues a token for email and stores it in the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, email string) (string, Identity, error) {
	token, claims, err := sm.tokens.Issue(email)
	if err != nil {
		return "", Identity{}, err
	}
	if err := sm.Gate(w, r).Login(email, token); err != nil {
		return "", Identity{}, fmt.Errorf("persist session: %w", err)
	}
	id := Identity{Email: email, SessionID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}
	sm.log.Info("signed in", zap.String("email", email), zap.String("session_id", id.SessionID))
	return token, id, nil
}

// SignOut revokes the current session and clears the cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	return sm.end(w, r, "")
}

// ForceLogout ends the session because a collaborator rejected it.
func (sm *SessionManager) ForceLogout(w http.ResponseWriter, r *http.Request, reason string) error {
	sm.log.Warn("forced logout", zap.String("reason", reason))
	return sm.end(w, r, reason)
}

func (sm *SessionManager) end(w http.ResponseWriter, r *http.Request, reason string) error {
	var errs []error
	id, ok := CurrentIdentity(r)
	if ok {
		if err := sm.revoker.Revoke(r.Context(), id.SessionID, id.ExpiresAt); err != nil {
			errs = append(errs, fmt.Errorf("revoke session: %w", err))
		}
	}

	g := sm.Gate(w, r)
	var err error
	if reason != "" {
		err = g.ForceLogout(reason)
	} else {
		err = g.Logout()
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("clear session: %w", err))
	}

	if ok {
		sm.ended(id.SessionID)
	}
	return errors.Join(errs...)
}

// Verify checks a token and its revocation state.
func (sm *SessionManager) Verify(ctx context.Context, token string) (Identity, error) {
	claims, err := sm.tokens.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	revoked, err := sm.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Identity{}, fmt.Errorf("%w: session revoked", ErrInvalidToken)
	}
	return Identity{Email: claims.Subject, SessionID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser injects the identity into context when the request
// carries a valid token, either as a Bearer header or in the session
// cookie. A cookie holding a token that no longer verifies is cleared.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		var g *Gate
		if token == "" {
			g = sm.Gate(w, r)
			token = g.Token()
		}
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := sm.Verify(r.Context(), token)
		if err != nil {
			sm.log.Debug("session token rejected", zap.Error(err))
			if g != nil {
				if cerr := g.ForceLogout("invalid session"); cerr != nil {
					sm.log.Warn("clear session failed", zap.Error(cerr))
				}
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireSignedIn ensures there is an identity in context (set by
// LoadSessionUser). If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 with a JSON body naming the login location.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := CurrentIdentity(r)
		if Decide(ok, true) == Proceed {
			next.ServeHTTP(w, r)
			return
		}
		RedirectToSignIn(w, r)
	})
}

// RedirectIfSignedIn sends signed-in users away from the public auth pages.
func (sm *SessionManager) RedirectIfSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := CurrentIdentity(r)
		if Decide(ok, false) == RedirectToAdmin {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/admin")
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectToSignIn writes the not-signed-in response for r.
func RedirectToSignIn(w http.ResponseWriter, r *http.Request) {
	loc := "/login?return=" + url.QueryEscape(currentURI(r))

	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", loc)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Browser/HTML: go to login and preserve return
	if wantsHTML(r) {
		http.Redirect(w, r, loc, http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":    "unauthorized",
		"redirect": loc,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Cookie persister                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

type cookiePersister struct {
	sess   *sessions.Session
	maxAge int
	w      http.ResponseWriter
	r      *http.Request
}

func (c *cookiePersister) Load() (map[string]string, error) {
	out := make(map[string]string, len(c.sess.Values))
	for k, v := range c.sess.Values {
		ks, kok := k.(string)
		vs, vok := v.(string)
		if kok && vok {
			out[ks] = vs
		}
	}
	return out, nil
}

func (c *cookiePersister) Store(values map[string]string) error {
	clear(c.sess.Values)
	if len(values) == 0 {
		c.sess.Options.MaxAge = -1
	} else {
		c.sess.Options.MaxAge = c.maxAge
		for k, v := range values {
			c.sess.Values[k] = v
		}
	}
	return c.sess.Save(c.r, c.w)
}

// helpers

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
