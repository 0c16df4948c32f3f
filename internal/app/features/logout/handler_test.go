package logout_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/adminpanel/internal/app/features/logout"
	"github.com/dalemusser/adminpanel/internal/testutil"
	"go.uber.org/zap"
)

type closeCall struct {
	id, reason string
}

type fakeCloser struct {
	calls []closeCall
}

func (f *fakeCloser) Close(_ context.Context, id, reason string) error {
	f.calls = append(f.calls, closeCall{id, reason})
	return nil
}

func TestServeLogout_EndsSession(t *testing.T) {
	sm := testutil.NewSessionManager(t)
	var ended []string
	sm.OnSessionEnd(func(id string) { ended = append(ended, id) })
	closer := &fakeCloser{}
	h := logout.NewHandler(sm, closer, nil, zap.NewNop())

	id := testutil.AdminIdentity()
	rec := testutil.NewRecorder()
	h.ServeLogout(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/logout", nil, id))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"redirect":"/login"`)
	if len(ended) != 1 || ended[0] != id.SessionID {
		t.Errorf("session-end hook calls = %v", ended)
	}
	if len(closer.calls) != 1 || closer.calls[0] != (closeCall{id.SessionID, "logout"}) {
		t.Errorf("close calls = %+v", closer.calls)
	}
}

func TestServeLogout_HTMLRedirects(t *testing.T) {
	h := logout.NewHandler(testutil.NewSessionManager(t), nil, nil, zap.NewNop())

	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/logout", nil, testutil.AdminIdentity())
	req.Header.Set("Accept", "text/html")
	rec := testutil.NewRecorder()
	h.ServeLogout(rec, req)

	rec.AssertRedirect(t, "/login")
}

func TestServeLogout_HTMX(t *testing.T) {
	h := logout.NewHandler(testutil.NewSessionManager(t), nil, nil, zap.NewNop())

	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/logout", nil, testutil.AdminIdentity())
	req.Header.Set("HX-Request", "true")
	rec := testutil.NewRecorder()
	h.ServeLogout(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Errorf("HX-Redirect = %q, want /login", got)
	}
}

func TestRoutes_RequiresSignIn(t *testing.T) {
	sm := testutil.NewSessionManager(t)
	closer := &fakeCloser{}
	r := logout.Routes(logout.NewHandler(sm, closer, nil, zap.NewNop()), sm)

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(t, http.MethodPost, "/", nil))

	rec.AssertStatus(t, http.StatusUnauthorized)
	if len(closer.calls) != 0 {
		t.Error("anonymous logout should not close a session")
	}
}
