package listpage_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	"github.com/dalemusser/adminpanel/internal/app/store/audit"
	"github.com/dalemusser/adminpanel/internal/app/system/auditlog"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
	"github.com/dalemusser/adminpanel/internal/app/system/workspace"
	"github.com/dalemusser/adminpanel/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type testServer struct {
	router http.Handler
	h      *listpage.Handler[item]
	mem    *remote.Memory[item]
	desks  *workspace.Registry
	id     auth.Identity
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	tokens, err := auth.NewTokens(strings.Repeat("k", 32), time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	sm, err := auth.NewSessionManager(strings.Repeat("s", 32), "test-session", "", time.Hour, false, tokens, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	desks := workspace.NewRegistry(logger)
	sm.OnSessionEnd(func(id string) { desks.Drop(id) })

	mem := remote.NewMemory(seedItems()...)
	h := listpage.NewHandler(itemDomain(), mem, sm, 10, uierrors.NewErrorLogger(logger), logger)

	r := chi.NewRouter()
	r.Use(desks.Middleware)
	h.Mount(r)
	return &testServer{router: r, h: h, mem: mem, desks: desks, id: testutil.AdminIdentity()}
}

func (s *testServer) do(t *testing.T, method, target string, body any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	s.router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, method, target, body, s.id))
	return rec
}

func TestServeList(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", nil)
	rec.AssertStatus(t, http.StatusOK)
	var st listpage.State[item]
	rec.DecodeJSON(t, &st)
	if st.View.Total != 4 || st.Domain != "items" {
		t.Errorf("total = %d domain = %q", st.View.Total, st.Domain)
	}
	if st.Notices == nil {
		t.Error("notices must be an empty list, not null")
	}

	rec = s.do(t, http.MethodGet, "/?status=Read&page=3", nil)
	rec.DecodeJSON(t, &st)
	if st.View.Total != 2 || st.View.Page != 1 {
		t.Errorf("filtered total = %d page = %d, want 2 and 1", st.View.Total, st.View.Page)
	}

	// Parameters persist on the desk between requests.
	rec = s.do(t, http.MethodGet, "/?search=brav", nil)
	rec.DecodeJSON(t, &st)
	if st.View.Total != 1 || st.Params.Filter("status") != "Read" {
		t.Errorf("search total = %d status filter = %q", st.View.Total, st.Params.Filter("status"))
	}
}

func TestServeList_AnonymousCreatesNoDesk(t *testing.T) {
	s := newTestServer(t)

	rec := testutil.NewRecorder()
	s.router.ServeHTTP(rec, testutil.NewRequest(t, http.MethodGet, "/", nil))
	rec.AssertStatus(t, http.StatusUnauthorized)
	if s.desks.Len() != 0 {
		t.Errorf("desks = %d, want 0", s.desks.Len())
	}
}

func TestHandleCreate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/", map[string]string{"name": "Echo", "status": "Unread"})
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "Item created successfully")

	rec = s.do(t, http.MethodPost, "/", map[string]string{"status": "Unread"})
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, "Validation Error")
}

func TestHandleUpdate_Partial(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPatch, "/b", map[string]string{"tag": "q"})
	rec.AssertStatus(t, http.StatusOK)

	rec = s.do(t, http.MethodGet, "/b", nil)
	var st listpage.State[item]
	rec.DecodeJSON(t, &st)
	if st.Active == nil {
		t.Fatal("no active record")
	}
	if st.Active.Fields.Name != "Bravo" || st.Active.Fields.Tag != "q" {
		t.Errorf("fields = %+v", st.Active.Fields)
	}

	rec = s.do(t, http.MethodPatch, "/missing", map[string]string{"tag": "q"})
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleStatus_Invalid(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/b/status", map[string]string{"status": "Nope"})
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, "Invalid Status")
}

func TestDeleteFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/c/delete", nil)
	rec.AssertStatus(t, http.StatusAccepted)
	var st listpage.State[item]
	rec.DecodeJSON(t, &st)
	if st.Pending == nil || st.Pending.ID != "c" {
		t.Fatalf("pending = %+v", st.Pending)
	}

	rec = s.do(t, http.MethodPost, "/confirm", nil)
	rec.AssertStatus(t, http.StatusOK)
	var after listpage.State[item]
	rec.DecodeJSON(t, &after)
	if after.View.Total != 3 || after.Pending != nil {
		t.Errorf("after confirm total = %d pending = %v", after.View.Total, after.Pending)
	}
}

func TestActiveRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/active/status", map[string]string{"status": "Done"})
	rec.AssertStatus(t, http.StatusConflict)

	s.do(t, http.MethodGet, "/b", nil).AssertStatus(t, http.StatusOK)
	rec = s.do(t, http.MethodPost, "/active/status", map[string]string{"status": "Done"})
	rec.AssertStatus(t, http.StatusOK)
	var st listpage.State[item]
	rec.DecodeJSON(t, &st)
	if st.Active != nil {
		t.Error("detail should close on Done")
	}

	s.do(t, http.MethodGet, "/d", nil).AssertStatus(t, http.StatusOK)
	s.do(t, http.MethodPost, "/close", nil).AssertStatus(t, http.StatusOK)
	s.do(t, http.MethodPost, "/active/delete", nil).AssertStatus(t, http.StatusConflict)
}

func TestRemoteAuthFailureForcesLogout(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/", nil).AssertStatus(t, http.StatusOK)
	if s.desks.Len() != 1 {
		t.Fatalf("desks = %d, want 1", s.desks.Len())
	}

	s.mem.FailNext(remote.FromStatus(http.StatusUnauthorized, ""))
	rec := s.do(t, http.MethodPost, "/refresh", nil)
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, `"redirect":"/login"`)
	rec.AssertContains(t, "Your session has expired")
	if s.desks.Len() != 0 {
		t.Error("forced logout should drop the desk")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{remote.FromStatus(http.StatusForbidden, ""), http.StatusForbidden},
		{remote.FromStatus(http.StatusUnprocessableEntity, "dup"), http.StatusUnprocessableEntity},
		{remote.FromStatus(http.StatusInternalServerError, ""), http.StatusBadGateway},
		{remote.Network(errors.New("down")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := listpage.StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type auditSink struct {
	events []audit.Event
}

func (a *auditSink) Log(_ context.Context, e audit.Event) error {
	a.events = append(a.events, e)
	return nil
}

func TestAuditRecordsMutations(t *testing.T) {
	s := newTestServer(t)
	sink := &auditSink{}
	s.h.Audit = auditlog.New(sink, zap.NewNop(), auditlog.Config{Auth: auditlog.ModeOff, Admin: auditlog.ModeDB})

	s.do(t, http.MethodGet, "/", nil).AssertStatus(t, http.StatusOK)
	s.do(t, http.MethodPost, "/b/status", map[string]string{"status": "Done"}).AssertStatus(t, http.StatusOK)

	s.mem.FailNext(remote.FromStatus(http.StatusInternalServerError, "boom"))
	s.do(t, http.MethodPatch, "/d", map[string]string{"tag": "z"}).AssertStatus(t, http.StatusBadGateway)

	if len(sink.events) != 2 {
		t.Fatalf("audit events = %+v, want 2", sink.events)
	}
	ok, failed := sink.events[0], sink.events[1]
	if ok.Domain != "items" || ok.RecordID != "b" || ok.Outcome != "ok" || !ok.Success || ok.Actor != s.id.Email {
		t.Errorf("first event = %+v", ok)
	}
	if failed.RecordID != "d" || failed.Outcome != "rolled_back" || failed.Success || failed.FailureReason == "" {
		t.Errorf("second event = %+v", failed)
	}
}
