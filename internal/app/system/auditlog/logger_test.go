package auditlog_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/adminpanel/internal/app/store/audit"
	"github.com/dalemusser/adminpanel/internal/app/system/auditlog"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memorySink struct {
	events []audit.Event
	err    error
}

func (m *memorySink) Log(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

var operator = auth.Identity{Email: "admin@x.io", SessionID: "sess-1"}

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(context.Background(), audit.Event{EventType: "test"})
	logger.LoginSuccess(context.Background(), req, operator)
	logger.Mutation(context.Background(), operator, "users", "create", "u1", "ok", nil)
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode    string
		wantDB  int
		wantZap int
	}{
		{auditlog.ModeAll, 1, 1},
		{auditlog.ModeDB, 1, 0},
		{auditlog.ModeLog, 0, 1},
		{auditlog.ModeOff, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			sink := &memorySink{}
			core, logs := observer.New(zapcore.InfoLevel)
			logger := auditlog.New(sink, zap.New(core), auditlog.Config{Auth: tt.mode, Admin: tt.mode})

			logger.LoginSuccess(context.Background(), httptest.NewRequest("POST", "/login", nil), operator)

			if len(sink.events) != tt.wantDB {
				t.Errorf("db events = %d, want %d", len(sink.events), tt.wantDB)
			}
			if n := logs.FilterMessage("audit event").Len(); n != tt.wantZap {
				t.Errorf("zap events = %d, want %d", n, tt.wantZap)
			}
		})
	}
}

func TestLogger_CategoriesAreIndependent(t *testing.T) {
	sink := &memorySink{}
	logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{Auth: auditlog.ModeOff, Admin: auditlog.ModeDB})

	logger.LoginFailedWrongPassword(context.Background(), httptest.NewRequest("POST", "/login", nil), "who@x.io")
	logger.Mutation(context.Background(), operator, "posts", "delete", "p1", "rolled_back", errors.New("server error"))

	if len(sink.events) != 1 {
		t.Fatalf("events = %+v, want only the admin event", sink.events)
	}
	e := sink.events[0]
	if e.Category != audit.CategoryAdmin || e.Domain != "posts" || e.Op != "delete" || e.RecordID != "p1" {
		t.Errorf("event = %+v", e)
	}
	if e.Success || e.FailureReason != "server error" || e.Actor != operator.Email {
		t.Errorf("failure fields = %+v", e)
	}
}

func TestLogger_StoreErrorIsLogged(t *testing.T) {
	sink := &memorySink{err: errors.New("insert failed")}
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := auditlog.New(sink, zap.New(core), auditlog.Config{Auth: auditlog.ModeDB, Admin: auditlog.ModeDB})

	logger.Logout(context.Background(), httptest.NewRequest("POST", "/logout", nil), operator)

	if logs.FilterMessage("failed to store audit event").Len() != 1 {
		t.Error("expected the store failure to be logged")
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []string{"all", "db", "log", "off"} {
		if !auditlog.ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if auditlog.ValidMode("everything") {
		t.Error("unknown mode accepted")
	}
}
