package me_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/adminpanel/internal/app/features/me"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/testutil"
)

func TestServeMe_Roles(t *testing.T) {
	tests := []struct {
		email string
		role  string
	}{
		{"admin@test.com", "ADMIN"},
		{"SysAdmin@corp.io", "ADMIN"},
		{"editor@test.com", "USER"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			id := testutil.AdminIdentity()
			id.Email = tt.email

			rec := testutil.NewRecorder()
			me.NewHandler().ServeMe(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/admin/me", nil, id))

			rec.AssertStatus(t, http.StatusOK)
			var got me.Response
			rec.DecodeJSON(t, &got)
			if !got.IsAuthenticated || got.Email != tt.email || got.Role != tt.role {
				t.Errorf("got %+v, want email %q role %q", got, tt.email, tt.role)
			}
		})
	}
}

func TestServeMe_Anonymous(t *testing.T) {
	rec := testutil.NewRecorder()
	me.NewHandler().ServeMe(rec, testutil.NewRequest(t, http.MethodGet, "/admin/me", nil))

	rec.AssertStatus(t, http.StatusOK)
	var got me.Response
	rec.DecodeJSON(t, &got)
	if got.IsAuthenticated || got.Email != "" {
		t.Errorf("got %+v, want empty", got)
	}
}

func TestRoutes_RequireSignedIn(t *testing.T) {
	sm := testutil.NewSessionManager(t)
	r := me.Routes(me.NewHandler(), sm)

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(t, http.MethodGet, "/", nil))
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", nil, auth.Identity{Email: "admin@x.io", SessionID: "s1"}))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"role":"ADMIN"`)
}
