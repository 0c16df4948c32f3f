package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Window(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return clock }

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("first two attempts should pass")
	}
	if l.Allow("k") {
		t.Error("third attempt should be limited")
	}
	if got := l.Remaining("k"); got != 0 {
		t.Errorf("Remaining = %d", got)
	}
	if !l.Allow("other") {
		t.Error("keys are independent")
	}

	clock = clock.Add(time.Minute + time.Second)
	if !l.Allow("k") {
		t.Error("window should have expired")
	}
	l.Reset("k")
	if got := l.Remaining("k"); got != 2 {
		t.Errorf("Remaining after reset = %d", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2"}, "9.9.9.9:1", "1.1.1.1"},
		{"real ip", map[string]string{"X-Real-IP": " 3.3.3.3 "}, "9.9.9.9:1", "3.3.3.3"},
		{"remote addr", nil, "9.9.9.9:1234", "9.9.9.9"},
		{"no port", nil, "9.9.9.9", "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_EmailLimit(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 1, time.Minute)
	r := httptest.NewRequest("POST", "/login", nil)

	if ok, _ := ll.Check(r, "Admin@Example.com"); !ok {
		t.Fatal("first attempt should pass")
	}
	if ok, msg := ll.Check(r, " admin@example.com"); ok || msg == "" {
		t.Error("second attempt for the same email should be limited")
	}
	ll.ResetEmail("ADMIN@example.com")
	if ok, _ := ll.Check(r, "admin@example.com"); !ok {
		t.Error("reset should allow another attempt")
	}
}
