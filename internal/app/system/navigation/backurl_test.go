package navigation

import "testing"

func TestSafeReturn(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "/admin"},
		{"/admin", "/admin"},
		{"/admin/posts?page=2", "/admin/posts?page=2"},
		{"  /admin/users  ", "/admin/users"},
		{"/admin/deletions", "/admin/deletions"},
		{"/administrator", "/admin"},
		{"/login", "/admin"},
		{"/admin/posts/confirm", "/admin"},
		{"/admin/heartbeat", "/admin"},
		{"https://evil.example.com/admin", "/admin"},
		{"//evil.example.com/admin", "/admin"},
	}
	for _, tt := range tests {
		if got := SafeReturn(tt.raw, AdminReturn); got != tt.want {
			t.Errorf("SafeReturn(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSafeReturn_NoPrefix(t *testing.T) {
	opts := ReturnOptions{Fallback: "/"}
	if got := SafeReturn("/anything?x=1", opts); got != "/anything?x=1" {
		t.Errorf("got %q", got)
	}
}
