package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"go.uber.org/zap"
)

// TestTokenSecret signs tokens in tests.
var TestTokenSecret = strings.Repeat("t", 32)

// NewTokens returns a token service with a one hour lifetime.
func NewTokens(t testing.TB) *auth.Tokens {
	t.Helper()
	tokens, err := auth.NewTokens(TestTokenSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return tokens
}

// NewSessionManager returns a cookie session manager for handler tests.
func NewSessionManager(t testing.TB) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(strings.Repeat("s", 32), "adminpanel-test", "", time.Hour, false, NewTokens(t), zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}
