package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 7 * time.Second})
	got := Current()
	if got.Short != 7*time.Second {
		t.Errorf("Short: got %v", got.Short)
	}
	if got.Medium != DefaultMedium || got.Ping != DefaultPing || got.Long != DefaultLong {
		t.Errorf("zero values changed other timeouts: %+v", got)
	}

	Reset()
	if Short() != DefaultShort {
		t.Errorf("Reset: Short = %v", Short())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "posts list")
	<-ctx.Done()
	cancel()

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["operation"] != "posts list" {
		t.Errorf("operation field: %v", entries[0].ContextMap()["operation"])
	}
}

func TestWithTimeout_QuietOnSuccess(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	_, cancel := WithTimeout(context.Background(), time.Minute, zap.New(core), "users create")
	cancel()
	if logs.Len() != 0 {
		t.Errorf("unexpected log entries: %d", logs.Len())
	}
}
