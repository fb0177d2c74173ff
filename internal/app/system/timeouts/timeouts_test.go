package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Ping() != DefaultPing || Short() != DefaultShort || Medium() != DefaultMedium {
		t.Errorf("unexpected defaults: %+v", Current())
	}
}

func TestConfigure_IgnoresZero(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Short: 7 * time.Second})

	if Short() != 7*time.Second {
		t.Errorf("Short: got %v, want 7s", Short())
	}
	if Ping() != DefaultPing {
		t.Errorf("Ping changed unexpectedly: %v", Ping())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium changed unexpectedly: %v", Medium())
	}
}

func TestReset_RestoresDefaults(t *testing.T) {
	Configure(Config{Ping: time.Second, Short: 2 * time.Second, Medium: 3 * time.Second})
	if got := Current(); got != (Config{Ping: time.Second, Short: 2 * time.Second, Medium: 3 * time.Second}) {
		t.Fatalf("Current after Configure: got %+v", got)
	}

	Reset()

	want := Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium}
	if got := Current(); got != want {
		t.Errorf("Current after Reset: got %+v, want %+v", got, want)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	<-ctx.Done()
	cancel()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", ctx.Err())
	}
}
