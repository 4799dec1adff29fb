// logger_test.go — Unit tests for the logger package.
package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"json", "pretty", "unknown"} {
		if l := New(format, "info"); l == nil {
			t.Errorf("New(%q, info) returned nil", format)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	// At warn level, Info messages must be suppressed; at debug, everything passes.
	var buf bytes.Buffer
	warn := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	warn.Info("should not appear")
	if strings.Contains(buf.String(), "should not appear") {
		t.Error("Info message appeared at warn level — level filtering broken")
	}

	buf.Reset()
	debug := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	debug.Debug("debug probe")
	if !strings.Contains(buf.String(), "debug probe") {
		t.Error("expected debug message to appear at debug level")
	}
}

func TestWithContext_FromContext_RoundTrip(t *testing.T) {
	original := New("json", "info")
	ctx := WithContext(context.Background(), original)
	if FromContext(ctx) != original {
		t.Error("FromContext returned a different logger than was stored")
	}
}

func TestFromContext_ReturnsDefault_WhenNotSet(t *testing.T) {
	if l := FromContext(context.Background()); l != slog.Default() {
		t.Error("expected slog.Default() when no logger in context")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l == nil {
		t.Fatal("Discard returned nil")
	}
	l.Info("dropped") // must not panic
}
