package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	if got := FromContext(context.Background()); got != L {
		t.Error("expected global logger for bare context")
	}
}

func TestWithContextRoundTrip(t *testing.T) {
	custom := slog.Default().With(slog.String("k", "v"))
	ctx := WithContext(context.Background(), custom)
	if got := FromContext(ctx); got != custom {
		t.Error("expected logger stored in context to be returned")
	}
}
