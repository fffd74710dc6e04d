package logging

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestConsoleHandlerWritesAttrs(t *testing.T) {
	var sb strings.Builder
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(writerFunc(func(p []byte) (int, error) {
		sb.Write(p)
		return len(p), nil
	}), levelVar))

	logger.With(slog.String("component", "hub")).Info("descriptor fetched", slog.String("platform", "qq"))

	out := sb.String()
	for _, want := range []string{"INFO", "descriptor fetched", "component=hub", "platform=qq"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestSnippetTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := Snippet(long)
	if len(got) != 123 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected snippet: len=%d", len(got))
	}
	if Snippet("short") != "short" {
		t.Fatal("short strings should pass through")
	}
}

func TestLoggerContextCarriage(t *testing.T) {
	base := NewNop()
	ctx := WithLogger(context.Background(), base)
	if got := FromContext(ctx, nil); got != base {
		t.Fatal("expected the carried logger back")
	}

	fallback := NewNop()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected the fallback when nothing is carried")
	}
	if got := FromContext(context.Background(), nil); got == nil {
		t.Fatal("expected a usable logger even without fallback")
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
