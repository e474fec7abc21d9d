package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	if got := ParseLevel("DEBUG"); got != slog.LevelDebug {
		t.Fatalf("ParseLevel(DEBUG) = %v, want debug", got)
	}
	if got := ParseLevel("nonsense"); got != slog.LevelInfo {
		t.Fatalf("ParseLevel(nonsense) = %v, want info", got)
	}
}

func TestInitJSON(t *testing.T) {
	prev := L
	defer func() { L = prev; slog.SetDefault(prev) }()

	var buf bytes.Buffer
	l := Init("info", "json", &buf)
	l.Info("hello", "k", 1)
	l.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Fatalf("output %q missing json message", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := ToContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatal("FromContext did not return the stored logger")
	}
	if FromContext(context.Background()) != L {
		t.Fatal("FromContext without a logger should return L")
	}
}
