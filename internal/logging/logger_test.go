package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
		{"élise@example.com", "él***@example.com"},
		{"日本語@example.jp", "日本***@example.jp"},
		{"jö@example.com", "***@example.com"},
	}

	for _, tt := range tests {
		got := RedactEmail(tt.in)
		if got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("RedactEmail(%q) produced invalid UTF-8 %q", tt.in, got)
		}
	}
}

func TestRedactText(t *testing.T) {
	got := RedactText("Failed to subscribe alice@example.com - email address is bounced.")
	want := "Failed to subscribe al***@example.com - email address is bounced."
	if got != want {
		t.Errorf("RedactText() = %q, want %q", got, want)
	}
}

func TestNew_RedactsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "info", Format: "json", RedactEmails: true})

	logger.Info("subscribed", "email", "alice@example.com", "count", 3)

	out := buf.String()
	if strings.Contains(out, "alice@example.com") {
		t.Errorf("log output leaked address: %s", out)
	}
	if !strings.Contains(out, "al***@example.com") {
		t.Errorf("log output missing redacted address: %s", out)
	}
}

func TestNew_NoRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "info", Format: "text"})

	logger.Info("subscribed", "email", "alice@example.com")

	if !strings.Contains(buf.String(), "alice@example.com") {
		t.Errorf("expected raw address in output: %s", buf.String())
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "warn", Format: "text"})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn entry missing: %s", out)
	}
}

func TestFromContext_IncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&buf, Options{Format: "text"}))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	FromContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("expected request_id in output: %s", buf.String())
	}
}
