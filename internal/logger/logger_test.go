package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONFormatInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production"})

	log.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestPrettyFormatCarriesAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty"})

	log.Info("list created", "list_id", "list-abc")

	out := buf.String()
	if !strings.Contains(out, "list created") || !strings.Contains(out, "list_id=list-abc") {
		t.Errorf("unexpected pretty output: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "pretty", Level: slog.LevelWarn})

	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info record should have been filtered: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn record missing: %q", out)
	}
}
