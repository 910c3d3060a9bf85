package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// recordHandler captures records for assertions.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, r := range h.records {
		out = append(out, r.Message)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestInitWriter_FansOut(t *testing.T) {
	t.Setenv("GO_ENV", "")
	t.Setenv("JOURNAL_STREAM", "")

	var buf bytes.Buffer
	extra := &recordHandler{}
	InitWriter(&buf, "info", extra)

	Info("model added", "payload", "A")
	Debug("hidden")

	if !strings.Contains(buf.String(), "model added") {
		t.Errorf("terminal output missing message: %q", buf.String())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug message should be filtered at info level: %q", buf.String())
	}

	msgs := extra.messages()
	if len(msgs) == 0 || msgs[0] != "model added" {
		t.Errorf("extra handler messages: got %v", msgs)
	}
}

func TestSetLevel(t *testing.T) {
	t.Setenv("GO_ENV", "")
	t.Setenv("JOURNAL_STREAM", "")

	var buf bytes.Buffer
	InitWriter(&buf, "warn")
	Info("quiet")
	SetLevel("debug")
	Debug("loud")

	if strings.Contains(buf.String(), "quiet") {
		t.Errorf("info should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("debug should pass after SetLevel(debug): %q", buf.String())
	}
	if Level() != slog.LevelDebug {
		t.Errorf("Level: got %v, want debug", Level())
	}
}
