package web

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LogHandler is a slog.Handler that mirrors records into the viewer's
// log console. Records below Info are never forwarded.
type LogHandler struct {
	server *Server
	level  slog.Leveler
	prefix string // attrs added by WithAttrs, already formatted
	group  string
}

// NewLogHandler returns a handler feeding s. A nil level means Info.
func NewLogHandler(s *Server, level slog.Leveler) *LogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LogHandler{server: s, level: level}
}

func (h *LogHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= max(h.level.Level(), slog.LevelInfo)
}

func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		h.write(&b, a)
		return true
	})
	h.server.AddLog(strings.ToLower(r.Level.String()), b.String())
	return nil
}

func (h *LogHandler) write(b *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value.Resolve())
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, a := range attrs {
		h.write(&b, a)
	}
	nh := *h
	nh.prefix = b.String()
	return &nh
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if nh.group != "" {
		name = nh.group + "." + name
	}
	nh.group = name
	return &nh
}
