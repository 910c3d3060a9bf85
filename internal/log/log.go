// Package log provides structured logging for go-qranchor.
// It wraps slog with sensible defaults and fans records out to any extra
// handlers (dashboard log stream, systemd journal).
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

var (
	logger *slog.Logger
	mu     sync.RWMutex
	level  = new(slog.LevelVar)
)

// ParseLevel maps "debug", "info", "warn", "error" to a slog level.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init (re)initializes the global logger with the specified level.
// Valid levels: "debug", "info", "warn", "error"
func Init(lvl string, extra ...slog.Handler) {
	InitWriter(os.Stdout, lvl, extra...)
}

// InitWriter is Init with an explicit terminal writer.
func InitWriter(w io.Writer, lvl string, extra ...slog.Handler) {
	level.Set(ParseLevel(lvl))

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Use JSON in production, text in development
	var base slog.Handler
	if os.Getenv("GO_ENV") == "production" {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}

	handlers := []slog.Handler{base}

	// Running under systemd: also write to the journal
	if os.Getenv("JOURNAL_STREAM") != "" {
		if jh, err := slogjournal.NewHandler(&slogjournal.Options{Level: level}); err == nil {
			handlers = append(handlers, jh)
		}
	}

	for _, h := range extra {
		if h != nil {
			handlers = append(handlers, h)
		}
	}

	l := slog.New(slogmulti.Fanout(handlers...))

	mu.Lock()
	logger = l
	mu.Unlock()

	slog.SetDefault(l)
}

// SetLevel changes the level of the running logger.
func SetLevel(lvl string) {
	level.Set(ParseLevel(lvl))
}

// Level returns the current level.
func Level() slog.Level {
	return level.Level()
}

// L returns the global logger instance.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		Init("info")
		mu.RLock()
		l = logger
		mu.RUnlock()
	}
	return l
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}
