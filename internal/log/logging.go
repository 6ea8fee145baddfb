// Package log provides helpers for creating a configured slog.Logger.
//
// Without a log file, non-error levels go to stdout and errors to stderr.
// With a log file, everything goes to the file and is mirrored to stderr.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace is below Debug and enables serial traffic dumps.
const LevelTrace slog.Level = -8

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MultiHandler fans out records to multiple handlers.
type MultiHandler struct{ hs []slog.Handler }

func (m MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		_ = h.Handle(ctx, r.Clone())
	}
	return nil
}

func (m MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		out[i] = h.WithAttrs(attrs)
	}
	return MultiHandler{hs: out}
}

func (m MultiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		out[i] = h.WithGroup(name)
	}
	return MultiHandler{hs: out}
}

// LevelFilter passes only the levels accepted by pass to h.
type LevelFilter struct {
	pass func(slog.Level) bool
	h    slog.Handler
}

func (f LevelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	if !f.pass(level) {
		return false
	}
	return f.h.Enabled(ctx, level)
}

func (f LevelFilter) Handle(ctx context.Context, r slog.Record) error {
	if !f.pass(r.Level) {
		return nil
	}
	return f.h.Handle(ctx, r)
}

func (f LevelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return LevelFilter{pass: f.pass, h: f.h.WithAttrs(attrs)}
}

func (f LevelFilter) WithGroup(name string) slog.Handler {
	return LevelFilter{pass: f.pass, h: f.h.WithGroup(name)}
}

// SetupLogger builds a slog.Logger with console and optional file handlers.
// The returned closers must be closed on shutdown.
func SetupLogger(logLevel, logFile string) (*slog.Logger, []io.Closer, error) {
	return setupLogger(logLevel, logFile, os.Stdout, os.Stderr)
}

func setupLogger(logLevel, logFile string, stdout, stderr io.Writer) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(logLevel)
	var handlers []slog.Handler
	var closers []io.Closer

	if logFile == "" {
		out := slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: level})
		handlers = append(handlers, LevelFilter{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: out})

		errs := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelError})
		handlers = append(handlers, LevelFilter{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: errs})
	} else {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, f)
		handlers = append(handlers,
			slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
			slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}),
		)
	}
	return slog.New(MultiHandler{hs: handlers}), closers, nil
}

// OpenRaw opens the serial traffic dump. An empty path with trace level
// dumps to stdout; an empty path otherwise yields a no-op logger.
func OpenRaw(path string, level slog.Level) (RawLogger, io.Closer, error) {
	if path == "" {
		if level <= LevelTrace {
			return NewRaw(os.Stdout), nil, nil
		}
		return NewRaw(nil), nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return NewRaw(f), f, nil
}
