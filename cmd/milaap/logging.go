package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// consoleHandler drops records below its level and sends errors to their own
// stream, so operators can watch stderr for failures alone.
type consoleHandler struct {
	level  slog.Leveler
	out    slog.Handler
	errOut slog.Handler
}

func newConsoleHandler(out, errOut io.Writer, level slog.Leveler) *consoleHandler {
	opts := &slog.HandlerOptions{Level: level}
	return &consoleHandler{
		level:  level,
		out:    slog.NewTextHandler(out, opts).WithAttrs([]slog.Attr{slog.String("app", "milaap")}),
		errOut: slog.NewTextHandler(errOut, opts).WithAttrs([]slog.Attr{slog.String("app", "milaap")}),
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return h.errOut.Handle(ctx, r)
	}
	return h.out.Handle(ctx, r)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{level: h.level, out: h.out.WithAttrs(attrs), errOut: h.errOut.WithAttrs(attrs)}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	return &consoleHandler{level: h.level, out: h.out.WithGroup(name), errOut: h.errOut.WithGroup(name)}
}

// setupLogger installs the default logger at level. With a logPath every
// record is also appended to that file. The returned func closes it.
func setupLogger(logPath string, level slog.Level) (func(), error) {
	out, errOut := io.Writer(os.Stdout), io.Writer(os.Stderr)
	closeFile := func() {}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		closeFile = func() { f.Close() }
		out, errOut = io.MultiWriter(out, f), io.MultiWriter(errOut, f)
	}

	slog.SetDefault(slog.New(newConsoleHandler(out, errOut, level)))
	return closeFile, nil
}
