// Package vmlog wraps log/slog with the single-line, timestamped handler
// shared by the vm package and the CLI, so that step traces, failure
// postmortems and the CLI's own records all read the same way on the
// terminal.
package vmlog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// lineHandler renders each record as one line: time, level, message, then
// any attributes as space-separated key=value pairs. It intentionally does
// not emit JSON — this tool's log output is read by a human at a terminal,
// not ingested by a log pipeline.
type lineHandler struct {
	out   io.Writer
	mu    *sync.Mutex
	level slog.Leveler
	attrs []slog.Attr
}

func newLineHandler(out io.Writer, level slog.Leveler) *lineHandler {
	return &lineHandler{out: out, mu: &sync.Mutex{}, level: level}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &lineHandler{out: h.out, mu: h.mu, level: h.level}
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return next
}

func (h *lineHandler) WithGroup(string) slog.Handler {
	// Groups are not rendered distinctly; this tool's attribute sets are
	// shallow enough that a flat key=value line reads fine.
	return h
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	parts := make([]string, 0, 3+r.NumAttrs()+len(h.attrs))
	parts = append(parts, r.Time.Format("15:04:05.000"), r.Level.String()+":", r.Message)

	for _, a := range h.attrs {
		parts = append(parts, a.Key+"="+a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, a.Key+"="+a.Value.String())
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, strings.Join(parts, " ")+"\n")
	return err
}

// New builds a logger writing single-line records to w. In debug mode the
// level is lowered to Debug so per-instruction CPU traces are visible;
// otherwise only Warn and Error are emitted.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(newLineHandler(w, level))
}

// Discard is a logger that drops everything, used where no diagnostic
// output is wanted (library-style use of vm/asm from tests).
var Discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// ElapsedSince is a small convenience used by the CLI to log how long a run
// or assembly pass took.
func ElapsedSince(start time.Time) time.Duration {
	return time.Since(start)
}
