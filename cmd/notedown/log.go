package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// logEntry is one rendered log line plus the level it was emitted at,
// kept so the logs overlay can color by severity.
type logEntry struct {
	Level slog.Level
	Line  string
}

// logRing keeps the last N log entries for the in-app logs overlay.
type logRing struct {
	mu      sync.RWMutex
	entries []logEntry
	cap     int
	seq     int // total entries ever written, for change detection
}

func newLogRing(cap int) *logRing {
	return &logRing{
		entries: make([]logEntry, 0, cap),
		cap:     cap,
	}
}

func (r *logRing) Append(e logEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) < r.cap {
		r.entries = append(r.entries, e)
	} else {
		r.entries = append(r.entries[1:], e)
	}
	r.seq++
}

func (r *logRing) Entries() []logEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]logEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *logRing) Seq() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seq
}

// ringHandler is a slog.Handler that formats records into a logRing,
// optionally forwarding them to a second handler (the log file).
type ringHandler struct {
	ring  *logRing
	level slog.Level
	next  slog.Handler
}

func newRingHandler(ring *logRing, level slog.Level, next slog.Handler) *ringHandler {
	return &ringHandler{ring: ring, level: level, next: next}
}

func (h *ringHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ringHandler) Handle(ctx context.Context, rec slog.Record) error {
	line := fmt.Sprintf("%s %s %s",
		rec.Time.Format(time.TimeOnly), rec.Level.String(), rec.Message)
	rec.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})
	h.ring.Append(logEntry{Level: rec.Level, Line: line})

	if h.next != nil && h.next.Enabled(ctx, rec.Level) {
		return h.next.Handle(ctx, rec)
	}
	return nil
}

func (h *ringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.next == nil {
		return h
	}
	return &ringHandler{ring: h.ring, level: h.level, next: h.next.WithAttrs(attrs)}
}

func (h *ringHandler) WithGroup(name string) slog.Handler {
	if h.next == nil {
		return h
	}
	return &ringHandler{ring: h.ring, level: h.level, next: h.next.WithGroup(name)}
}

// setupLogger routes logs to the ring buffer and, when the TUI owns the
// terminal, a file next to the vault instead of stderr.
func setupLogger(ring *logRing, vaultPath string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logPath := filepath.Join(filepath.Dir(vaultPath), "notedown.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	file := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	logger := slog.New(newRingHandler(ring, level, file))
	return logger, func() { f.Close() }, nil
}

// setupStderrLogger is for the non-TUI commands, where stderr is free.
func setupStderrLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
