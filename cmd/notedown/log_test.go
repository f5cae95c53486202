package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestLogRingDropsOldestBeyondCap(t *testing.T) {
	ring := newLogRing(3)
	for i := 0; i < 5; i++ {
		ring.Append(logEntry{Line: fmt.Sprintf("line %d", i)})
	}

	entries := ring.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Line != "line 2" || entries[2].Line != "line 4" {
		t.Errorf("unexpected window: %v", entries)
	}
	if ring.Seq() != 5 {
		t.Errorf("Seq() = %d, want 5", ring.Seq())
	}
}

func TestRingHandlerFormatsAndFilters(t *testing.T) {
	ring := newLogRing(10)
	logger := slog.New(newRingHandler(ring, slog.LevelInfo, nil))

	logger.Debug("ignored")
	logger.Info("note moved", "id", "nt-1", "folder", "fd-2")
	logger.Warn("drop rejected")

	entries := ring.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 (debug filtered)", len(entries))
	}
	if !strings.Contains(entries[0].Line, "note moved") ||
		!strings.Contains(entries[0].Line, "id=nt-1") {
		t.Errorf("entry missing message or attrs: %q", entries[0].Line)
	}
	if entries[1].Level != slog.LevelWarn {
		t.Errorf("Level = %v, want warn", entries[1].Level)
	}
}

func TestRingHandlerForwardsToNext(t *testing.T) {
	ring := newLogRing(10)
	sink := newLogRing(10)
	next := newRingHandler(sink, slog.LevelWarn, nil)
	h := newRingHandler(ring, slog.LevelDebug, next)

	logger := slog.New(h)
	logger.Info("kept locally")
	logger.Error("kept everywhere")

	if len(ring.Entries()) != 2 {
		t.Fatalf("ring got %d entries, want 2", len(ring.Entries()))
	}
	if len(sink.Entries()) != 1 {
		t.Fatalf("next handler got %d entries, want 1 (info below its level)", len(sink.Entries()))
	}
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("handler should be enabled at its own level")
	}
}
