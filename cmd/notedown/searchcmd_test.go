package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

func TestFitSnippetKeepsShortSnippets(t *testing.T) {
	got := fitSnippet("Title", "short snippet", 80)
	if got != "short snippet" {
		t.Fatalf("fitSnippet() = %q, want unchanged", got)
	}
}

func TestFitSnippetTruncatesOnRuneBoundaries(t *testing.T) {
	// Ellipses and accented runes are multi-byte; cutting on bytes would
	// leave invalid UTF-8 behind.
	snippet := strings.Repeat("résumé … ", 20)
	for width := 40; width <= 90; width++ {
		got := fitSnippet("Notes", snippet, width)
		if !utf8.ValidString(got) {
			t.Fatalf("width %d: fitSnippet() produced invalid UTF-8: %q", width, got)
		}
		limit := width - ansi.StringWidth("Notes") - 4
		if ansi.StringWidth(got) > limit {
			t.Fatalf("width %d: snippet width %d exceeds limit %d", width, ansi.StringWidth(got), limit)
		}
	}
}

func TestFitSnippetSkipsNarrowTerminals(t *testing.T) {
	snippet := strings.Repeat("x", 200)
	if got := fitSnippet(strings.Repeat("t", 30), snippet, 40); got != snippet {
		t.Fatalf("fitSnippet() truncated below the minimum useful width")
	}
}
