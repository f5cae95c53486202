package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// SearchCmd runs a full-text query and prints the hits, one per line.
type SearchCmd struct {
	Query []string `arg:"" help:"Search terms."`
	IDs   bool     `help:"Print note IDs only (for scripting)."`
}

// ANSI escape helpers for plain-terminal output.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiMuted = "\033[38;2;147;153;178m" // #9399b2
)

// fitSnippet trims a snippet so title and snippet share one terminal row,
// cutting on display cells rather than bytes.
func fitSnippet(title, snippet string, width int) string {
	limit := width - ansi.StringWidth(title) - 4
	if limit <= 10 || ansi.StringWidth(snippet) <= limit {
		return snippet
	}
	return ansi.Truncate(snippet, limit, "…")
}

func (cmd *SearchCmd) Run(cli *CLI, cfg *UserConfig) error {
	v, err := cli.openVault(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	hits, err := v.Search(strings.Join(cmd.Query, " "))
	if err != nil {
		return err
	}

	if cmd.IDs {
		for _, h := range hits {
			fmt.Println(h.NoteID)
		}
		return nil
	}

	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	styled := err == nil
	if err != nil || width < 40 {
		width = 80
	}

	for _, h := range hits {
		snippet := fitSnippet(h.Title, h.Snippet, width)
		if styled {
			fmt.Printf("%s%s%s  %s%s%s\n", ansiBold, h.Title, ansiReset, ansiMuted, snippet, ansiReset)
			fmt.Printf("%s%s%s\n", ansiMuted, h.NoteID, ansiReset)
		} else {
			fmt.Printf("%s\t%s\t%s\n", h.NoteID, h.Title, snippet)
		}
	}
	return nil
}
