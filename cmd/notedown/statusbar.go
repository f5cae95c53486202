package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mvanders/notedown/internal/dragdrop"
	"github.com/mvanders/notedown/internal/store"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#24283b")).
			Foreground(lipgloss.Color("#a9b1d6"))

	statusAppStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#7aa2f7")).
			Foreground(lipgloss.Color("#1a1b26")).
			Padding(0, 1)

	statusErrStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#f7768e")).
			Foreground(lipgloss.Color("#1a1b26")).
			Padding(0, 1)

	statusDragStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#e0af68")).
			Foreground(lipgloss.Color("#1a1b26")).
			Padding(0, 1)

	statusSaveStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#24283b")).
			Foreground(lipgloss.Color("#a6e3a1")).
			Padding(0, 1)

	statusHintStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#24283b")).
			Foreground(lipgloss.Color("#565f89"))
)

// renderStatusBar composes the bottom bar: app tab and current
// location on the left, drag or error state in the middle, save state
// on the right.
func renderStatusBar(app *store.App, drag dragdrop.State, location string, width int) string {
	left := statusAppStyle.Render("notedown")
	if location != "" {
		left += statusBarStyle.Render(" " + location)
	}

	var middle string
	switch {
	case app.UI.Error() != "":
		middle = statusErrStyle.Render(ansi.Truncate(app.UI.Error(), width/2, "…"))
	case drag.Dragging && drag.Data != nil:
		label := "moving " + dragLabel(app, *drag.Data)
		if drag.TargetID != "" {
			if drag.TargetValid {
				label += " ✓"
			} else {
				label += " ✗"
			}
		}
		middle = statusDragStyle.Render(label)
	}

	var right string
	switch app.UI.SaveStatus() {
	case store.SaveSaving:
		right = statusSaveStyle.Render("saving…")
	case store.SaveSaved:
		right = statusSaveStyle.Render("saved")
	case store.SaveError:
		right = statusErrStyle.Render("save failed")
	default:
		right = statusHintStyle.Render("ctrl+f search  ctrl+n new  ctrl+q quit ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	pad := gap / 2
	bar := left +
		statusBarStyle.Render(strings.Repeat(" ", pad)) +
		middle +
		statusBarStyle.Render(strings.Repeat(" ", gap-pad)) +
		right

	return statusBarStyle.Width(width).Render(bar)
}

func dragLabel(app *store.App, d dragdrop.Data) string {
	if d.Kind == dragdrop.KindNote {
		if n, ok := app.Notes.Get(d.ID); ok {
			return displayTitle(n)
		}
		return "note"
	}
	if f, ok := app.Folders.Get(d.ID); ok {
		return f.Name
	}
	return "folder"
}
