package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/mvanders/notedown/internal/store"
	"github.com/mvanders/notedown/internal/vault"
)

var (
	searchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)
	searchTitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")).Bold(true)
	searchSnippetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9399b2"))
	searchSelectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#3b4261"))
	searchHintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

// searchResult is one row of the overlay: a full-text hit, a fuzzy
// title match, or a recent note when the query is empty.
type searchResult struct {
	NoteID  string
	Title   string
	Snippet string
}

type searchModel struct {
	app   *store.App
	input textinput.Model

	results  []searchResult
	selected int
	width    int
	height   int
}

func newSearchModel(app *store.App) *searchModel {
	in := textinput.New()
	in.Placeholder = "Search notes…"
	in.Prompt = "/ "
	return &searchModel{app: app, input: in}
}

func (s *searchModel) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.input.Width = width - 8
}

// Open resets the overlay and shows recent notes until a query is
// typed.
func (s *searchModel) Open() tea.Cmd {
	s.input.SetValue("")
	s.selected = 0
	s.refresh()
	return s.input.Focus()
}

func (s *searchModel) Blur() {
	s.input.Blur()
}

// Update handles a message while the overlay is open. It returns the
// note to open ("" when none) and whether the overlay should close.
func (s *searchModel) Update(msg tea.Msg) (openID string, done bool, cmd tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		s.input, cmd = s.input.Update(msg)
		return "", false, cmd
	}

	switch key.String() {
	case "esc":
		s.app.Search.Clear()
		return "", true, nil
	case "enter":
		if s.selected < len(s.results) {
			return s.results[s.selected].NoteID, true, nil
		}
		return "", true, nil
	case "up", "ctrl+p":
		if s.selected > 0 {
			s.selected--
		}
		return "", false, nil
	case "down", "ctrl+n":
		if s.selected < len(s.results)-1 {
			s.selected++
		}
		return "", false, nil
	}

	before := s.input.Value()
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != before {
		s.app.RunSearch(s.input.Value())
		s.refresh()
	}
	return "", false, cmd
}

// refresh rebuilds the result list from the search container: FTS hits
// first, then fuzzy title matches not already present, or the recent
// notes when the query is empty.
func (s *searchModel) refresh() {
	s.results = s.results[:0]
	s.selected = 0

	query := s.app.Search.Query()
	if query == "" {
		for _, id := range s.app.Search.Recent() {
			if n, ok := s.app.Notes.Get(id); ok {
				s.results = append(s.results, searchResult{
					NoteID:  n.ID,
					Title:   displayTitle(n),
					Snippet: "recently edited",
				})
			}
		}
		return
	}

	seen := map[string]bool{}
	for _, hit := range s.app.Search.Results() {
		s.results = append(s.results, searchResult{
			NoteID:  hit.NoteID,
			Title:   hit.Title,
			Snippet: hit.Snippet,
		})
		seen[hit.NoteID] = true
	}

	notes := s.app.Notes.All()
	titles := make([]string, len(notes))
	for i, n := range notes {
		titles[i] = displayTitle(n)
	}
	for _, m := range fuzzy.Find(query, titles) {
		n := notes[m.Index]
		if seen[n.ID] {
			continue
		}
		s.results = append(s.results, searchResult{
			NoteID:  n.ID,
			Title:   titles[m.Index],
			Snippet: "title match",
		})
	}
}

func displayTitle(n vault.Note) string {
	if n.Title == "" {
		return "Untitled"
	}
	return n.Title
}

func (s *searchModel) View() string {
	var b strings.Builder
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	maxRows := s.height - 6
	if maxRows < 1 {
		maxRows = 1
	}
	shown := len(s.results)
	if shown > maxRows {
		shown = maxRows
	}

	if shown == 0 {
		if s.input.Value() == "" {
			b.WriteString(searchHintStyle.Render("No recent notes."))
		} else {
			b.WriteString(searchHintStyle.Render("No matches."))
		}
	}

	innerWidth := s.width - 6
	for i := 0; i < shown; i++ {
		r := s.results[i]
		title := searchTitleStyle.Render(ansi.Truncate(r.Title, innerWidth, "…"))
		snippet := searchSnippetStyle.Render(ansi.Truncate(r.Snippet, innerWidth, "…"))
		line := title + "\n" + snippet
		if i == s.selected {
			line = searchSelectedStyle.Render(line)
		}
		b.WriteString(line)
		if i < shown-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(searchHintStyle.Render("↑↓ navigate · enter open · esc close"))

	return searchBoxStyle.Width(s.width - 4).Render(b.String())
}
