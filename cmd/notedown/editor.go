package main

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvanders/notedown/internal/store"
)

// autosaveMsg fires after the editor has been idle; seq guards against
// stale timers from earlier keystrokes.
type autosaveMsg struct {
	noteID string
	seq    int
}

var editorPlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))

type editorModel struct {
	app   *store.App
	ta    textarea.Model
	delay time.Duration

	noteID string
	dirty  bool
	seq    int
}

func newEditorModel(app *store.App, delay time.Duration) *editorModel {
	ta := textarea.New()
	ta.Placeholder = "Select or create a note to start writing."
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.FocusedStyle.Placeholder = editorPlaceholderStyle
	ta.BlurredStyle.Placeholder = editorPlaceholderStyle
	return &editorModel{app: app, ta: ta, delay: delay}
}

// Open loads a note into the textarea, flushing unsaved edits to the
// previous note first.
func (e *editorModel) Open(noteID string) {
	e.Flush()
	note, ok := e.app.Notes.Get(noteID)
	if !ok {
		return
	}
	e.noteID = noteID
	e.dirty = false
	e.seq++
	e.ta.SetValue(note.Content)
	e.ta.CursorEnd()
}

// Closed clears the editor when its note goes away.
func (e *editorModel) Close() {
	e.noteID = ""
	e.dirty = false
	e.seq++
	e.ta.SetValue("")
}

func (e *editorModel) NoteID() string { return e.noteID }
func (e *editorModel) Dirty() bool    { return e.dirty }

func (e *editorModel) Content() string {
	return e.ta.Value()
}

func (e *editorModel) SetSize(width, height int) {
	e.ta.SetWidth(width)
	e.ta.SetHeight(height)
}

func (e *editorModel) Focus() tea.Cmd { return e.ta.Focus() }
func (e *editorModel) Blur()          { e.ta.Blur() }
func (e *editorModel) Focused() bool  { return e.ta.Focused() }

// Update feeds a message to the textarea and schedules an autosave
// when the content changed.
func (e *editorModel) Update(msg tea.Msg) tea.Cmd {
	if save, ok := msg.(autosaveMsg); ok {
		if save.noteID == e.noteID && save.seq == e.seq && e.dirty {
			e.Flush()
		}
		return nil
	}

	before := e.ta.Value()
	var cmd tea.Cmd
	e.ta, cmd = e.ta.Update(msg)
	if e.noteID == "" || e.ta.Value() == before {
		return cmd
	}

	e.dirty = true
	e.seq++
	save := autosaveMsg{noteID: e.noteID, seq: e.seq}
	return tea.Batch(cmd, tea.Tick(e.delay, func(time.Time) tea.Msg {
		return save
	}))
}

// Flush writes pending edits through the orchestrator immediately.
func (e *editorModel) Flush() {
	if e.noteID == "" || !e.dirty {
		return
	}
	if err := e.app.SaveNote(e.noteID, e.ta.Value()); err != nil {
		return // surfaced via the UI error state
	}
	e.dirty = false
}

func (e *editorModel) View() string {
	return e.ta.View()
}
