package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mvanders/notedown/internal/dragdrop"
	"github.com/mvanders/notedown/internal/store"
	"github.com/mvanders/notedown/internal/vault"
)

// TuiCmd opens the interactive notes TUI.
type TuiCmd struct{}

// vaultChangedMsg reports an external write to the database file.
type vaultChangedMsg struct{}

// zoneFadeMsg releases a rejected-drop highlight after its fade delay.
type zoneFadeMsg struct{ id string }

const rejectFadeDelay = 300 * time.Millisecond

type focusArea int

const (
	focusTree focusArea = iota
	focusEditor
)

type promptKind int

const (
	promptNone promptKind = iota
	promptNewFolder
	promptRenameFolder
)

var (
	paneBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("#3b4261"))

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#e0af68")).
			Padding(0, 1)

	logDebugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))
	logInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	logWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	logErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
)

type rootModel struct {
	app    *store.App
	vlt    *vault.Vault
	drag   *dragdrop.Manager
	cfg    *UserConfig
	logger *slog.Logger
	ring   *logRing

	tree    *treeModel
	editor  *editorModel
	preview *previewModel
	search  *searchModel

	watchCh <-chan struct{}

	focus       focusArea
	showSearch  bool
	showPreview bool
	showLogs    bool

	prompt       promptKind
	promptInput  textinput.Model
	promptTarget string // folder being renamed, or parent for a new folder

	width  int
	height int
}

// Run wires the vault, store, and drag manager together and hands the
// terminal to Bubble Tea.
func (cmd *TuiCmd) Run(cli *CLI, cfg *UserConfig) error {
	ring := newLogRing(500)
	v, err := cli.openVault(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	logger, closeLog, err := setupLogger(ring, v.Path(), cli.Debug)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	app := store.NewApp(v)
	app.Initialize()

	watchCh, stopWatch, err := v.Watch()
	if err != nil {
		logger.Warn("vault watcher unavailable", "error", err)
		watchCh = nil
	} else {
		defer stopWatch()
	}

	zone.NewGlobal()
	defer zone.Close()

	drag := dragdrop.New()
	m := &rootModel{
		app:     app,
		vlt:     v,
		drag:    drag,
		cfg:     cfg,
		logger:  logger,
		ring:    ring,
		editor:  newEditorModel(app, time.Duration(cfg.AutosaveSeconds)*time.Second),
		preview: newPreviewModel(cfg.PreviewStyle),
		search:  newSearchModel(app),
		watchCh: watchCh,
	}
	m.tree = newTreeModel(app, drag, cfg.rejectPolicy(), logger, m.openNote)
	m.promptInput = textinput.New()
	m.tree.Reload()
	defer m.tree.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

func (m *rootModel) Init() tea.Cmd {
	return m.waitVault()
}

// waitVault turns the watcher channel into a Bubble Tea message.
func (m *rootModel) waitVault() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return vaultChangedMsg{}
	}
}

// surfaceError routes a failure into the status bar; nil is a no-op.
func (m *rootModel) surfaceError(err error, context string) {
	if err != nil {
		m.app.HandleError(err.Error(), context)
	}
}

// renderPreview re-renders the markdown pane, surfacing glamour failures
// in the status bar instead of dropping them.
func (m *rootModel) renderPreview(content string) {
	m.surfaceError(m.preview.Render(content), "render preview")
}

func (m *rootModel) openNote(noteID string) {
	m.editor.Open(noteID)
	m.renderPreview(m.editor.Content())
	m.focus = focusEditor
	m.editor.Focus()
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case vaultChangedMsg:
		m.refreshFromDisk()
		return m, m.waitVault()

	case zoneFadeMsg:
		m.tree.FinishFade(msg.id)
		return m, nil

	case autosaveMsg:
		cmd := m.editor.Update(msg)
		m.renderPreview(m.editor.Content())
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.showSearch {
		_, _, cmd := m.search.Update(msg)
		return m, cmd
	}
	return m, m.editor.Update(msg)
}

// refreshFromDisk reloads state after an external writer touched the
// database, dropping the editor if its note disappeared.
func (m *rootModel) refreshFromDisk() {
	m.logger.Debug("vault changed on disk, reloading")
	m.app.Refresh()
	m.tree.Reload()
	if id := m.editor.NoteID(); id != "" {
		if note, ok := m.app.Notes.Get(id); !ok {
			m.editor.Close()
			m.renderPreview("")
		} else if !m.editor.Dirty() && note.Content != m.editor.Content() {
			m.editor.Open(id)
			m.renderPreview(note.Content)
		}
	}
}

func (m *rootModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showSearch || m.showLogs || m.prompt != promptNone {
		return m, nil
	}
	if m.tree.HandleMouse(msg) {
		m.tree.Reload() // moves may have changed the hierarchy
		if id := m.tree.TakeFading(); id != "" {
			return m, tea.Tick(rejectFadeDelay, func(time.Time) tea.Msg {
				return zoneFadeMsg{id: id}
			})
		}
		return m, nil
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.focus = focusEditor
		return m, m.editor.Focus()
	}
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if m.showPreview {
			return m, m.preview.Update(msg)
		}
		return m, m.editor.Update(msg)
	}
	return m, nil
}

func (m *rootModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal layers eat everything except their own dismissal.
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}
	if m.showSearch {
		openID, done, cmd := m.search.Update(msg)
		if done {
			m.showSearch = false
			m.search.Blur()
		}
		if openID != "" {
			m.app.SelectNoteAndExpandAncestors(openID)
			m.tree.Reload()
			m.tree.MoveCursorTo(openID)
			m.openNote(openID)
		}
		return m, cmd
	}
	if m.showLogs {
		switch msg.String() {
		case "esc", "q", "ctrl+l":
			m.showLogs = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		m.editor.Flush()
		return m, tea.Quit

	case "esc":
		if m.tree.CancelDrag() {
			return m, nil
		}
		if m.focus == focusEditor {
			m.editor.Blur()
			m.focus = focusTree
		}
		return m, nil

	case "tab":
		if m.focus == focusTree && m.editor.NoteID() != "" {
			m.focus = focusEditor
			return m, m.editor.Focus()
		}
		m.editor.Blur()
		m.focus = focusTree
		return m, nil

	case "ctrl+f":
		m.showSearch = true
		return m, m.search.Open()

	case "ctrl+l":
		m.showLogs = true
		return m, nil

	case "ctrl+n":
		return m, m.createNote(m.tree.CursorFolder())

	case "ctrl+s":
		m.editor.Flush()
		m.renderPreview(m.editor.Content())
		return m, nil

	case "ctrl+p":
		m.showPreview = !m.showPreview
		m.layout()
		if m.showPreview {
			m.renderPreview(m.editor.Content())
		}
		return m, nil

	case "ctrl+y":
		if m.editor.NoteID() != "" {
			m.surfaceError(clipboard.WriteAll(m.editor.Content()), "copy to clipboard")
		}
		return m, nil
	}

	if m.focus == focusTree {
		return m.handleTreeKey(msg)
	}
	cmd := m.editor.Update(msg)
	return m, cmd
}

// handleTreeKey covers sidebar-only bindings on top of the tree's own
// cursor movement.
func (m *rootModel) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		return m, m.createNote(m.tree.CursorFolder())
	case "f":
		m.openPrompt(promptNewFolder, m.tree.CursorFolder(), "")
		return m, m.promptInput.Focus()
	case "r":
		if row, ok := m.tree.currentRow(); ok && row.kind == dragdrop.KindFolder {
			m.openPrompt(promptRenameFolder, row.id, row.label)
			return m, m.promptInput.Focus()
		}
		return m, nil
	case "d":
		m.deleteCurrent()
		return m, nil
	case "p":
		if row, ok := m.tree.currentRow(); ok && row.kind == dragdrop.KindNote {
			if err := m.vlt.TogglePin(row.id); err != nil {
				m.app.HandleError(err.Error(), "toggle pin")
			} else {
				m.app.Refresh()
				m.tree.Reload()
			}
		}
		return m, nil
	}
	if m.tree.HandleKey(msg) {
		return m, nil
	}
	return m, nil
}

func (m *rootModel) createNote(folderID string) tea.Cmd {
	note, err := m.app.CreateNoteInFolder(folderID, "Untitled")
	if err != nil {
		return nil
	}
	if folderID != "" {
		m.app.Folders.Expand(folderID)
	}
	m.tree.Reload()
	m.tree.MoveCursorTo(note.ID)
	m.openNote(note.ID)
	return m.editor.Focus()
}

func (m *rootModel) deleteCurrent() {
	row, ok := m.tree.currentRow()
	if !ok {
		return
	}
	if row.kind == dragdrop.KindNote {
		if m.editor.NoteID() == row.id {
			m.editor.Close()
			m.renderPreview("")
		}
		m.app.DeleteNote(row.id)
	} else {
		if eid := m.editor.NoteID(); eid != "" {
			if n, ok := m.app.Notes.Get(eid); ok &&
				(n.FolderID == row.id || m.app.Folders.IsDescendant(n.FolderID, row.id)) {
				m.editor.Close()
				m.renderPreview("")
			}
		}
		m.app.DeleteFolder(row.id)
	}
	m.tree.Reload()
}

func (m *rootModel) openPrompt(kind promptKind, target, initial string) {
	m.prompt = kind
	m.promptTarget = target
	m.promptInput.SetValue(initial)
	m.promptInput.CursorEnd()
}

func (m *rootModel) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		m.promptInput.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.promptInput.Value())
		kind, target := m.prompt, m.promptTarget
		m.prompt = promptNone
		m.promptInput.Blur()
		if name == "" {
			return m, nil
		}
		switch kind {
		case promptNewFolder:
			if f, err := m.app.CreateFolder(target, name); err == nil {
				if target != "" {
					m.app.Folders.Expand(target)
				}
				m.tree.Reload()
				m.tree.MoveCursorTo(f.ID)
			}
		case promptRenameFolder:
			if err := m.vlt.RenameFolder(target, name); err != nil {
				m.app.HandleError(err.Error(), "rename folder")
			} else {
				m.app.Refresh()
				m.tree.Reload()
			}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

// layout recomputes pane sizes from the window size.
func (m *rootModel) layout() {
	contentHeight := m.height - 1 // status bar
	if contentHeight < 1 {
		contentHeight = 1
	}

	treeWidth := m.width / 4
	if treeWidth < 24 {
		treeWidth = 24
	}
	if treeWidth > 40 {
		treeWidth = 40
	}
	if treeWidth > m.width/2 {
		treeWidth = m.width / 2
	}
	m.tree.SetSize(treeWidth, contentHeight)

	rightWidth := m.width - treeWidth - 1
	if rightWidth < 1 {
		rightWidth = 1
	}
	if m.showPreview {
		editorWidth := rightWidth / 2
		m.editor.SetSize(editorWidth, contentHeight)
		m.surfaceError(m.preview.SetSize(rightWidth-editorWidth-1, contentHeight), "resize preview")
	} else {
		m.editor.SetSize(rightWidth, contentHeight)
	}
	m.search.SetSize(min(rightWidth, 72), contentHeight)
}

func (m *rootModel) View() string {
	if m.width == 0 {
		return "loading…"
	}

	contentHeight := m.height - 1
	treePane := paneBorderStyle.Height(contentHeight).Render(m.tree.View())

	var right string
	switch {
	case m.showLogs:
		right = m.renderLogs()
	case m.showSearch:
		right = lipgloss.Place(m.width-lipgloss.Width(treePane), contentHeight,
			lipgloss.Center, lipgloss.Center, m.search.View())
	case m.showPreview:
		right = lipgloss.JoinHorizontal(lipgloss.Top,
			paneBorderStyle.Height(contentHeight).Render(m.editor.View()),
			m.preview.View())
	default:
		right = m.editor.View()
	}

	if m.prompt != promptNone {
		label := "New folder"
		if m.prompt == promptRenameFolder {
			label = "Rename folder"
		}
		box := promptStyle.Render(label + "\n" + m.promptInput.View())
		right = lipgloss.Place(m.width-lipgloss.Width(treePane), contentHeight,
			lipgloss.Center, lipgloss.Center, box)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, treePane, right)
	bar := renderStatusBar(m.app, m.drag.State(), m.location(), m.width)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, content, bar))
}

// location renders the folder path of the open note for the status bar.
func (m *rootModel) location() string {
	id := m.editor.NoteID()
	if id == "" {
		return ""
	}
	note, ok := m.app.Notes.Get(id)
	if !ok {
		return ""
	}
	parts := []string{displayTitle(note)}
	for fid := note.FolderID; fid != ""; {
		f, ok := m.app.Folders.Get(fid)
		if !ok {
			break
		}
		parts = append([]string{f.Name}, parts...)
		fid = f.ParentID
	}
	return strings.Join(parts, " / ")
}

func (m *rootModel) renderLogs() string {
	entries := m.ring.Entries()
	height := m.height - 1
	if len(entries) > height {
		entries = entries[len(entries)-height:]
	}
	var b strings.Builder
	for i, e := range entries {
		style := logInfoStyle
		switch {
		case e.Level >= slog.LevelError:
			style = logErrorStyle
		case e.Level >= slog.LevelWarn:
			style = logWarnStyle
		case e.Level < slog.LevelInfo:
			style = logDebugStyle
		}
		b.WriteString(style.Render(e.Line))
		if i < len(entries)-1 {
			b.WriteByte('\n')
		}
	}
	if len(entries) == 0 {
		return fmt.Sprintf("no log output yet (%d total)", m.ring.Seq())
	}
	return b.String()
}
