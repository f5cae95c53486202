package main

import (
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mvanders/notedown/internal/dragdrop"
	"github.com/mvanders/notedown/internal/store"
	"github.com/mvanders/notedown/internal/vault"
)

// rootZoneID is the drop target for moving items to the top level. It
// can never collide with a folder ID (those carry the fd- prefix).
const rootZoneID = "tree-root"

// Styles for the sidebar (Tokyo Night palette).
var (
	treeFolderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	treeNoteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	treePinStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	treeCursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("#292e42"))
	treeSelectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#3b4261"))
	treeDropOKStyle   = lipgloss.NewStyle().Background(lipgloss.Color("#1f3a2e")).Foreground(lipgloss.Color("#a6e3a1"))
	treeDropBadStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#3f2d3d")).Foreground(lipgloss.Color("#f7768e"))
	treeGhostStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true)
	treeEmptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true)
)

// treeRow is one visible line of the sidebar.
type treeRow struct {
	id       string
	label    string
	kind     dragdrop.Kind
	folderID string // containing folder ("" at root)
	depth    int
	pinned   bool
	expanded bool
}

// treePress tracks a mouse press that may become either a click or a
// drag, depending on whether the pointer moves before release.
type treePress struct {
	row  treeRow
	x, y int
}

type treeModel struct {
	app    *store.App
	drag   *dragdrop.Manager
	reject dragdrop.RejectPolicy
	logger *slog.Logger

	// onOpen is called when a note row is activated.
	onOpen func(noteID string)

	rows   []treeRow
	cursor int
	offset int
	width  int
	height int

	zones     map[string]*dragdrop.DropZone
	press     *treePress
	active    *dragdrop.Draggable
	payload   dragdrop.Payload
	hoverZone string
	fading    string // zone owed a fade-out after an animated reject
}

func newTreeModel(app *store.App, drag *dragdrop.Manager, reject dragdrop.RejectPolicy, logger *slog.Logger, onOpen func(string)) *treeModel {
	return &treeModel{
		app:    app,
		drag:   drag,
		reject: reject,
		logger: logger,
		onOpen: onOpen,
		zones:  map[string]*dragdrop.DropZone{},
	}
}

// Reload flattens the folder/note containers into visible rows and
// reconciles the drop zone set against the current folders.
func (t *treeModel) Reload() {
	t.rows = t.rows[:0]
	t.appendFolderRows("", 0)
	for _, n := range t.app.Notes.InFolder("") {
		t.rows = append(t.rows, noteRow(n, 0))
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.syncZones()
	t.clampScroll()
}

func (t *treeModel) appendFolderRows(parentID string, depth int) {
	for _, f := range t.app.Folders.Children(parentID) {
		expanded := t.app.Folders.IsExpanded(f.ID)
		t.rows = append(t.rows, treeRow{
			id:       f.ID,
			label:    f.Name,
			kind:     dragdrop.KindFolder,
			folderID: f.ParentID,
			depth:    depth,
			expanded: expanded,
		})
		if !expanded {
			continue
		}
		t.appendFolderRows(f.ID, depth+1)
		for _, n := range t.app.Notes.InFolder(f.ID) {
			t.rows = append(t.rows, noteRow(n, depth+1))
		}
	}
}

func noteRow(n vault.Note, depth int) treeRow {
	label := n.Title
	if label == "" {
		label = "Untitled"
	}
	return treeRow{
		id:       n.ID,
		label:    label,
		kind:     dragdrop.KindNote,
		folderID: n.FolderID,
		depth:    depth,
		pinned:   n.Pinned,
	}
}

// syncZones keeps one drop zone per folder plus the root zone. Stale
// zones are closed first so their manager subscriptions are released
// before a same-ID replacement subscribes.
func (t *treeModel) syncZones() {
	want := map[string]bool{rootZoneID: true}
	for _, f := range t.app.Folders.All() {
		want[f.ID] = true
	}
	for id, z := range t.zones {
		if !want[id] {
			z.Close()
			delete(t.zones, id)
			if t.hoverZone == id {
				t.hoverZone = ""
			}
		}
	}
	for id := range want {
		if _, ok := t.zones[id]; !ok {
			t.zones[id] = t.newZone(id)
		}
	}
}

func (t *treeModel) newZone(id string) *dragdrop.DropZone {
	target := id
	if id == rootZoneID {
		target = ""
	}
	return dragdrop.NewDropZone(t.drag, dragdrop.DropZoneConfig{
		ID:      id,
		Kind:    dragdrop.KindFolder,
		Accepts: []dragdrop.Kind{dragdrop.KindNote, dragdrop.KindFolder},
		Validate: func(d dragdrop.Data) bool {
			if d.SourceID == target {
				return false // already lives here
			}
			if d.Kind == dragdrop.KindFolder && target != "" {
				return !t.app.Folders.IsDescendant(target, d.ID)
			}
			return true
		},
		OnDrop: func(d dragdrop.Data) error {
			if d.Kind == dragdrop.KindNote {
				return t.app.MoveNote(d.ID, target)
			}
			return t.app.MoveFolder(d.ID, target)
		},
		Reject: t.reject,
	})
}

// Close releases all drop zone subscriptions.
func (t *treeModel) Close() {
	for id, z := range t.zones {
		z.Close()
		delete(t.zones, id)
	}
}

func (t *treeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.clampScroll()
}

// HandleMouse routes a mouse event through the drag bindings. It
// returns true when the event changed tree state.
func (t *treeModel) HandleMouse(msg tea.MouseMsg) bool {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return false
		}
		if row, ok := t.rowAt(msg); ok {
			t.press = &treePress{row: row, x: msg.X, y: msg.Y}
			return true
		}
		return false

	case tea.MouseActionMotion:
		if t.press == nil {
			return false
		}
		if t.active == nil {
			if msg.X == t.press.x && msg.Y == t.press.y {
				return false
			}
			t.beginDrag()
		}
		t.trackHover(msg)
		return true

	case tea.MouseActionRelease:
		if t.press == nil {
			return false
		}
		press := t.press
		t.press = nil
		if t.active == nil {
			t.activate(press.row)
			return true
		}
		t.finishDrag(msg)
		return true
	}
	return false
}

// beginDrag promotes the pending press into a drag session.
func (t *treeModel) beginDrag() {
	row := t.press.row
	d := dragdrop.NewDraggable(t.drag, dragdrop.DraggableConfig{
		Kind:     row.kind,
		ID:       row.id,
		SourceID: row.folderID,
	})
	payload, ok := d.Start()
	if !ok {
		return
	}
	t.active = d
	t.payload = payload
	t.logger.Debug("drag started", "kind", row.kind, "id", row.id)
}

// trackHover updates enter/leave/over against the zone under the
// pointer, treating everything below the last row as the root zone.
func (t *treeModel) trackHover(msg tea.MouseMsg) {
	id := t.zoneUnder(msg)
	if id != t.hoverZone {
		if z, ok := t.zones[t.hoverZone]; ok {
			z.HandleDragLeave()
		}
		t.hoverZone = id
		if z, ok := t.zones[id]; ok {
			z.HandleDragEnter()
		}
	}
	if z, ok := t.zones[id]; ok {
		z.HandleDragOver()
	} else if t.active != nil {
		t.active.HandleOverSelf()
	}
}

// zoneUnder resolves the drop zone ID for the pointer position: the
// folder row under it, the containing folder of a note row, or the
// root zone for empty sidebar space.
func (t *treeModel) zoneUnder(msg tea.MouseMsg) string {
	row, ok := t.rowAt(msg)
	if !ok {
		if msg.X < t.width {
			return rootZoneID
		}
		return ""
	}
	if row.kind == dragdrop.KindFolder {
		return row.id
	}
	if row.folderID == "" {
		return rootZoneID
	}
	return row.folderID
}

func (t *treeModel) finishDrag(msg tea.MouseMsg) {
	active := t.active
	t.active = nil
	if z, ok := t.zones[t.hoverZone]; ok && t.zoneUnder(msg) == t.hoverZone {
		if !z.HandleDrop(t.payload) && t.reject == dragdrop.ResetAnimated {
			t.fading = t.hoverZone
		}
	} else {
		if z, ok := t.zones[t.hoverZone]; ok {
			z.HandleDragLeave()
		}
		active.End()
	}
	t.hoverZone = ""
	t.payload = nil
}

// TakeFading returns and clears the zone ID left highlighted by an
// animated reject, so the caller can schedule its fade-out.
func (t *treeModel) TakeFading() string {
	id := t.fading
	t.fading = ""
	return id
}

// FinishFade releases the rejected-drop highlight on the given zone.
func (t *treeModel) FinishFade(id string) {
	if z, ok := t.zones[id]; ok {
		z.ClearHover()
	}
}

// CancelDrag aborts an in-flight drag (Esc).
func (t *treeModel) CancelDrag() bool {
	if t.active == nil {
		if t.press != nil {
			t.press = nil
			return true
		}
		return false
	}
	if z, ok := t.zones[t.hoverZone]; ok {
		z.HandleDragLeave()
	}
	t.active.End()
	t.active = nil
	t.press = nil
	t.hoverZone = ""
	t.payload = nil
	return true
}

// activate handles a plain click on a row.
func (t *treeModel) activate(row treeRow) {
	for i, r := range t.rows {
		if r.id == row.id {
			t.cursor = i
			break
		}
	}
	if row.kind == dragdrop.KindFolder {
		t.app.Folders.Select(row.id)
		t.app.Folders.ToggleExpanded(row.id)
		t.Reload()
		return
	}
	t.app.Notes.Select(row.id)
	if t.onOpen != nil {
		t.onOpen(row.id)
	}
}

// HandleKey processes tree-focused key presses. Returns true when the
// key was consumed.
func (t *treeModel) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		t.moveCursor(-1)
	case "down", "j":
		t.moveCursor(1)
	case "enter", " ":
		if row, ok := t.currentRow(); ok {
			t.activate(row)
		}
	case "left", "h":
		if row, ok := t.currentRow(); ok && row.kind == dragdrop.KindFolder && row.expanded {
			t.app.Folders.Collapse(row.id)
			t.Reload()
		}
	case "right", "l":
		if row, ok := t.currentRow(); ok && row.kind == dragdrop.KindFolder && !row.expanded {
			t.app.Folders.Expand(row.id)
			t.Reload()
		}
	default:
		return false
	}
	return true
}

func (t *treeModel) moveCursor(delta int) {
	if len(t.rows) == 0 {
		return
	}
	t.cursor += delta
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	t.clampScroll()
}

func (t *treeModel) currentRow() (treeRow, bool) {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return treeRow{}, false
	}
	return t.rows[t.cursor], true
}

// CursorFolder returns the folder the cursor sits in: the folder row
// itself, or the containing folder of a note row.
func (t *treeModel) CursorFolder() string {
	row, ok := t.currentRow()
	if !ok {
		return ""
	}
	if row.kind == dragdrop.KindFolder {
		return row.id
	}
	return row.folderID
}

// MoveCursorTo positions the cursor on the row with the given ID.
func (t *treeModel) MoveCursorTo(id string) {
	for i, r := range t.rows {
		if r.id == id {
			t.cursor = i
			t.clampScroll()
			return
		}
	}
}

func (t *treeModel) clampScroll() {
	if t.height <= 0 {
		return
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+t.height {
		t.offset = t.cursor - t.height + 1
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// rowAt maps a mouse event onto the visible row under it via its zone.
func (t *treeModel) rowAt(msg tea.MouseMsg) (treeRow, bool) {
	end := t.offset + t.height
	if end > len(t.rows) {
		end = len(t.rows)
	}
	for i := t.offset; i < end; i++ {
		if zone.Get("row:" + t.rows[i].id).InBounds(msg) {
			return t.rows[i], true
		}
	}
	return treeRow{}, false
}

func (t *treeModel) View() string {
	if len(t.rows) == 0 {
		return treeEmptyStyle.Render("  no notes yet — ctrl+n")
	}

	st := t.drag.State()
	selectedNote := t.app.Notes.Selected()
	selectedFolder := t.app.Folders.Selected()

	var b strings.Builder
	end := t.offset + t.height
	if end > len(t.rows) {
		end = len(t.rows)
	}
	for i := t.offset; i < end; i++ {
		row := t.rows[i]
		b.WriteString(zone.Mark("row:"+row.id, t.renderRow(row, i, st, selectedNote, selectedFolder)))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (t *treeModel) renderRow(row treeRow, idx int, st dragdrop.State, selectedNote, selectedFolder string) string {
	var label strings.Builder
	label.WriteString(strings.Repeat("  ", row.depth))
	if row.kind == dragdrop.KindFolder {
		if row.expanded {
			label.WriteString("▾ ")
		} else {
			label.WriteString("▸ ")
		}
	} else if row.pinned {
		label.WriteString(treePinStyle.Render("∗") + " ")
	} else {
		label.WriteString("· ")
	}
	label.WriteString(row.label)

	line := ansi.Truncate(label.String(), t.width-1, "…")

	style := treeNoteStyle
	if row.kind == dragdrop.KindFolder {
		style = treeFolderStyle
	}

	switch {
	case st.Dragging && st.Data != nil && st.Data.ID == row.id:
		style = treeGhostStyle
	case st.Dragging && t.dropTargetRow(row) == st.TargetID && st.TargetID != "":
		if st.TargetValid {
			style = treeDropOKStyle
		} else {
			style = treeDropBadStyle
		}
	case !st.Dragging && t.zoneHovering(t.dropTargetRow(row)):
		// Rejected-drop highlight fading out under ResetAnimated.
		style = treeDropBadStyle
	case row.kind == dragdrop.KindNote && row.id == selectedNote:
		style = style.Inherit(treeSelectedStyle)
	case row.kind == dragdrop.KindFolder && row.id == selectedFolder:
		style = style.Inherit(treeSelectedStyle)
	case idx == t.cursor:
		style = style.Inherit(treeCursorStyle)
	}

	return style.Width(t.width).Render(line)
}

func (t *treeModel) zoneHovering(id string) bool {
	z, ok := t.zones[id]
	return ok && z.Hovering()
}

// dropTargetRow maps a row to the zone ID a drop on it would land in.
func (t *treeModel) dropTargetRow(row treeRow) string {
	if row.kind == dragdrop.KindFolder {
		return row.id
	}
	if row.folderID == "" {
		return rootZoneID
	}
	return row.folderID
}
