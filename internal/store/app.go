package store

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mvanders/notedown/internal/vault"
)

// Persistence is the slice of the vault the orchestrator depends on.
type Persistence interface {
	ListNotes() ([]vault.Note, error)
	CreateNote(folderID, title string) (*vault.Note, error)
	UpdateNoteContent(id, content string) error
	DeleteNote(id string) error
	MoveNote(id, folderID string) error

	ListFolders() ([]vault.Folder, error)
	CreateFolder(parentID, name string) (*vault.Folder, error)
	DeleteFolder(id string) error
	MoveFolder(id, parentID string) error

	RecentNotes(limit int) ([]vault.Note, error)
	Search(query string) ([]vault.SearchHit, error)
}

// App sequences operations that touch more than one state container so a
// single user action produces a consistent multi-store outcome. The
// containers stay independently mutable; App provides no transaction, only
// ordering, and a mutual-exclusion guard so no two orchestrated operations
// interleave regardless of how eagerly the UI fires them.
type App struct {
	Notes   *Notes
	Folders *Folders
	Search  *Search
	UI      *UI

	vault Persistence

	opMu        sync.Mutex
	initialized bool
}

// NewApp wires fresh containers around the given persistence layer.
func NewApp(p Persistence) *App {
	return &App{
		Notes:   NewNotes(),
		Folders: NewFolders(),
		Search:  NewSearch(),
		UI:      NewUI(),
		vault:   p,
	}
}

// Initialized reports whether Initialize has fully succeeded.
func (a *App) Initialized() bool {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	return a.initialized
}

// Initialize loads the vault into the containers. On any failure the
// error is reported through the uniform path, loading is cleared, and the
// app stays uninitialized so the caller can retry; Initialize never
// re-raises.
func (a *App) Initialize() {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	a.UI.SetLoading(true)
	a.UI.ClearError()

	notes, err := a.vault.ListNotes()
	if err != nil {
		a.handleError(err.Error(), "failed to load notes")
		return
	}
	folders, err := a.vault.ListFolders()
	if err != nil {
		a.handleError(err.Error(), "failed to load folders")
		return
	}

	a.Notes.SetAll(notes)
	a.Folders.SetAll(folders)
	a.refreshRecent()

	a.UI.SetLoading(false)
	a.initialized = true
	slog.Info("store: initialized", "notes", len(notes), "folders", len(folders))
}

// Refresh reloads the containers from the vault after an external change
// (another instance wrote the database). Like Initialize it reports
// failures and swallows them.
func (a *App) Refresh() {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	if err := a.reloadNotes(); err != nil {
		return
	}
	if err := a.reloadFolders(); err != nil {
		return
	}
	a.refreshRecent()
	a.rerunSearch()
}

// CreateNoteInFolder selects the target folder, creates a note there, and
// selects the new note. Creation failure aborts the sequence and re-raises
// so the caller can keep its creation UI open.
func (a *App) CreateNoteInFolder(folderID, title string) (*vault.Note, error) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	a.Folders.Select(folderID)

	n, err := a.vault.CreateNote(folderID, title)
	if err != nil {
		a.handleError(err.Error(), "failed to create note")
		return nil, fmt.Errorf("create note: %w", err)
	}

	a.Notes.Upsert(*n)
	a.Notes.Select(n.ID)
	a.refreshRecent()
	return n, nil
}

// CreateFolder creates a folder under parentID and expands its parent so
// the new folder is visible.
func (a *App) CreateFolder(parentID, name string) (*vault.Folder, error) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	f, err := a.vault.CreateFolder(parentID, name)
	if err != nil {
		a.handleError(err.Error(), "failed to create folder")
		return nil, fmt.Errorf("create folder: %w", err)
	}

	if err := a.reloadFolders(); err != nil {
		return f, nil
	}
	if parentID != "" {
		a.Folders.Expand(parentID)
	}
	a.Folders.Select(f.ID)
	return f, nil
}

// SaveNote persists editor content, tracking save status through the UI
// container.
func (a *App) SaveNote(id, content string) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	a.UI.SetSaveStatus(SaveSaving)
	if err := a.vault.UpdateNoteContent(id, content); err != nil {
		a.handleError(err.Error(), "failed to save note")
		return fmt.Errorf("save note: %w", err)
	}
	a.UI.SetSaveStatus(SaveSaved)

	if err := a.reloadNotes(); err != nil {
		return nil
	}
	a.refreshRecent()
	a.rerunSearch()
	return nil
}

// DeleteNote removes a note. If it was selected the selection clears; if
// it appeared in the displayed search results the active query re-runs so
// results stay consistent with the backing store.
func (a *App) DeleteNote(id string) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	inResults := a.Search.HasResult(id)

	if err := a.vault.DeleteNote(id); err != nil {
		a.handleError(err.Error(), "failed to delete note")
		return
	}

	a.Notes.Remove(id)
	if a.Notes.Selected() == id {
		a.Notes.ClearSelection()
	}
	if inResults {
		a.rerunSearch()
	}
	a.refreshRecent()
}

// DeleteFolder removes a folder. Deletion cascades to contained notes at
// the persistence layer, so the full note set is reloaded rather than
// guessing which notes survived; both selections clear unconditionally.
func (a *App) DeleteFolder(id string) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	if err := a.vault.DeleteFolder(id); err != nil {
		a.handleError(err.Error(), "failed to delete folder")
		return
	}

	if err := a.reloadNotes(); err != nil {
		return
	}
	if err := a.reloadFolders(); err != nil {
		return
	}

	a.Folders.ClearSelection()
	a.Notes.ClearSelection()
	a.refreshRecent()
	a.rerunSearch()
}

// MoveNote reparents a note; the drop handler entry point for note drags.
func (a *App) MoveNote(id, folderID string) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	if err := a.vault.MoveNote(id, folderID); err != nil {
		a.handleError(err.Error(), "failed to move note")
		return fmt.Errorf("move note: %w", err)
	}
	if err := a.reloadNotes(); err != nil {
		return nil
	}
	if folderID != "" {
		a.Folders.Expand(folderID)
	}
	return nil
}

// MoveFolder reparents a folder; the drop handler entry point for folder
// drags. Moves into the folder's own subtree are rejected here as well as
// at the drop zone, since the zone's validator is advisory.
func (a *App) MoveFolder(id, parentID string) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	if id == parentID || a.Folders.IsDescendant(parentID, id) {
		err := fmt.Errorf("cannot move folder into its own subtree")
		a.handleError(err.Error(), "failed to move folder")
		return err
	}

	if err := a.vault.MoveFolder(id, parentID); err != nil {
		a.handleError(err.Error(), "failed to move folder")
		return fmt.Errorf("move folder: %w", err)
	}
	if err := a.reloadFolders(); err != nil {
		return nil
	}
	if parentID != "" {
		a.Folders.Expand(parentID)
	}
	return nil
}

// SelectNoteAndExpandAncestors selects a note and expands every folder on
// its ancestor chain so it is visible in a collapsed tree.
func (a *App) SelectNoteAndExpandAncestors(id string) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	n, ok := a.Notes.Get(id)
	if !ok {
		return
	}
	a.Notes.Select(id)

	current := n.FolderID
	for current != "" {
		a.Folders.Expand(current)
		parent, ok := a.Folders.Parent(current)
		if !ok {
			break
		}
		current = parent
	}
}

// RunSearch executes a query and publishes the results.
func (a *App) RunSearch(query string) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	a.Search.SetQuery(query)
	if query == "" {
		a.Search.Clear()
		return
	}
	hits, err := a.vault.Search(query)
	if err != nil {
		a.handleError(err.Error(), "search failed")
		return
	}
	a.Search.SetResults(hits)
}

// HandleError is the single user-visible failure path: it composes
// "context: message" (the bare message when no context is given), pushes
// it into UI error state, clears loading, and marks the save status
// errored so every operation reports failures identically.
func (a *App) HandleError(message, context string) {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	a.handleError(message, context)
}

func (a *App) handleError(message, context string) {
	composed := message
	if context != "" {
		composed = context + ": " + message
	}
	slog.Error("store: "+context, "error", message)
	a.UI.SetError(composed)
	a.UI.SetLoading(false)
	a.UI.SetSaveStatus(SaveError)
}

// --- helpers, called with opMu held ---

func (a *App) reloadNotes() error {
	notes, err := a.vault.ListNotes()
	if err != nil {
		a.handleError(err.Error(), "failed to reload notes")
		return err
	}
	a.Notes.SetAll(notes)
	return nil
}

func (a *App) reloadFolders() error {
	folders, err := a.vault.ListFolders()
	if err != nil {
		a.handleError(err.Error(), "failed to reload folders")
		return err
	}
	a.Folders.SetAll(folders)
	return nil
}

// refreshRecent rebuilds the recent-notes projection. Failures are logged
// and swallowed: a stale projection is not worth surfacing.
func (a *App) refreshRecent() {
	recent, err := a.vault.RecentNotes(0)
	if err != nil {
		slog.Warn("store: refresh recent notes failed", "error", err)
		return
	}
	ids := make([]string, len(recent))
	for i, n := range recent {
		ids[i] = n.ID
	}
	a.Search.SetRecent(ids)
}

// rerunSearch re-executes the active query, if any.
func (a *App) rerunSearch() {
	query := a.Search.Query()
	if query == "" {
		return
	}
	hits, err := a.vault.Search(query)
	if err != nil {
		slog.Warn("store: search refresh failed", "query", query, "error", err)
		return
	}
	a.Search.SetResults(hits)
}
