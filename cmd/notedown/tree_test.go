package main

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/mvanders/notedown/internal/dragdrop"
	"github.com/mvanders/notedown/internal/store"
	"github.com/mvanders/notedown/internal/vault"
)

func openTestApp(t *testing.T) (*store.App, *vault.Vault) {
	t.Helper()
	v, err := vault.Open(vault.Config{DBPath: filepath.Join(t.TempDir(), "notes.db")})
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}
	t.Cleanup(func() { v.Close() })

	app := store.NewApp(v)
	app.Initialize()
	return app, v
}

func newTestTree(t *testing.T, app *store.App) *treeModel {
	t.Helper()
	tree := newTreeModel(app, dragdrop.New(), dragdrop.ResetImmediate, slog.Default(), nil)
	tree.SetSize(30, 20)
	tree.Reload()
	t.Cleanup(tree.Close)
	return tree
}

func TestTreeReloadFlattensExpandedFolders(t *testing.T) {
	app, _ := openTestApp(t)
	work, err := app.CreateFolder("", "Work")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := app.CreateFolder("", "Personal"); err != nil {
		t.Fatal(err)
	}
	inner, err := app.CreateNoteInFolder(work.ID, "Roadmap")
	if err != nil {
		t.Fatal(err)
	}
	loose, err := app.CreateNoteInFolder("", "Scratch")
	if err != nil {
		t.Fatal(err)
	}

	tree := newTestTree(t, app)

	// Collapsed: two folder rows plus the root-level note.
	app.Folders.Collapse(work.ID)
	tree.Reload()
	if len(tree.rows) != 3 {
		t.Fatalf("collapsed rows = %d, want 3", len(tree.rows))
	}

	app.Folders.Expand(work.ID)
	tree.Reload()
	if len(tree.rows) != 4 {
		t.Fatalf("expanded rows = %d, want 4", len(tree.rows))
	}

	var found bool
	for _, r := range tree.rows {
		if r.id == inner.ID {
			found = true
			if r.depth != 1 {
				t.Errorf("nested note depth = %d, want 1", r.depth)
			}
			if r.folderID != work.ID {
				t.Errorf("nested note folderID = %q", r.folderID)
			}
		}
		if r.id == loose.ID && r.depth != 0 {
			t.Errorf("root note depth = %d, want 0", r.depth)
		}
	}
	if !found {
		t.Error("expanded folder should surface its note")
	}
}

func TestTreeCursorFolderFollowsRowKind(t *testing.T) {
	app, _ := openTestApp(t)
	work, _ := app.CreateFolder("", "Work")
	note, _ := app.CreateNoteInFolder(work.ID, "Roadmap")

	tree := newTestTree(t, app)

	tree.MoveCursorTo(work.ID)
	if got := tree.CursorFolder(); got != work.ID {
		t.Errorf("CursorFolder on folder row = %q, want %q", got, work.ID)
	}

	tree.MoveCursorTo(note.ID)
	if got := tree.CursorFolder(); got != work.ID {
		t.Errorf("CursorFolder on note row = %q, want containing %q", got, work.ID)
	}
}

func TestTreeDropMovesNoteIntoFolder(t *testing.T) {
	app, v := openTestApp(t)
	work, _ := app.CreateFolder("", "Work")
	note, _ := app.CreateNoteInFolder("", "Scratch")

	tree := newTestTree(t, app)

	d := dragdrop.NewDraggable(tree.drag, dragdrop.DraggableConfig{
		Kind: dragdrop.KindNote, ID: note.ID, SourceID: "",
	})
	payload, ok := d.Start()
	if !ok {
		t.Fatal("Start should begin a drag")
	}

	z, ok := tree.zones[work.ID]
	if !ok {
		t.Fatal("folder should have a drop zone")
	}
	z.HandleDragEnter()
	z.HandleDragOver()
	if !z.HandleDrop(payload) {
		t.Fatal("drop onto a folder should be accepted")
	}

	moved, err := v.GetNote(note.ID)
	if err != nil || moved == nil {
		t.Fatalf("GetNote: %v", err)
	}
	if moved.FolderID != work.ID {
		t.Errorf("FolderID = %q, want %q", moved.FolderID, work.ID)
	}
	if tree.drag.State().Dragging {
		t.Error("drag session should end after the drop")
	}
}

func TestTreeZoneRejectsCycleAndSameContainer(t *testing.T) {
	app, _ := openTestApp(t)
	parent, _ := app.CreateFolder("", "Parent")
	child, _ := app.CreateFolder(parent.ID, "Child")
	note, _ := app.CreateNoteInFolder(parent.ID, "Here")

	tree := newTestTree(t, app)

	mgr := tree.drag
	childZone := tree.zones[child.ID]
	parentZone := tree.zones[parent.ID]

	// Folder onto its own descendant must be invalid.
	mgr.StartDrag(dragdrop.Data{Kind: dragdrop.KindFolder, ID: parent.ID})
	childZone.HandleDragOver()
	if st := mgr.State(); st.TargetValid {
		t.Error("dropping a folder into its descendant should be invalid")
	}
	mgr.EndDrag()

	// Note onto the folder it already lives in must be invalid.
	mgr.StartDrag(dragdrop.Data{Kind: dragdrop.KindNote, ID: note.ID, SourceID: parent.ID})
	parentZone.HandleDragOver()
	if st := mgr.State(); st.TargetValid {
		t.Error("dropping a note into its current folder should be invalid")
	}
	mgr.EndDrag()
}
