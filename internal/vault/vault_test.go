package vault

import (
	"path/filepath"
	"testing"
)

// openTestVault creates a temporary vault for testing.
func openTestVault(t *testing.T) *Vault {
	t.Helper()
	dir := t.TempDir()
	v, err := Open(Config{DBPath: filepath.Join(dir, "notes.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { v.Close() })
	return v
}

func TestNoteCRUD(t *testing.T) {
	v := openTestVault(t)

	n, err := v.CreateNote("", "Shopping")
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if n.ID == "" || n.FolderID != "" {
		t.Fatalf("unexpected note %+v", n)
	}

	if err := v.UpdateNoteContent(n.ID, "# Groceries\nmilk and eggs"); err != nil {
		t.Fatalf("UpdateNoteContent: %v", err)
	}

	got, err := v.GetNote(n.ID)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got.Title != "Groceries" {
		t.Errorf("title derived from first line = %q, want Groceries", got.Title)
	}

	if err := v.TogglePin(n.ID); err != nil {
		t.Fatalf("TogglePin: %v", err)
	}
	got, _ = v.GetNote(n.ID)
	if !got.Pinned {
		t.Error("expected pinned after toggle")
	}

	if err := v.DeleteNote(n.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	got, err = v.GetNote(n.ID)
	if err != nil || got != nil {
		t.Fatalf("deleted note still present: %+v, %v", got, err)
	}

	if err := v.DeleteNote("nt-missing"); err == nil {
		t.Error("deleting a missing note should error")
	}
}

func TestFolderHierarchyAndAncestors(t *testing.T) {
	v := openTestVault(t)

	root, _ := v.CreateFolder("", "projects")
	mid, _ := v.CreateFolder(root.ID, "go")
	leaf, _ := v.CreateFolder(mid.ID, "notedown")

	chain, err := v.Ancestors(leaf.ID)
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	if len(chain) != 2 || chain[0] != mid.ID || chain[1] != root.ID {
		t.Fatalf("ancestor chain = %v, want [%s %s]", chain, mid.ID, root.ID)
	}

	chain, err = v.Ancestors(root.ID)
	if err != nil || len(chain) != 0 {
		t.Fatalf("root ancestors = %v, %v", chain, err)
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	v := openTestVault(t)

	parent, _ := v.CreateFolder("", "parent")
	child, _ := v.CreateFolder(parent.ID, "child")
	inParent, _ := v.CreateNote(parent.ID, "a")
	inChild, _ := v.CreateNote(child.ID, "b")
	outside, _ := v.CreateNote("", "c")

	if err := v.DeleteFolder(parent.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}

	for _, id := range []string{inParent.ID, inChild.ID} {
		if n, _ := v.GetNote(id); n != nil {
			t.Errorf("note %s should have cascaded away", id)
		}
	}
	if n, _ := v.GetNote(outside.ID); n == nil {
		t.Error("note outside the folder must survive")
	}

	folders, _ := v.ListFolders()
	if len(folders) != 0 {
		t.Errorf("expected no folders left, got %d", len(folders))
	}
}

func TestMoveNoteAndFolder(t *testing.T) {
	v := openTestVault(t)

	a, _ := v.CreateFolder("", "a")
	b, _ := v.CreateFolder("", "b")
	n, _ := v.CreateNote(a.ID, "note")

	if err := v.MoveNote(n.ID, b.ID); err != nil {
		t.Fatalf("MoveNote: %v", err)
	}
	got, _ := v.GetNote(n.ID)
	if got.FolderID != b.ID {
		t.Errorf("note folder = %s, want %s", got.FolderID, b.ID)
	}

	if err := v.MoveNote(n.ID, ""); err != nil {
		t.Fatalf("MoveNote to root: %v", err)
	}
	got, _ = v.GetNote(n.ID)
	if got.FolderID != "" {
		t.Errorf("note folder = %q, want root", got.FolderID)
	}

	if err := v.MoveFolder(b.ID, a.ID); err != nil {
		t.Fatalf("MoveFolder: %v", err)
	}
	chain, _ := v.Ancestors(b.ID)
	if len(chain) != 1 || chain[0] != a.ID {
		t.Errorf("ancestors after move = %v", chain)
	}

	if err := v.MoveFolder(a.ID, a.ID); err == nil {
		t.Error("self-parent move must be rejected")
	}
}

func TestSearchTracksWrites(t *testing.T) {
	v := openTestVault(t)

	n1, _ := v.CreateNote("", "")
	v.UpdateNoteContent(n1.ID, "# Compilers\nparsing and lexing techniques")
	n2, _ := v.CreateNote("", "")
	v.UpdateNoteContent(n2.ID, "# Gardening\ntomato parsnip soil")

	hits, err := v.Search("parsing")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].NoteID != n1.ID {
		t.Fatalf("hits = %+v, want just %s", hits, n1.ID)
	}
	if hits[0].Snippet == "" {
		t.Error("expected a snippet around the match")
	}

	// Prefix matching.
	hits, _ = v.Search("pars")
	if len(hits) != 2 {
		t.Errorf("prefix query should match both notes, got %d", len(hits))
	}

	// Updates re-index.
	v.UpdateNoteContent(n1.ID, "# Compilers\ncode generation only")
	hits, _ = v.Search("parsing")
	if len(hits) != 0 {
		t.Errorf("stale index after update: %+v", hits)
	}

	// Deletes drop out of the index, including via folder cascade.
	f, _ := v.CreateFolder("", "veg")
	v.MoveNote(n2.ID, f.ID)
	v.DeleteFolder(f.ID)
	hits, _ = v.Search("parsnip")
	if len(hits) != 0 {
		t.Errorf("cascade-deleted note still indexed: %+v", hits)
	}
}

func TestSearchQueryEscaping(t *testing.T) {
	v := openTestVault(t)
	n, _ := v.CreateNote("", "")
	v.UpdateNoteContent(n.ID, "# Quotes\nhe said \"hello\" AND left")

	// Operators and quotes in user input must not break the query.
	for _, q := range []string{`"hello"`, `hello AND left`, `NOT`, `(`} {
		if _, err := v.Search(q); err != nil {
			t.Errorf("Search(%q): %v", q, err)
		}
	}

	if hits, _ := v.Search("   "); hits != nil {
		t.Error("blank query should return no hits")
	}
}

func TestRecentNotes(t *testing.T) {
	v := openTestVault(t)

	var last string
	for _, title := range []string{"one", "two", "three"} {
		n, _ := v.CreateNote("", title)
		last = n.ID
	}
	v.UpdateNoteContent(last, "# three\ntouched")

	recent, err := v.RecentNotes(2)
	if err != nil {
		t.Fatalf("RecentNotes: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d recent notes, want 2", len(recent))
	}
	if recent[0].ID != last {
		t.Errorf("most recent = %s, want %s", recent[0].ID, last)
	}
}
