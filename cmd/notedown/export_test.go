package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvanders/notedown/internal/vault"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Meeting Notes", "meeting-notes"},
		{"  spaced   out  ", "spaced-out"},
		{"C++ / Rust!", "c-rust"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildFolderDirsMirrorsHierarchy(t *testing.T) {
	folders := []vault.Folder{
		{ID: "fd-a", Name: "Work"},
		{ID: "fd-b", ParentID: "fd-a", Name: "Projects"},
		{ID: "fd-c", ParentID: "fd-b", Name: "Q3 Planning"},
	}

	dirs, err := buildFolderDirs("/out", folders)
	if err != nil {
		t.Fatalf("buildFolderDirs: %v", err)
	}
	if dirs[""] != "/out" {
		t.Errorf("root dir = %q", dirs[""])
	}
	want := filepath.Join("/out", "work", "projects", "q3-planning")
	if dirs["fd-c"] != want {
		t.Errorf("nested dir = %q, want %q", dirs["fd-c"], want)
	}
}

func TestRenderExportFrontmatter(t *testing.T) {
	n := vault.Note{
		ID:      "nt-abc12345",
		Title:   "Ideas",
		Content: "# Ideas\n\nsome text",
		Pinned:  true,
	}

	out := string(renderExport(n))
	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("missing frontmatter open: %q", out[:10])
	}
	if !strings.Contains(out, "id: nt-abc12345") {
		t.Error("frontmatter missing id")
	}
	if !strings.Contains(out, "pinned: true") {
		t.Error("frontmatter missing pinned flag")
	}
	if !strings.Contains(out, "---\n\n# Ideas") {
		t.Error("content should follow the closing delimiter")
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("export should end with a newline")
	}

	name := exportFilename(n)
	if name != "ideas-abc12345.md" {
		t.Errorf("exportFilename = %q", name)
	}
}
