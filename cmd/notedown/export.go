package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/mvanders/notedown/internal/vault"
)

// ExportCmd writes every note to a markdown file, mirroring the folder
// hierarchy on disk.
type ExportCmd struct {
	Dir string `arg:"" type:"path" help:"Destination directory."`
}

// noteFrontmatter is the YAML header prepended to each exported file.
type noteFrontmatter struct {
	ID      string    `yaml:"id"`
	Title   string    `yaml:"title"`
	Pinned  bool      `yaml:"pinned,omitempty"`
	Created time.Time `yaml:"created"`
	Updated time.Time `yaml:"updated"`
}

func (cmd *ExportCmd) Run(cli *CLI, cfg *UserConfig) error {
	logger := setupStderrLogger(cli.Debug)

	v, err := cli.openVault(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	folders, err := v.ListFolders()
	if err != nil {
		return err
	}
	notes, err := v.ListNotes()
	if err != nil {
		return err
	}

	dirs, err := buildFolderDirs(cmd.Dir, folders)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	var g errgroup.Group
	g.SetLimit(8)
	for _, note := range notes {
		g.Go(func() error {
			dir, ok := dirs[note.FolderID]
			if !ok {
				dir = cmd.Dir
			}
			path := filepath.Join(dir, exportFilename(note))
			if err := os.WriteFile(path, renderExport(note), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logger.Debug("exported note", "id", note.ID, "path", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Exported %d notes to %s\n", len(notes), cmd.Dir)
	return nil
}

// buildFolderDirs maps every folder ID (plus "" for the root) to its
// on-disk directory.
func buildFolderDirs(root string, folders []vault.Folder) (map[string]string, error) {
	byID := make(map[string]vault.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	dirs := map[string]string{"": root}
	var resolve func(id string, depth int) (string, error)
	resolve = func(id string, depth int) (string, error) {
		if dir, ok := dirs[id]; ok {
			return dir, nil
		}
		if depth > len(folders) {
			return "", fmt.Errorf("folder cycle at %s", id)
		}
		f, ok := byID[id]
		if !ok {
			return root, nil
		}
		parent, err := resolve(f.ParentID, depth+1)
		if err != nil {
			return "", err
		}
		dir := filepath.Join(parent, slugify(f.Name))
		dirs[id] = dir
		return dir, nil
	}
	for _, f := range folders {
		if _, err := resolve(f.ID, 0); err != nil {
			return nil, err
		}
	}
	return dirs, nil
}

func exportFilename(n vault.Note) string {
	slug := slugify(n.Title)
	if slug == "" {
		slug = "untitled"
	}
	// ID suffix keeps same-titled notes from clobbering each other.
	return slug + "-" + strings.TrimPrefix(n.ID, "nt-") + ".md"
}

func renderExport(n vault.Note) []byte {
	fm, err := yaml.Marshal(noteFrontmatter{
		ID:      n.ID,
		Title:   n.Title,
		Pinned:  n.Pinned,
		Created: n.CreatedAt,
		Updated: n.UpdatedAt,
	})
	if err != nil {
		fm = nil
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(n.Content)
	if !strings.HasSuffix(n.Content, "\n") {
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// slugify lowercases a name and keeps only alphanumerics and dashes.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
