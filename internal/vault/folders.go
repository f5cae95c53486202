package vault

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// CreateFolder inserts a folder under parentID (empty for the root).
func (v *Vault) CreateFolder(parentID, name string) (*Folder, error) {
	now := time.Now().UTC()
	f := &Folder{
		ID:        newID("fd"),
		ParentID:  parentID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := v.db.Exec(
		`INSERT INTO folders (id, parent_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID, nullable(parentID), name,
		now.Format(timeFormat), now.Format(timeFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("insert folder: %w", err)
	}

	slog.Info("vault: folder created", "id", f.ID, "parent", parentID, "name", name)
	return f, nil
}

// ListFolders returns every folder ordered by name.
func (v *Vault) ListFolders() ([]Folder, error) {
	rows, err := v.db.Query(
		`SELECT id, parent_id, name, created_at, updated_at FROM folders ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		var f Folder
		var parentID sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&f.ID, &parentID, &f.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		f.ParentID = parentID.String
		f.CreatedAt = parseTime(createdAt)
		f.UpdatedAt = parseTime(updatedAt)
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// RenameFolder updates a folder's name.
func (v *Vault) RenameFolder(id, name string) error {
	res, err := v.db.Exec(
		`UPDATE folders SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC().Format(timeFormat), id,
	)
	if err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("folder not found: %s", id)
	}
	return nil
}

// DeleteFolder removes a folder. Contained notes and subfolders go with it
// via foreign-key cascade; the FTS index stays consistent because the
// cascade fires the notes delete trigger.
func (v *Vault) DeleteFolder(id string) error {
	res, err := v.db.Exec(`DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("folder not found: %s", id)
	}
	slog.Info("vault: folder deleted", "id", id)
	return nil
}

// MoveFolder reparents a folder under parentID (empty for the root). The
// caller is responsible for rejecting moves into the folder's own subtree;
// the vault only refuses the degenerate self-parent case.
func (v *Vault) MoveFolder(id, parentID string) error {
	if id == parentID {
		return fmt.Errorf("folder cannot be its own parent: %s", id)
	}
	res, err := v.db.Exec(
		`UPDATE folders SET parent_id = ?, updated_at = ? WHERE id = ?`,
		nullable(parentID), time.Now().UTC().Format(timeFormat), id,
	)
	if err != nil {
		return fmt.Errorf("move folder: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("folder not found: %s", id)
	}
	slog.Info("vault: folder moved", "id", id, "parent", parentID)
	return nil
}

// Ancestors walks the parent chain from folderID upward and returns the
// ancestor IDs nearest-first, excluding folderID itself.
func (v *Vault) Ancestors(folderID string) ([]string, error) {
	var chain []string
	current := folderID

	for current != "" {
		var parent sql.NullString
		err := v.db.QueryRow(`SELECT parent_id FROM folders WHERE id = ?`, current).Scan(&parent)
		if err == sql.ErrNoRows {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("get parent: %w", err)
		}
		if !parent.Valid {
			break
		}
		chain = append(chain, parent.String)
		current = parent.String

		// A cycle here means corrupted data; bail rather than spin.
		if len(chain) > 1000 {
			return nil, fmt.Errorf("folder ancestry too deep, possible cycle at %s", current)
		}
	}
	return chain, nil
}
