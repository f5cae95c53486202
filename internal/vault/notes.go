package vault

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const noteColumns = `id, folder_id, title, content, pinned, created_at, updated_at`

// CreateNote inserts an empty note in the given folder (empty folderID for
// the root) and returns it.
func (v *Vault) CreateNote(folderID, title string) (*Note, error) {
	now := time.Now().UTC()
	n := &Note{
		ID:        newID("nt"),
		FolderID:  folderID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := v.db.Exec(
		`INSERT INTO notes (id, folder_id, title, content, pinned, created_at, updated_at)
		 VALUES (?, ?, ?, '', 0, ?, ?)`,
		n.ID, nullable(folderID), n.Title,
		now.Format(timeFormat), now.Format(timeFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	slog.Info("vault: note created", "id", n.ID, "folder", folderID, "title", title)
	return n, nil
}

// GetNote looks up a note by ID. Returns nil, nil when absent.
func (v *Vault) GetNote(id string) (*Note, error) {
	row := v.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}
	return n, nil
}

// ListNotes returns every note ordered by pinned first, then most recently
// updated.
func (v *Vault) ListNotes() ([]Note, error) {
	return v.queryNotes(
		`SELECT ` + noteColumns + ` FROM notes ORDER BY pinned DESC, updated_at DESC`,
	)
}

// UpdateNoteContent replaces a note's content. The title is derived from
// the first line of the content.
func (v *Vault) UpdateNoteContent(id, content string) error {
	title, _, _ := strings.Cut(strings.TrimLeft(content, "# \t"), "\n")
	title = strings.TrimSpace(title)

	res, err := v.db.Exec(
		`UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		title, content, time.Now().UTC().Format(timeFormat), id,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("note not found: %s", id)
	}
	return nil
}

// DeleteNote removes a note permanently.
func (v *Vault) DeleteNote(id string) error {
	res, err := v.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("note not found: %s", id)
	}
	slog.Info("vault: note deleted", "id", id)
	return nil
}

// MoveNote reparents a note into folderID (empty for the root).
func (v *Vault) MoveNote(id, folderID string) error {
	res, err := v.db.Exec(
		`UPDATE notes SET folder_id = ?, updated_at = ? WHERE id = ?`,
		nullable(folderID), time.Now().UTC().Format(timeFormat), id,
	)
	if err != nil {
		return fmt.Errorf("move note: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("note not found: %s", id)
	}
	slog.Info("vault: note moved", "id", id, "folder", folderID)
	return nil
}

// TogglePin flips a note's pinned flag.
func (v *Vault) TogglePin(id string) error {
	res, err := v.db.Exec(
		`UPDATE notes SET pinned = 1 - pinned, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(timeFormat), id,
	)
	if err != nil {
		return fmt.Errorf("toggle pin: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("note not found: %s", id)
	}
	return nil
}

// RecentNotes returns the most recently updated notes, capped at the
// configured limit when limit is 0.
func (v *Vault) RecentNotes(limit int) ([]Note, error) {
	if limit <= 0 {
		limit = v.recentLimit
	}
	return v.queryNotes(
		`SELECT `+noteColumns+` FROM notes ORDER BY updated_at DESC LIMIT ?`, limit,
	)
}

func (v *Vault) queryNotes(query string, args ...any) ([]Note, error) {
	rows, err := v.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*Note, error) {
	var n Note
	var folderID sql.NullString
	var pinned int
	var createdAt, updatedAt string

	if err := s.Scan(&n.ID, &folderID, &n.Title, &n.Content, &pinned, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	n.FolderID = folderID.String
	n.Pinned = pinned == 1
	n.CreatedAt = parseTime(createdAt)
	n.UpdatedAt = parseTime(updatedAt)
	return &n, nil
}

// nullable maps "" to NULL so root-level rows carry no parent reference.
func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}
