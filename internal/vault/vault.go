// Package vault provides the durable store behind notedown: folders and
// notes in SQLite with an FTS5 index for full-text search.
package vault

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// timeFormat is RFC3339 with a fixed-width fraction: sub-second precision
// keeps recency ordering stable within a second, and the fixed width keeps
// the stored strings lexicographically ordered for SQLite.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Config holds vault initialization parameters.
type Config struct {
	DBPath      string // path to SQLite file
	RecentLimit int    // max notes returned by RecentNotes (0 = default 10)
}

// Vault is the persistence layer. All methods are safe for concurrent use;
// SQLite serializes writes behind WAL.
type Vault struct {
	db          *sql.DB
	path        string
	recentLimit int
}

// Note is a single markdown note. FolderID is empty for notes at the root.
type Note struct {
	ID        string    `json:"id"`
	FolderID  string    `json:"folder_id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Folder is a node in the folder hierarchy. ParentID is empty for roots.
type Folder struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Open opens (or creates) the vault at the configured path.
func Open(cfg Config) (*Vault, error) {
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	recentLimit := cfg.RecentLimit
	if recentLimit == 0 {
		recentLimit = 10
	}

	return &Vault{db: db, path: cfg.DBPath, recentLimit: recentLimit}, nil
}

// Path returns the database file path.
func (v *Vault) Path() string {
	return v.path
}

// Close closes the database.
func (v *Vault) Close() error {
	return v.db.Close()
}

// newID returns a prefixed random identifier, e.g. "nt-3fa1b2c4".
func newID(prefix string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}
