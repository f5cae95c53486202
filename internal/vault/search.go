package vault

import (
	"fmt"
	"strings"
)

// SearchHit is a single full-text search result.
type SearchHit struct {
	NoteID   string `json:"id"`
	FolderID string `json:"folder_id,omitempty"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
}

// Search runs a full-text query over note titles and content, returning
// hits ranked by relevance with a short snippet around the match. An empty
// or unmatchable query returns no hits.
func (v *Vault) Search(query string) ([]SearchHit, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := v.db.Query(
		`SELECT n.id, COALESCE(n.folder_id, ''), n.title,
		        snippet(notes_fts, 1, '', '', '…', 8)
		 FROM notes_fts
		 JOIN notes n ON n.rowid = notes_fts.rowid
		 WHERE notes_fts MATCH ?
		 ORDER BY rank`,
		match,
	)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.NoteID, &h.FolderID, &h.Title, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ftsQuery rewrites free text into an FTS5 match expression: each token is
// quoted (so user input cannot inject operators) and treated as a prefix.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, `""`)
		terms = append(terms, `"`+f+`"*`)
	}
	return strings.Join(terms, " ")
}
