package store

import (
	"sync"

	"github.com/mvanders/notedown/internal/vault"
)

// Search is the search state container: the active query, its results,
// and the recent-notes projection.
type Search struct {
	mu      sync.RWMutex
	query   string
	results []vault.SearchHit
	recent  []string
}

// NewSearch returns an empty container.
func NewSearch() *Search {
	return &Search{}
}

// SetQuery records the active query.
func (s *Search) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Query returns the active query, "" when no search is active.
func (s *Search) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetResults replaces the displayed result set.
func (s *Search) SetResults(hits []vault.SearchHit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = hits
}

// Results returns a copy of the displayed result set.
func (s *Search) Results() []vault.SearchHit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]vault.SearchHit, len(s.results))
	copy(out, s.results)
	return out
}

// HasResult reports whether the note appears in the displayed results.
func (s *Search) HasResult(noteID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.results {
		if h.NoteID == noteID {
			return true
		}
	}
	return false
}

// Clear drops the active query and results.
func (s *Search) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = ""
	s.results = nil
}

// SetRecent replaces the recent-notes projection.
func (s *Search) SetRecent(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = ids
}

// Recent returns a copy of the recent-note IDs, most recent first.
func (s *Search) Recent() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}
