// Package store holds the application's in-memory state: one small
// container per concern (notes, folders, search, UI status) and the App
// orchestrator that sequences vault operations across them.
package store

import (
	"sync"

	"github.com/mvanders/notedown/internal/vault"
)

// Notes is the note state container: the loaded note set plus the current
// selection.
type Notes struct {
	mu       sync.RWMutex
	notes    []vault.Note
	selected string
}

// NewNotes returns an empty container.
func NewNotes() *Notes {
	return &Notes{}
}

// SetAll replaces the loaded note set.
func (s *Notes) SetAll(notes []vault.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
}

// All returns a copy of the loaded note set.
func (s *Notes) All() []vault.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]vault.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Get returns the note with the given ID, or false.
func (s *Notes) Get(id string) (vault.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return vault.Note{}, false
}

// InFolder returns the notes whose folder is folderID ("" for the root).
func (s *Notes) InFolder(folderID string) []vault.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []vault.Note
	for _, n := range s.notes {
		if n.FolderID == folderID {
			out = append(out, n)
		}
	}
	return out
}

// Upsert inserts or replaces a single note in place.
func (s *Notes) Upsert(n vault.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == n.ID {
			s.notes[i] = n
			return
		}
	}
	s.notes = append(s.notes, n)
}

// Remove drops a note from the set.
func (s *Notes) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return
		}
	}
}

// Select marks a note as the current selection.
func (s *Notes) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// Selected returns the current selection, "" when none.
func (s *Notes) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// ClearSelection drops the current selection.
func (s *Notes) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}
