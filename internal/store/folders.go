package store

import (
	"sync"

	"github.com/mvanders/notedown/internal/vault"
)

// Folders is the folder state container: the loaded hierarchy, the current
// selection, and the set of expanded tree nodes.
type Folders struct {
	mu       sync.RWMutex
	folders  []vault.Folder
	selected string
	expanded map[string]bool
}

// NewFolders returns an empty container.
func NewFolders() *Folders {
	return &Folders{expanded: make(map[string]bool)}
}

// SetAll replaces the loaded folder set. Expansion state for folders that
// no longer exist is pruned.
func (s *Folders) SetAll(folders []vault.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = folders

	alive := make(map[string]bool, len(folders))
	for _, f := range folders {
		alive[f.ID] = true
	}
	for id := range s.expanded {
		if !alive[id] {
			delete(s.expanded, id)
		}
	}
}

// All returns a copy of the loaded folder set.
func (s *Folders) All() []vault.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]vault.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// Get returns the folder with the given ID, or false.
func (s *Folders) Get(id string) (vault.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.folders {
		if f.ID == id {
			return f, true
		}
	}
	return vault.Folder{}, false
}

// Children returns the folders whose parent is parentID ("" for roots).
func (s *Folders) Children(parentID string) []vault.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []vault.Folder
	for _, f := range s.folders {
		if f.ParentID == parentID {
			out = append(out, f)
		}
	}
	return out
}

// Parent returns the parent ID of a folder and whether the folder exists.
// A root folder reports "", true.
func (s *Folders) Parent(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.folders {
		if f.ID == id {
			return f.ParentID, true
		}
	}
	return "", false
}

// IsDescendant reports whether candidate sits anywhere inside ancestor's
// subtree. Used to reject folder drops that would create a cycle.
func (s *Folders) IsDescendant(candidate, ancestor string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parents := make(map[string]string, len(s.folders))
	for _, f := range s.folders {
		parents[f.ID] = f.ParentID
	}

	current := candidate
	for i := 0; i < len(parents)+1; i++ {
		parent, ok := parents[current]
		if !ok || parent == "" {
			return false
		}
		if parent == ancestor {
			return true
		}
		current = parent
	}
	return false
}

// Select marks a folder as the current selection.
func (s *Folders) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// Selected returns the current selection, "" when none.
func (s *Folders) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// ClearSelection drops the current selection.
func (s *Folders) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// Expand marks a folder as expanded in the tree view.
func (s *Folders) Expand(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded[id] = true
}

// Collapse marks a folder as collapsed.
func (s *Folders) Collapse(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expanded, id)
}

// ToggleExpanded flips a folder's expansion state.
func (s *Folders) ToggleExpanded(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expanded[id] {
		delete(s.expanded, id)
	} else {
		s.expanded[id] = true
	}
}

// IsExpanded reports whether a folder is expanded.
func (s *Folders) IsExpanded(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expanded[id]
}
