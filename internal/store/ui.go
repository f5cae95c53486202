package store

import "sync"

// SaveStatus describes the editor's persistence state, surfaced in the
// status bar.
type SaveStatus int

const (
	SaveIdle SaveStatus = iota
	SaveSaving
	SaveSaved
	SaveError
)

// String returns the status label shown in the UI.
func (s SaveStatus) String() string {
	switch s {
	case SaveSaving:
		return "saving"
	case SaveSaved:
		return "saved"
	case SaveError:
		return "save failed"
	default:
		return ""
	}
}

// UI is the shared UI state container: loading flag, last error, and save
// status.
type UI struct {
	mu      sync.RWMutex
	loading bool
	err     string
	save    SaveStatus
}

// NewUI returns an idle container.
func NewUI() *UI {
	return &UI{}
}

// SetLoading sets the loading flag.
func (s *UI) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// Loading reports the loading flag.
func (s *UI) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError records a user-facing error message.
func (s *UI) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

// Error returns the last user-facing error, "" when none.
func (s *UI) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ClearError drops the last error.
func (s *UI) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// SetSaveStatus records the editor save status.
func (s *UI) SetSaveStatus(v SaveStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save = v
}

// SaveStatus returns the editor save status.
func (s *UI) SaveStatus() SaveStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save
}
