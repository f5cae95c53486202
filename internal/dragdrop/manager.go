// Package dragdrop coordinates drag-and-drop sessions between draggable
// sources and drop zones. The Manager is the single source of truth for
// "is something being dragged, by what, and is the current target willing
// to accept it"; bindings adapt UI elements into sources and targets.
//
// The gesture layer never returns errors. Invalid input (a drop with no
// active session, a target update while idle) degrades to a logged no-op:
// drag gestures are driven by unreliable input events and robustness is
// the right failure posture here.
package dragdrop

import (
	"log/slog"
	"sync"
)

// Kind identifies what category of entity is being dragged or targeted.
type Kind string

// The closed set of draggable kinds.
const (
	KindNote   Kind = "note"
	KindFolder Kind = "folder"
)

// Data describes one in-flight drag: what is being dragged and, optionally,
// the container it is being dragged out of. SourceID is used for
// same-container rejection and move bookkeeping.
type Data struct {
	Kind     Kind   `json:"type"`
	ID       string `json:"id"`
	SourceID string `json:"sourceId,omitempty"`
}

// State is the derived snapshot broadcast to every subscriber on each
// change. When Dragging is false all other fields are zero. At most one
// target is active at a time; the manager does not support multi-target
// highlighting.
type State struct {
	Dragging bool

	// Active session, nil while idle.
	Data *Data

	// Zone currently considered the active target, updated continuously
	// as the pointer moves.
	TargetID    string
	TargetKind  Kind
	TargetValid bool
}

// Manager owns the drag session and fans state out to subscribers. It is
// constructed once at the application's composition root and passed to
// every binding; there is no package-level instance.
type Manager struct {
	mu      sync.Mutex
	session *Data
	state   State
	subs    map[string]func(State)
}

// New returns an idle Manager with no subscribers.
func New() *Manager {
	return &Manager{subs: make(map[string]func(State))}
}

// StartDrag begins a session. If a session is already active the new one
// replaces it (last writer wins: only one native gesture can be in flight
// at a time, so there is nothing to queue). Prior target fields are
// cleared and the new state is broadcast.
func (m *Manager) StartDrag(d Data) {
	m.mu.Lock()
	session := d
	m.session = &session
	snapshot := session
	m.state = State{Dragging: true, Data: &snapshot}
	fns, st := m.broadcastLocked()
	m.mu.Unlock()

	slog.Debug("dragdrop: session started", "kind", d.Kind, "id", d.ID, "source", d.SourceID)
	notify(fns, st)
}

// EndDrag clears the active session and all derived target fields.
// Idempotent: ending with no active session is a safe no-op that still
// leaves the state zeroed.
func (m *Manager) EndDrag() {
	m.mu.Lock()
	if m.session == nil && !m.state.Dragging {
		m.mu.Unlock()
		return
	}
	m.session = nil
	m.state = State{}
	fns, st := m.broadcastLocked()
	m.mu.Unlock()

	slog.Debug("dragdrop: session ended")
	notify(fns, st)
}

// UpdateDropTarget records the zone currently under the pointer and
// whether it would accept the active session. Called continuously by drop
// zones; the most recent call wins. Ignored while no session is active.
func (m *Manager) UpdateDropTarget(targetID string, targetKind Kind, valid bool) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return
	}
	m.state.TargetID = targetID
	m.state.TargetKind = targetKind
	m.state.TargetValid = valid
	fns, st := m.broadcastLocked()
	m.mu.Unlock()

	notify(fns, st)
}

// CanDrop is the manager's universal drop rule: an item cannot be dropped
// on itself. Domain rules (accepted kinds, hierarchy cycles) belong to the
// callers, which layer them on top; the manager has no knowledge of the
// folder tree.
func (m *Manager) CanDrop(d Data, targetID string, _ Kind) bool {
	return d.ID != targetID
}

// Session returns a copy of the active session data, or false while idle.
func (m *Manager) Session() (Data, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return Data{}, false
	}
	return *m.session, true
}

// State returns the current broadcast snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers a callback invoked after every state mutation with
// the post-mutation snapshot. Each mutation produces one invocation per
// subscriber; there is no batching at this layer. Keys must be stable and
// unique per subscriber: re-subscribing with an existing key replaces the
// prior callback. The returned function removes the subscription.
func (m *Manager) Subscribe(key string, fn func(State)) func() {
	m.mu.Lock()
	m.subs[key] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, key)
		m.mu.Unlock()
	}
}

// broadcastLocked snapshots the subscriber set and state under the lock.
// Callbacks run after the lock is released so a subscriber may safely call
// back into the manager.
func (m *Manager) broadcastLocked() ([]func(State), State) {
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	return fns, m.state
}

func notify(fns []func(State), st State) {
	for _, fn := range fns {
		fn(st)
	}
}
