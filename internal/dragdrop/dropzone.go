package dragdrop

import (
	"log/slog"
	"slices"
)

// RejectPolicy controls how a zone's hover feedback resets after an
// invalid drop.
type RejectPolicy int

const (
	// ResetImmediate clears hover feedback the moment the drop is
	// rejected. The default.
	ResetImmediate RejectPolicy = iota

	// ResetAnimated leaves the hovering flag for the renderer to animate
	// out; the counter is still cleared so the state machine stays sound.
	ResetAnimated
)

// DropZoneConfig describes one drop target.
type DropZoneConfig struct {
	ID   string
	Kind Kind

	// Accepts lists the drag kinds this zone is willing to receive.
	Accepts []Kind

	// Validate is an optional domain rule layered on top of the
	// manager's universal check, e.g. rejecting a folder dropped into
	// its own descendant. The zone has no view of the folder tree; that
	// knowledge stays with the caller.
	Validate func(Data) bool

	// OnDrop is the external drop handler, invoked exactly once per
	// accepted drop. Its error is caught and logged, never propagated.
	OnDrop func(Data) error

	Reject RejectPolicy
}

// DropZone adapts one UI region into a drop target with hover feedback.
// Per-instance state machine: idle -> hovering (counter > 0) -> idle.
// The nested enter/leave counter exists to absorb child-boundary
// crossings that would otherwise flicker the hover state.
type DropZone struct {
	cfg      DropZoneConfig
	mgr      *Manager
	counter  int
	hovering bool
	fading   bool // rejected under ResetAnimated, hover owed a fade-out
	unsub    func()
}

// NewDropZone binds cfg to mgr and subscribes the zone under its own ID so
// hover state resets whenever the session ends elsewhere. A zone mid-fade
// keeps its hovering flag through that reset; the renderer releases it
// via ClearHover.
func NewDropZone(mgr *Manager, cfg DropZoneConfig) *DropZone {
	z := &DropZone{cfg: cfg, mgr: mgr}
	z.unsub = mgr.Subscribe("zone:"+cfg.ID, func(st State) {
		if st.Dragging {
			return
		}
		z.counter = 0
		if !z.fading {
			z.hovering = false
		}
	})
	return z
}

// Close releases the zone's manager subscription.
func (z *DropZone) Close() {
	if z.unsub != nil {
		z.unsub()
		z.unsub = nil
	}
}

// HandleDragOver reports this zone as the active target while a session is
// hovering it, computing validity so global state and the cursor
// affordance reflect whether a drop would land.
func (z *DropZone) HandleDragOver() {
	data, ok := z.mgr.Session()
	if !ok {
		return
	}
	z.mgr.UpdateDropTarget(z.cfg.ID, z.cfg.Kind, z.valid(data))
}

// HandleDragEnter increments the nested counter, entering hovering on the
// 0 -> 1 edge only.
func (z *DropZone) HandleDragEnter() {
	z.fading = false // a fresh hover supersedes any pending fade-out
	z.counter++
	if z.counter == 1 {
		z.hovering = true
	}
}

// HandleDragLeave decrements the nested counter, leaving hovering on the
// 1 -> 0 edge only. Stray leaves below zero are clamped; fast gestures can
// drop enter events and the zone must not wedge.
func (z *DropZone) HandleDragLeave() {
	if z.counter > 0 {
		z.counter--
	}
	if z.counter == 0 {
		z.hovering = false
	}
}

// HandleDrop completes the gesture over this zone. The drag identity is
// recovered from the wire payload first (authoritative, survives
// cross-context drags) and from the manager's session snapshot second.
// A recovery or validation failure discards the drop silently: permissive
// drag-over feedback makes rejected drops an expected outcome, not an
// error. Returns true when the external handler was invoked.
func (z *DropZone) HandleDrop(p Payload) bool {
	// Counter resets unconditionally: enter/leave counts can
	// desynchronize when the platform drops events mid-gesture.
	z.counter = 0

	data, ok := Decode(p)
	if !ok {
		data, ok = z.mgr.Session()
	}
	if !ok {
		slog.Debug("dragdrop: drop with no recoverable session", "zone", z.cfg.ID)
		z.rejectDrop()
		return false
	}

	if !z.valid(data) {
		slog.Debug("dragdrop: drop rejected by validation", "zone", z.cfg.ID, "kind", data.Kind, "id", data.ID)
		z.rejectDrop()
		return false
	}

	if z.cfg.OnDrop != nil {
		if err := z.cfg.OnDrop(data); err != nil {
			slog.Warn("dragdrop: drop handler failed", "zone", z.cfg.ID, "id", data.ID, "error", err)
		}
	}
	z.hovering = false
	z.fading = false
	z.mgr.EndDrag()
	return true
}

// rejectDrop ends the session honoring the reject policy: immediate
// clears hover now, animated keeps it set through the session-end
// broadcast so the renderer can fade the highlight before ClearHover.
func (z *DropZone) rejectDrop() {
	if z.cfg.Reject == ResetAnimated && z.hovering {
		z.fading = true
	} else {
		z.hovering = false
	}
	z.mgr.EndDrag()
}

// ClearHover finishes an animated reject. The renderer calls it once
// its fade-out completes; under ResetImmediate there is nothing to do.
func (z *DropZone) ClearHover() {
	z.hovering = false
	z.fading = false
}

// Hovering reports the zone's local hover state.
func (z *DropZone) Hovering() bool {
	return z.hovering
}

// valid is the three-part drop check: accepted-kind membership, the
// manager's universal not-self rule, and the caller's validator.
func (z *DropZone) valid(d Data) bool {
	if !slices.Contains(z.cfg.Accepts, d.Kind) {
		return false
	}
	if !z.mgr.CanDrop(d, z.cfg.ID, z.cfg.Kind) {
		return false
	}
	if z.cfg.Validate != nil && !z.cfg.Validate(d) {
		return false
	}
	return true
}
