package dragdrop

// DraggableConfig describes one drag source.
type DraggableConfig struct {
	Kind     Kind
	ID       string
	SourceID string // container the item currently lives in, may be empty

	// Disabled suppresses drag starts entirely.
	Disabled bool

	// Optional lifecycle hooks.
	OnStart func(Data)
	OnEnd   func()
}

// Draggable adapts one UI element into a drag source. Start and End mirror
// the element's gesture lifecycle; End runs even when no drop occurred
// (cancelled drags), so it must stay unconditional and idempotent.
type Draggable struct {
	cfg      DraggableConfig
	mgr      *Manager
	dragging bool
}

// NewDraggable binds cfg to mgr.
func NewDraggable(mgr *Manager, cfg DraggableConfig) *Draggable {
	return &Draggable{cfg: cfg, mgr: mgr}
}

// Start begins a drag from this source. Returns the wire payload to attach
// to the gesture and true, or false when the source is disabled and the
// gesture should be suppressed.
func (d *Draggable) Start() (Payload, bool) {
	if d.cfg.Disabled {
		return nil, false
	}

	data := Data{Kind: d.cfg.Kind, ID: d.cfg.ID, SourceID: d.cfg.SourceID}
	d.mgr.StartDrag(data)
	d.dragging = true
	if d.cfg.OnStart != nil {
		d.cfg.OnStart(data)
	}
	return Encode(data), true
}

// End unconditionally clears the manager's session and local state.
func (d *Draggable) End() {
	d.mgr.EndDrag()
	d.dragging = false
	if d.cfg.OnEnd != nil {
		d.cfg.OnEnd()
	}
}

// HandleOverSelf consumes a drag-over landing on the source element itself,
// so the source does not become an unintended drop target while a sibling
// is dragged across it. Returns true when the event should be swallowed.
func (d *Draggable) HandleOverSelf() bool {
	return d.dragging
}

// Dragging reports whether this source started the active gesture.
func (d *Draggable) Dragging() bool {
	return d.dragging
}
