package dragdrop

import (
	"errors"
	"testing"
)

func noteZone(t *testing.T, m *Manager, id string, onDrop func(Data) error) *DropZone {
	t.Helper()
	z := NewDropZone(m, DropZoneConfig{
		ID:      id,
		Kind:    KindFolder,
		Accepts: []Kind{KindNote},
		OnDrop:  onDrop,
	})
	t.Cleanup(z.Close)
	return z
}

func TestHoverCounterNestedEnterLeave(t *testing.T) {
	m := New()
	z := noteZone(t, m, "f1", nil)

	// enter, enter, leave, leave ends idle.
	z.HandleDragEnter()
	z.HandleDragEnter()
	z.HandleDragLeave()
	if !z.Hovering() {
		t.Fatal("still one enter outstanding, should hover")
	}
	z.HandleDragLeave()
	if z.Hovering() {
		t.Fatal("balanced enter/leave should end idle")
	}

	// enter, leave, enter ends hovering.
	z.HandleDragEnter()
	z.HandleDragLeave()
	z.HandleDragEnter()
	if !z.Hovering() {
		t.Fatal("trailing enter should leave zone hovering")
	}

	// Stray leaves never wedge the counter below zero.
	z.HandleDragLeave()
	z.HandleDragLeave()
	z.HandleDragLeave()
	z.HandleDragEnter()
	if !z.Hovering() {
		t.Fatal("counter clamped at zero, next enter should hover")
	}
}

func TestDragOverReportsValidity(t *testing.T) {
	m := New()
	z := noteZone(t, m, "f1", nil)

	// No session: over is a no-op.
	z.HandleDragOver()
	if st := m.State(); st.TargetID != "" {
		t.Fatalf("over without session must not set target, got %+v", st)
	}

	m.StartDrag(Data{Kind: KindNote, ID: "n1"})
	z.HandleDragOver()
	st := m.State()
	if st.TargetID != "f1" || !st.TargetValid {
		t.Fatalf("expected valid target f1, got %+v", st)
	}

	// A kind the zone does not accept is reported invalid.
	m.StartDrag(Data{Kind: KindFolder, ID: "f2"})
	z.HandleDragOver()
	if st := m.State(); st.TargetValid {
		t.Fatalf("folder drag over note-only zone must be invalid, got %+v", st)
	}
}

func TestDropEndToEnd(t *testing.T) {
	m := New()

	var drops []Data
	z := noteZone(t, m, "f1", func(d Data) error {
		drops = append(drops, d)
		return nil
	})

	src := NewDraggable(m, DraggableConfig{Kind: KindNote, ID: "n1"})
	payload, ok := src.Start()
	if !ok {
		t.Fatal("enabled source must start")
	}

	m.UpdateDropTarget("f1", KindFolder, true)

	if !z.HandleDrop(payload) {
		t.Fatal("valid drop should invoke handler")
	}
	if len(drops) != 1 {
		t.Fatalf("handler invoked %d times, want exactly 1", len(drops))
	}
	if d := drops[0]; d.Kind != KindNote || d.ID != "n1" || d.SourceID != "" {
		t.Fatalf("handler received %+v", d)
	}
	if m.State().Dragging {
		t.Fatal("drop must end the session")
	}
}

func TestDropRecoversFromSessionWhenPayloadMissing(t *testing.T) {
	m := New()

	var got *Data
	z := noteZone(t, m, "f1", func(d Data) error {
		got = &d
		return nil
	})

	m.StartDrag(Data{Kind: KindNote, ID: "n2", SourceID: "f0"})
	if !z.HandleDrop(nil) {
		t.Fatal("session snapshot should back an empty payload")
	}
	if got == nil || got.ID != "n2" || got.SourceID != "f0" {
		t.Fatalf("recovered %+v", got)
	}
}

func TestDropDiscardsInvalidSilently(t *testing.T) {
	m := New()

	called := false
	z := noteZone(t, m, "f1", func(Data) error {
		called = true
		return nil
	})

	// Self-drop: folder zone f1 receiving an item with id f1.
	m.StartDrag(Data{Kind: KindNote, ID: "f1"})
	if z.HandleDrop(Encode(Data{Kind: KindNote, ID: "f1"})) {
		t.Fatal("self-drop must be discarded")
	}
	if called {
		t.Fatal("handler must not run for a rejected drop")
	}
	if m.State().Dragging {
		t.Fatal("rejected drop still ends the session")
	}

	// No payload, no session: nothing to deliver.
	if z.HandleDrop(nil) {
		t.Fatal("drop with no recoverable data must be discarded")
	}
	if called {
		t.Fatal("handler must not run with no data")
	}
}

func TestDropHandlerErrorCaught(t *testing.T) {
	m := New()
	z := noteZone(t, m, "f1", func(Data) error {
		return errors.New("persistence rejected the move")
	})

	m.StartDrag(Data{Kind: KindNote, ID: "n1"})
	// The handler ran, so the drop counts as delivered; the error is
	// logged, never propagated.
	if !z.HandleDrop(nil) {
		t.Fatal("handler error must not surface as a failed drop")
	}
	if m.State().Dragging {
		t.Fatal("session ends regardless of handler outcome")
	}
}

func TestCustomValidatorLayersDomainRule(t *testing.T) {
	m := New()

	z := NewDropZone(m, DropZoneConfig{
		ID:      "f1",
		Kind:    KindFolder,
		Accepts: []Kind{KindFolder},
		Validate: func(d Data) bool {
			// Stand-in for a hierarchy check: f1 is a descendant of f2.
			return d.ID != "f2"
		},
	})
	defer z.Close()

	m.StartDrag(Data{Kind: KindFolder, ID: "f2"})
	z.HandleDragOver()
	if m.State().TargetValid {
		t.Fatal("validator rejection must mark the target invalid")
	}
	if z.HandleDrop(Encode(Data{Kind: KindFolder, ID: "f2"})) {
		t.Fatal("validator rejection must discard the drop")
	}
}

func TestSessionEndResetsZoneHover(t *testing.T) {
	m := New()
	z := noteZone(t, m, "f1", nil)

	m.StartDrag(Data{Kind: KindNote, ID: "n1"})
	z.HandleDragEnter()
	z.HandleDragEnter()
	if !z.Hovering() {
		t.Fatal("expected hovering")
	}

	// Cancelled elsewhere: zone resets via its subscription.
	m.EndDrag()
	if z.Hovering() {
		t.Fatal("session end must reset hover state")
	}
	z.HandleDragEnter()
	if !z.Hovering() {
		t.Fatal("counter must have been cleared along with hover")
	}
}

func TestRejectPolicyImmediateClearsHover(t *testing.T) {
	m := New()
	z := noteZone(t, m, "f1", nil)

	// Self-drop fails the manager's universal rule.
	m.StartDrag(Data{Kind: KindNote, ID: "f1"})
	z.HandleDragEnter()
	if z.HandleDrop(Encode(Data{Kind: KindNote, ID: "f1"})) {
		t.Fatal("self-drop must be rejected")
	}
	if z.Hovering() {
		t.Fatal("immediate policy should clear hover on rejection")
	}
}

func TestRejectPolicyAnimatedKeepsHoverUntilCleared(t *testing.T) {
	m := New()
	z := NewDropZone(m, DropZoneConfig{
		ID:      "f1",
		Kind:    KindFolder,
		Accepts: []Kind{KindNote},
		Reject:  ResetAnimated,
	})
	t.Cleanup(z.Close)

	m.StartDrag(Data{Kind: KindNote, ID: "f1"})
	z.HandleDragEnter()
	if z.HandleDrop(Encode(Data{Kind: KindNote, ID: "f1"})) {
		t.Fatal("self-drop must be rejected")
	}

	// The session has ended (broadcast included), yet the highlight
	// survives for the renderer to animate out.
	if m.State().Dragging {
		t.Fatal("session should have ended on rejection")
	}
	if !z.Hovering() {
		t.Fatal("animated policy should keep hover set after rejection")
	}

	z.ClearHover()
	if z.Hovering() {
		t.Fatal("ClearHover should release the highlight")
	}
}

func TestAnimatedRejectYieldsToNextGesture(t *testing.T) {
	m := New()
	z := NewDropZone(m, DropZoneConfig{
		ID:      "f1",
		Kind:    KindFolder,
		Accepts: []Kind{KindNote},
		Reject:  ResetAnimated,
	})
	t.Cleanup(z.Close)

	m.StartDrag(Data{Kind: KindNote, ID: "f1"})
	z.HandleDragEnter()
	z.HandleDrop(Encode(Data{Kind: KindNote, ID: "f1"}))
	if !z.Hovering() {
		t.Fatal("rejection should leave the zone mid-fade")
	}

	// A fresh drag entering the zone supersedes the pending fade, and
	// its normal end clears hover without needing ClearHover.
	m.StartDrag(Data{Kind: KindNote, ID: "n2"})
	z.HandleDragEnter()
	z.HandleDragLeave()
	m.EndDrag()
	if z.Hovering() {
		t.Fatal("session end after a fresh gesture should reset hover")
	}

	// An accepted drop also ends any fade residue.
	m.StartDrag(Data{Kind: KindNote, ID: "n2"})
	z.HandleDragEnter()
	if !z.HandleDrop(Encode(Data{Kind: KindNote, ID: "n2"})) {
		t.Fatal("valid drop should be accepted")
	}
	if z.Hovering() {
		t.Fatal("accepted drop should clear hover under either policy")
	}
}
