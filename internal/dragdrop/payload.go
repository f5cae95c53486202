package dragdrop

import (
	"encoding/json"
	"log/slog"
)

// Payload keys. Every drag writes both forms: a plain-text identifier for
// consumers that only understand text, and a structured JSON document
// under a distinct key carrying the full session data.
const (
	PayloadText = "text/plain"
	PayloadJSON = "application/x-notedown-drag"
)

// Payload is the wire form of a drag session, written by a Draggable on
// start and read back by a DropZone on drop. It survives independently of
// the manager's in-memory session, so a drop can recover the dragged
// identity even when the session snapshot is gone.
type Payload map[string]string

// Encode serializes d into both payload forms.
func Encode(d Data) Payload {
	p := Payload{PayloadText: d.ID}
	if raw, err := json.Marshal(d); err == nil {
		p[PayloadJSON] = string(raw)
	}
	return p
}

// Decode recovers drag data from a payload. Precedence is fixed and
// deliberate: the JSON document is authoritative, the plain-text
// identifier is a degraded fallback carrying only the ID, and callers are
// expected to fall back to the manager's session snapshot last. Returns
// false when the payload holds nothing usable.
func Decode(p Payload) (Data, bool) {
	if raw, ok := p[PayloadJSON]; ok && raw != "" {
		var d Data
		if err := json.Unmarshal([]byte(raw), &d); err == nil && d.ID != "" {
			return d, true
		}
		slog.Debug("dragdrop: malformed JSON payload, trying text form", "raw", raw)
	}
	if id, ok := p[PayloadText]; ok && id != "" {
		return Data{ID: id}, true
	}
	return Data{}, false
}
