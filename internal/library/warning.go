package library

import "fmt"

// WarningKind classifies recovered, non-fatal conversion issues. Structural
// failures are errors, not warnings; see internal/engine.
type WarningKind string

const (
	// WarnEntry marks a malformed individual entry that was dropped.
	WarnEntry WarningKind = "entry"
	// WarnLossy marks a construct with no representation in the target
	// schema that was dropped rather than approximated.
	WarnLossy WarningKind = "lossy"
)

// Warning records one recovered issue with enough detail for the user to
// judge its impact.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Schema   Schema      `json:"schema,omitempty"`
	TrackKey string      `json:"track_key,omitempty"`
	NativeID string      `json:"native_id,omitempty"`
	Cue      CueKind     `json:"cue,omitempty"`
	Message  string      `json:"message"`
}

func (w Warning) String() string {
	s := fmt.Sprintf("[%s] %s", w.Kind, w.Message)
	if w.NativeID != "" {
		s += fmt.Sprintf(" (native id %s)", w.NativeID)
	}
	return s
}

// Warnings accumulates recovered issues in occurrence order.
type Warnings []Warning

// Add appends w.
func (ws *Warnings) Add(w Warning) {
	*ws = append(*ws, w)
}

// Entryf appends an entry warning for a native id.
func (ws *Warnings) Entryf(schema Schema, nativeID, format string, args ...any) {
	ws.Add(Warning{
		Kind:     WarnEntry,
		Schema:   schema,
		NativeID: nativeID,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Lossyf appends a lossy-conversion warning for a track.
func (ws *Warnings) Lossyf(schema Schema, trackKey string, cue CueKind, format string, args ...any) {
	ws.Add(Warning{
		Kind:     WarnLossy,
		Schema:   schema,
		TrackKey: trackKey,
		Cue:      cue,
		Message:  fmt.Sprintf(format, args...),
	})
}
