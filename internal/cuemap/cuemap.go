// Package cuemap is the authoritative translation table between each
// schema's marker type system and the canonical cue variants. Both readers
// and writers go through it, so the two directions cannot drift apart.
package cuemap

import (
	"fmt"

	"github.com/ethiapath/djmusicorganizer/internal/library"
)

// Schema A (Traktor) CUE_V2 type codes.
const (
	TraktorTypeHotCue  = 0
	TraktorTypeLoop    = 1
	TraktorTypeGrid    = 4
	TraktorTypeFadeIn  = 5
	TraktorTypeFadeOut = 6
	TraktorTypeGridOld = 8 // older Traktor versions emit 8 for grid anchors
	TraktorTypeBeat    = 9
)

// Schema B (rekordbox) POSITION_MARK type codes.
const (
	RekordboxTypeHotCue = 0
	RekordboxTypeLoop   = 1
	RekordboxTypeMemory = 2
	RekordboxTypeGrid   = 4
)

// Native is a schema marker reduced to the attributes the mapping needs.
// For schema B loops, Length must be pre-computed by the reader from the
// next chronological marker (the format has no explicit length field).
type Native struct {
	Type   int
	Start  float64
	Length float64
	Slot   int
	Name   string
}

// Decode maps a native marker onto a canonical cue point. An error means the
// marker is unrecognized or invalid; the caller skips it with a warning so an
// unknown future type code never aborts the document.
func Decode(schema library.Schema, n Native) (library.CuePoint, error) {
	switch schema {
	case library.SchemaTraktor:
		return decodeTraktor(n)
	case library.SchemaRekordbox:
		return decodeRekordbox(n)
	default:
		return library.CuePoint{}, fmt.Errorf("unknown schema %q", schema)
	}
}

func decodeTraktor(n Native) (library.CuePoint, error) {
	c := library.CuePoint{Start: n.Start, Name: n.Name}
	switch n.Type {
	case TraktorTypeHotCue:
		if n.Slot < 0 {
			return c, fmt.Errorf("hot cue slot %d out of range", n.Slot)
		}
		c.Kind = library.CueHotCue
		c.Slot = n.Slot
	case TraktorTypeLoop:
		c.Kind = library.CueLoop
		c.Length = n.Length
	case TraktorTypeGrid, TraktorTypeGridOld:
		c.Kind = library.CueGrid
	case TraktorTypeFadeIn:
		c.Kind = library.CueFadeIn
		c.Length = n.Length
	case TraktorTypeFadeOut:
		c.Kind = library.CueFadeOut
		c.Length = n.Length
	case TraktorTypeBeat:
		c.Kind = library.CueBeat
	default:
		return c, fmt.Errorf("unrecognized marker type %d", n.Type)
	}
	return c, nil
}

func decodeRekordbox(n Native) (library.CuePoint, error) {
	c := library.CuePoint{Start: n.Start, Name: n.Name}
	switch n.Type {
	case RekordboxTypeHotCue:
		// rekordbox numbers hot cue slots from 1.
		if n.Slot < 1 {
			return c, fmt.Errorf("hot cue slot %d out of range", n.Slot)
		}
		c.Kind = library.CueHotCue
		c.Slot = n.Slot - 1
	case RekordboxTypeLoop:
		c.Kind = library.CueLoop
		c.Length = n.Length
	case RekordboxTypeMemory:
		c.Kind = library.CueMemory
	case RekordboxTypeGrid:
		c.Kind = library.CueGrid
	default:
		return c, fmt.Errorf("unrecognized marker type %d", n.Type)
	}
	return c, nil
}

// Encode maps a canonical cue point into a schema's native marker. ok=false
// means the schema has no representation for the kind: the caller must drop
// the marker and record a lossy-conversion warning. Inventing a visually
// similar marker instead would silently corrupt the cue layout.
func Encode(c library.CuePoint, schema library.Schema) (Native, bool) {
	n := Native{Start: c.Start, Name: c.Name}
	switch schema {
	case library.SchemaTraktor:
		switch c.Kind {
		case library.CueHotCue:
			n.Type, n.Slot = TraktorTypeHotCue, c.Slot
		case library.CueLoop:
			n.Type, n.Length = TraktorTypeLoop, c.Length
		case library.CueGrid:
			n.Type = TraktorTypeGrid
		case library.CueFadeIn:
			n.Type, n.Length = TraktorTypeFadeIn, c.Length
		case library.CueFadeOut:
			n.Type, n.Length = TraktorTypeFadeOut, c.Length
		case library.CueBeat:
			n.Type = TraktorTypeBeat
		default: // memory cues have no Traktor analogue
			return n, false
		}
		return n, true

	case library.SchemaRekordbox:
		switch c.Kind {
		case library.CueHotCue:
			n.Type, n.Slot = RekordboxTypeHotCue, c.Slot+1
		case library.CueLoop:
			n.Type, n.Length = RekordboxTypeLoop, c.Length
		case library.CueMemory:
			n.Type = RekordboxTypeMemory
		case library.CueGrid:
			n.Type = RekordboxTypeGrid
		default: // fades and per-beat markers have no rekordbox analogue
			return n, false
		}
		return n, true
	}
	return n, false
}
