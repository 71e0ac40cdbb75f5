package library

import "sort"

// CueKind enumerates the canonical cue/marker variants. The set is closed:
// adding support for another DJ schema extends the mapping table in
// internal/cuemap, not this enum.
type CueKind string

const (
	CueHotCue  CueKind = "hot_cue"
	CueLoop    CueKind = "loop"
	CueMemory  CueKind = "memory_cue"
	CueGrid    CueKind = "grid"
	CueFadeIn  CueKind = "fade_in"
	CueFadeOut CueKind = "fade_out"
	CueBeat    CueKind = "beat"
)

// CuePoint is a tagged variant over CueKind. Start is always meaningful;
// Slot only for hot cues (canonical slots are 0-based and schema-neutral),
// Length only for loops and fades.
type CuePoint struct {
	Kind   CueKind `json:"kind"`
	Start  float64 `json:"start_seconds"`
	Slot   int     `json:"slot,omitempty"`
	Length float64 `json:"length,omitempty"`
	Name   string  `json:"name,omitempty"`
}

// NormalizeCues sorts the track's cue points by ascending start (stable, so
// document order breaks ties) and enforces the unique hot-cue-slot invariant:
// the first hot cue encountered in document order wins, later duplicates are
// removed and returned so the caller can report them.
func (t *Track) NormalizeCues() []CuePoint {
	var dropped []CuePoint

	seen := make(map[int]bool)
	kept := t.CuePoints[:0]
	for _, c := range t.CuePoints {
		if c.Kind == CueHotCue {
			if seen[c.Slot] {
				dropped = append(dropped, c)
				continue
			}
			seen[c.Slot] = true
		}
		kept = append(kept, c)
	}
	t.CuePoints = kept

	sort.SliceStable(t.CuePoints, func(i, j int) bool {
		return t.CuePoints[i].Start < t.CuePoints[j].Start
	})

	return dropped
}
