package cuemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethiapath/djmusicorganizer/internal/library"
)

func TestDecodeTraktor(t *testing.T) {
	tests := []struct {
		name    string
		native  Native
		want    library.CuePoint
		wantErr bool
	}{
		{
			name:   "hot cue keeps slot",
			native: Native{Type: TraktorTypeHotCue, Start: 1.25, Slot: 3, Name: "Cue 4"},
			want:   library.CuePoint{Kind: library.CueHotCue, Start: 1.25, Slot: 3, Name: "Cue 4"},
		},
		{
			name:   "loop keeps explicit length",
			native: Native{Type: TraktorTypeLoop, Start: 32, Length: 16},
			want:   library.CuePoint{Kind: library.CueLoop, Start: 32, Length: 16},
		},
		{
			name:   "grid",
			native: Native{Type: TraktorTypeGrid, Start: 0.5},
			want:   library.CuePoint{Kind: library.CueGrid, Start: 0.5},
		},
		{
			name:   "legacy grid code decodes to the same kind",
			native: Native{Type: TraktorTypeGridOld, Start: 0.5},
			want:   library.CuePoint{Kind: library.CueGrid, Start: 0.5},
		},
		{
			name:   "fade in",
			native: Native{Type: TraktorTypeFadeIn, Start: 0, Length: 32},
			want:   library.CuePoint{Kind: library.CueFadeIn, Start: 0, Length: 32},
		},
		{
			name:   "fade out",
			native: Native{Type: TraktorTypeFadeOut, Start: 300, Length: 16},
			want:   library.CuePoint{Kind: library.CueFadeOut, Start: 300, Length: 16},
		},
		{
			name:   "beat",
			native: Native{Type: TraktorTypeBeat, Start: 12},
			want:   library.CuePoint{Kind: library.CueBeat, Start: 12},
		},
		{
			name:    "unknown type code",
			native:  Native{Type: 42, Start: 1},
			wantErr: true,
		},
		{
			name:    "negative hot cue slot",
			native:  Native{Type: TraktorTypeHotCue, Slot: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(library.SchemaTraktor, tt.native)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRekordbox(t *testing.T) {
	tests := []struct {
		name    string
		native  Native
		want    library.CuePoint
		wantErr bool
	}{
		{
			name:   "hot cue rebased to 0-based slot",
			native: Native{Type: RekordboxTypeHotCue, Start: 1.25, Slot: 1},
			want:   library.CuePoint{Kind: library.CueHotCue, Start: 1.25, Slot: 0},
		},
		{
			name:   "loop takes the pre-computed length",
			native: Native{Type: RekordboxTypeLoop, Start: 64, Length: 32},
			want:   library.CuePoint{Kind: library.CueLoop, Start: 64, Length: 32},
		},
		{
			name:   "memory cue",
			native: Native{Type: RekordboxTypeMemory, Start: 10},
			want:   library.CuePoint{Kind: library.CueMemory, Start: 10},
		},
		{
			name:   "grid",
			native: Native{Type: RekordboxTypeGrid, Start: 0.1},
			want:   library.CuePoint{Kind: library.CueGrid, Start: 0.1},
		},
		{
			name:    "slot zero is out of range",
			native:  Native{Type: RekordboxTypeHotCue, Slot: 0},
			wantErr: true,
		},
		{
			name:    "unknown type code",
			native:  Native{Type: 7},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(library.SchemaRekordbox, tt.native)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Re-basing must be invertible: decoding then re-encoding within the same
// schema reproduces the original native slot number exactly.
func TestHotCueRebaseInvertible(t *testing.T) {
	for _, schema := range []library.Schema{library.SchemaTraktor, library.SchemaRekordbox} {
		first := 0
		if schema == library.SchemaRekordbox {
			first = 1
		}
		for slot := first; slot < first+8; slot++ {
			decoded, err := Decode(schema, Native{Type: 0, Slot: slot})
			require.NoError(t, err)
			encoded, ok := Encode(decoded, schema)
			require.True(t, ok)
			assert.Equal(t, slot, encoded.Slot, "schema %s slot %d", schema, slot)
		}
	}
}

func TestEncodeUnsupportedKinds(t *testing.T) {
	tests := []struct {
		name   string
		cue    library.CuePoint
		schema library.Schema
	}{
		{name: "memory cue into traktor", cue: library.CuePoint{Kind: library.CueMemory}, schema: library.SchemaTraktor},
		{name: "fade in into rekordbox", cue: library.CuePoint{Kind: library.CueFadeIn}, schema: library.SchemaRekordbox},
		{name: "fade out into rekordbox", cue: library.CuePoint{Kind: library.CueFadeOut}, schema: library.SchemaRekordbox},
		{name: "beat into rekordbox", cue: library.CuePoint{Kind: library.CueBeat}, schema: library.SchemaRekordbox},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Encode(tt.cue, tt.schema)
			assert.False(t, ok)
		})
	}
}

func TestEncodeSupportedKinds(t *testing.T) {
	supported := map[library.Schema][]library.CueKind{
		library.SchemaTraktor: {
			library.CueHotCue, library.CueLoop, library.CueGrid,
			library.CueFadeIn, library.CueFadeOut, library.CueBeat,
		},
		library.SchemaRekordbox: {
			library.CueHotCue, library.CueLoop, library.CueMemory, library.CueGrid,
		},
	}

	for schema, kinds := range supported {
		for _, kind := range kinds {
			native, ok := Encode(library.CuePoint{Kind: kind, Start: 5, Slot: 2, Length: 8}, schema)
			require.True(t, ok, "schema %s kind %s", schema, kind)

			// The decode side must agree with the encode side.
			decoded, err := Decode(schema, native)
			require.NoError(t, err)
			assert.Equal(t, kind, decoded.Kind)
		}
	}
}
