package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCues(t *testing.T) {
	t.Run("sorts by start time", func(t *testing.T) {
		track := &Track{CuePoints: []CuePoint{
			{Kind: CueGrid, Start: 10},
			{Kind: CueHotCue, Start: 1, Slot: 0},
			{Kind: CueLoop, Start: 5, Length: 4},
		}}

		dropped := track.NormalizeCues()
		assert.Empty(t, dropped)

		starts := make([]float64, 0, len(track.CuePoints))
		for _, c := range track.CuePoints {
			starts = append(starts, c.Start)
		}
		assert.Equal(t, []float64{1, 5, 10}, starts)
	})

	t.Run("ties keep insertion order", func(t *testing.T) {
		track := &Track{CuePoints: []CuePoint{
			{Kind: CueGrid, Start: 2, Name: "first"},
			{Kind: CueMemory, Start: 2, Name: "second"},
		}}

		track.NormalizeCues()
		assert.Equal(t, "first", track.CuePoints[0].Name)
		assert.Equal(t, "second", track.CuePoints[1].Name)
	})

	t.Run("duplicate hot cue slots keep first in document order", func(t *testing.T) {
		track := &Track{CuePoints: []CuePoint{
			{Kind: CueHotCue, Start: 9, Slot: 2, Name: "kept"},
			{Kind: CueHotCue, Start: 1, Slot: 2, Name: "dropped"},
			{Kind: CueHotCue, Start: 4, Slot: 3},
		}}

		dropped := track.NormalizeCues()
		require.Len(t, dropped, 1)
		assert.Equal(t, "dropped", dropped[0].Name)
		assert.Len(t, track.CuePoints, 2)
		assert.Equal(t, "kept", track.CuePoints[1].Name)
	})
}

func TestIDTable(t *testing.T) {
	lib := New()
	track := &Track{Title: "One"}
	lib.AddTrack(track)
	require.NotEmpty(t, track.Key)

	ids := lib.IDs(SchemaTraktor)
	ids.Record(track.Key, "native-1")

	native, ok := ids.NativeFor(track.Key)
	assert.True(t, ok)
	assert.Equal(t, "native-1", native)

	key, ok := ids.KeyFor("native-1")
	assert.True(t, ok)
	assert.Equal(t, track.Key, key)

	// Tables are independent per schema.
	_, ok = lib.IDs(SchemaRekordbox).NativeFor(track.Key)
	assert.False(t, ok)
}

func TestTrackByKey(t *testing.T) {
	lib := New()
	track := &Track{Title: "One"}
	lib.AddTrack(track)

	assert.Equal(t, track, lib.TrackByKey(track.Key))
	assert.Nil(t, lib.TrackByKey("missing"))
}

func TestNormalizeMusicalKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "", want: "", ok: true},
		{raw: "C", want: "C", ok: true},
		{raw: "F#", want: "F#", ok: true},
		{raw: "Db", want: "C#", ok: true},
		{raw: "Bb", want: "A#", ok: true},
		{raw: "Am", want: "", ok: false},
		{raw: "10A", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeMusicalKey(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrackCheck(t *testing.T) {
	tests := []struct {
		name         string
		track        Track
		wantWarnings int
	}{
		{
			name:  "plausible track",
			track: Track{BPM: 128, MusicalKey: "C", Bitrate: 320000},
		},
		{
			name:  "unknown tempo passes silently",
			track: Track{BPM: 0},
		},
		{
			name:         "implausible tempo warns but passes",
			track:        Track{BPM: 1200},
			wantWarnings: 1,
		},
		{
			name:         "negative size",
			track:        Track{FileSize: -1},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.track.Check()
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}

func TestPlaylistWalk(t *testing.T) {
	root := NewFolder("")
	events := NewFolder("Events")
	festival := NewFolder("Festival 2024")
	opening := NewPlaylist("Opening Set")
	festival.AddChild(opening)
	events.AddChild(festival)
	root.AddChild(events)
	root.AddChild(NewPlaylist("Inbox"))

	flat := root.Playlists()
	require.Len(t, flat, 2)
	assert.Equal(t, []string{"Events", "Festival 2024"}, flat[0].FolderPath)
	assert.Equal(t, "Opening Set", flat[0].Node.Name)
	assert.Empty(t, flat[1].FolderPath)
	assert.Equal(t, "Inbox", flat[1].Node.Name)
}
