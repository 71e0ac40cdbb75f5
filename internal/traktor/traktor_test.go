package traktor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethiapath/djmusicorganizer/internal/library"
)

const sampleNML = `<?xml version="1.0" encoding="UTF-8"?>
<NML VERSION="25">
  <HEAD COMPANY="Native Instruments" PROGRAM="Traktor" VERSION="3.4.0"></HEAD>
  <MUSICFOLDERS COUNT="1">
    <FOLDER PATH="/Users/dj/Music" VOLUME="Macintosh HD"></FOLDER>
  </MUSICFOLDERS>
  <COLLECTION ENTRIES="3">
    <ENTRY ID="0a1b2c3d-0000-0000-0000-000000000001">
      <TITLE>Carbon</TITLE>
      <ARTIST>Test Artist</ARTIST>
      <ALBUM>Structures</ALBUM>
      <INFO GENRE="Techno" COMMENT="opener" BITRATE="320000" SAMPLERATE="44100" PLAYTIME="212" PLAYTIME_FLOAT="212.431" FILESIZE="8821760"></INFO>
      <TEMPO BPM="128.00" BPM_QUALITY="100"></TEMPO>
      <KEY VALUE="Db"></KEY>
      <LOCATION FILE="carbon.mp3" DIR="/Music/Techno/" VOLUME="Macintosh HD"></LOCATION>
      <CUE_V2 NAME="Cue 1" TYPE="0" START="1.250" LEN="0.000" HOTCUE="0"></CUE_V2>
      <CUE_V2 NAME="dup" TYPE="0" START="8.000" LEN="0.000" HOTCUE="0"></CUE_V2>
      <CUE_V2 NAME="Loop" TYPE="1" START="32.000" LEN="16.000" HOTCUE="0"></CUE_V2>
      <CUE_V2 NAME="Grid" TYPE="4" START="0.050" LEN="0.000" HOTCUE="0"></CUE_V2>
      <CUE_V2 NAME="Fade" TYPE="5" START="0.000" LEN="32.000" HOTCUE="0"></CUE_V2>
      <CUE_V2 NAME="Beat" TYPE="9" START="12.000" LEN="0.000" HOTCUE="0"></CUE_V2>
      <CUE_V2 NAME="Mystery" TYPE="42" START="5.000" LEN="0.000" HOTCUE="0"></CUE_V2>
    </ENTRY>
    <ENTRY ID="0a1b2c3d-0000-0000-0000-000000000002">
      <TITLE>No Location</TITLE>
      <ARTIST></ARTIST>
      <ALBUM></ALBUM>
      <INFO GENRE="" COMMENT="" BITRATE="0" SAMPLERATE="0" PLAYTIME="0" PLAYTIME_FLOAT="0.000" FILESIZE="0"></INFO>
      <LOCATION FILE="" DIR="" VOLUME=""></LOCATION>
    </ENTRY>
  </COLLECTION>
  <SETS>
    <NODE TYPE="PLAYLIST" NAME="Warmup">
      <NODE TYPE="TRACK" KEY="0a1b2c3d-0000-0000-0000-000000000001"></NODE>
      <NODE TYPE="TRACK" KEY="does-not-exist"></NODE>
    </NODE>
  </SETS>
</NML>`

func TestReaderRead(t *testing.T) {
	lib, warnings, err := NewReader().Read([]byte(sampleNML))
	require.NoError(t, err)
	require.Len(t, lib.Tracks, 1)

	track := lib.Tracks[0]
	assert.Equal(t, "Carbon", track.Title)
	assert.Equal(t, "Test Artist", track.Artist)
	assert.Equal(t, "Structures", track.Album)
	assert.Equal(t, "Techno", track.Genre)
	assert.Equal(t, "opener", track.Comment)
	assert.Equal(t, 128.0, track.BPM)
	assert.Equal(t, "C#", track.MusicalKey, "flat alias normalized to sharp")
	assert.Equal(t, 320000, track.Bitrate)
	assert.Equal(t, 44100, track.SampleRate)
	assert.Equal(t, int64(212431), track.DurationMS, "PLAYTIME_FLOAT preferred")
	assert.Equal(t, int64(8821760), track.FileSize)
	assert.Equal(t, "/Music/Techno/carbon.mp3", track.Location.Path)
	assert.Equal(t, "Macintosh HD", track.Location.Volume)

	// One hot cue (duplicate slot dropped), loop, grid, fade in, beat.
	require.Len(t, track.CuePoints, 5)
	kinds := make([]library.CueKind, 0, len(track.CuePoints))
	for _, c := range track.CuePoints {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []library.CueKind{
		library.CueFadeIn, library.CueGrid, library.CueHotCue,
		library.CueBeat, library.CueLoop,
	}, kinds, "ascending start order")

	// Side table records the native id.
	native, ok := lib.IDs(library.SchemaTraktor).NativeFor(track.Key)
	assert.True(t, ok)
	assert.Equal(t, "0a1b2c3d-0000-0000-0000-000000000001", native)

	// Playlist tree: one playlist under the implicit root with one
	// resolvable reference.
	playlists := lib.Root.Playlists()
	require.Len(t, playlists, 1)
	assert.Equal(t, "Warmup", playlists[0].Node.Name)
	assert.Equal(t, []string{track.Key}, playlists[0].Node.TrackRefs)

	messages := joinWarnings(warnings)
	assert.Contains(t, messages, "declares 3 entries, found 2")
	assert.Contains(t, messages, "unrecognized marker type 42")
	assert.Contains(t, messages, "duplicate hot cue slot 0")
	assert.Contains(t, messages, "entry dropped")
	assert.Contains(t, messages, "references unknown track")
}

func TestReaderStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not xml", doc: "<NML VERSION=25"},
		{name: "wrong root", doc: `<?xml version="1.0"?><LIBRARY></LIBRARY>`},
		{name: "missing version", doc: `<?xml version="1.0"?><NML></NML>`},
		{name: "ancient version", doc: `<?xml version="1.0"?><NML VERSION="7"></NML>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewReader().Read([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestReaderRelativeDirectories(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<NML VERSION="25">
  <HEAD COMPANY="Native Instruments" PROGRAM="Traktor" VERSION="3.4.0"></HEAD>
  <MUSICFOLDERS COUNT="1">
    <FOLDER PATH="/Users/dj/Music" VOLUME="Macintosh HD"></FOLDER>
  </MUSICFOLDERS>
  <COLLECTION ENTRIES="2">
    <ENTRY ID="resolved">
      <TITLE>Resolved</TITLE>
      <LOCATION FILE="track.mp3" DIR="Techno/" VOLUME="Macintosh HD"></LOCATION>
    </ENTRY>
    <ENTRY ID="unresolved">
      <TITLE>Unresolved</TITLE>
      <LOCATION FILE="track.mp3" DIR="Loose/" VOLUME="USB"></LOCATION>
    </ENTRY>
  </COLLECTION>
  <SETS></SETS>
</NML>`

	lib, warnings, err := NewReader().Read([]byte(doc))
	require.NoError(t, err)

	// A relative DIR resolves against the declared music folder for its
	// volume; without one the entry is malformed and dropped.
	require.Len(t, lib.Tracks, 1)
	assert.Equal(t, "Resolved", lib.Tracks[0].Title)
	assert.Equal(t, "/Users/dj/Music/Techno/track.mp3", lib.Tracks[0].Location.Path)
	assert.Equal(t, "Macintosh HD", lib.Tracks[0].Location.Volume)

	messages := joinWarnings(warnings)
	assert.Contains(t, messages, "entry dropped")
	assert.Contains(t, messages, `relative directory "Loose/" has no declared music folder for volume "USB"`)
}

func TestWriterWrite(t *testing.T) {
	lib := library.New()

	track := &library.Track{
		Title:      "Carbon",
		Artist:     "Test Artist",
		Genre:      "Techno",
		BPM:        128,
		MusicalKey: "C#",
		DurationMS: 212431,
		Location:   library.Location{Path: "/Music/Techno/carbon.mp3", Volume: "Macintosh HD"},
		CuePoints: []library.CuePoint{
			{Kind: library.CueHotCue, Start: 1.25, Slot: 0, Name: "Cue 1"},
			{Kind: library.CueMemory, Start: 10},
			{Kind: library.CueLoop, Start: 32, Length: 16, Name: "Loop"},
		},
	}
	lib.AddTrack(track)
	lib.AddTrack(&library.Track{Title: "Homeless"})

	events := library.NewFolder("Events")
	festival := library.NewFolder("Festival 2024")
	set := library.NewPlaylist("Opening Set")
	set.TrackRefs = []string{track.Key, "missing-key"}
	festival.AddChild(set)
	events.AddChild(festival)
	lib.Root.AddChild(events)

	out, warnings, err := NewWriter().Write(lib)
	require.NoError(t, err)

	doc, err := xmlquery.Parse(bytes.NewReader(out))
	require.NoError(t, err)

	coll := xmlquery.FindOne(doc, "/NML/COLLECTION")
	require.NotNil(t, coll)
	assert.Equal(t, "1", coll.SelectAttr("ENTRIES"), "count matches written entries, not input size")
	assert.Len(t, xmlquery.Find(doc, "/NML/COLLECTION/ENTRY"), 1)

	entry := xmlquery.FindOne(doc, "/NML/COLLECTION/ENTRY")
	assert.Equal(t, "Carbon", xmlquery.FindOne(entry, "TITLE").InnerText())
	assert.Equal(t, "128.00", xmlquery.FindOne(entry, "TEMPO").SelectAttr("BPM"))
	assert.Equal(t, "C#", xmlquery.FindOne(entry, "KEY").SelectAttr("VALUE"))

	loc := xmlquery.FindOne(entry, "LOCATION")
	assert.Equal(t, "carbon.mp3", loc.SelectAttr("FILE"))
	assert.Equal(t, "/Music/Techno/", loc.SelectAttr("DIR"))
	assert.Equal(t, "Macintosh HD", loc.SelectAttr("VOLUME"))

	// Memory cue has no Traktor representation: hot cue and loop left. Only
	// the hot cue carries a slot; everything else is unassigned.
	cues := xmlquery.Find(entry, "CUE_V2")
	require.Len(t, cues, 2)
	assert.Equal(t, "0", cues[0].SelectAttr("TYPE"))
	assert.Equal(t, "1.250", cues[0].SelectAttr("START"))
	assert.Equal(t, "0", cues[0].SelectAttr("HOTCUE"))
	assert.Equal(t, "1", cues[1].SelectAttr("TYPE"))
	assert.Equal(t, "16.000", cues[1].SelectAttr("LEN"))
	assert.Equal(t, "-1", cues[1].SelectAttr("HOTCUE"))

	// Nested folders flatten into the playlist name.
	node := xmlquery.FindOne(doc, "/NML/SETS/NODE")
	require.NotNil(t, node)
	assert.Equal(t, "Events / Festival 2024 / Opening Set", node.SelectAttr("NAME"))
	assert.Len(t, xmlquery.Find(node, "NODE"), 1, "missing track reference dropped")

	messages := joinWarnings(warnings)
	assert.Contains(t, messages, "missing required location")
	assert.Contains(t, messages, "no Traktor representation")
	assert.Contains(t, messages, "flattened")
	assert.Contains(t, messages, "references missing track")
}

// A library that round-trips through its own schema keeps its native ids.
func TestRoundTripKeepsNativeIDs(t *testing.T) {
	lib, _, err := NewReader().Read([]byte(sampleNML))
	require.NoError(t, err)

	out, _, err := NewWriter().Write(lib)
	require.NoError(t, err)
	assert.Contains(t, string(out), `ID="0a1b2c3d-0000-0000-0000-000000000001"`)

	again, _, err := NewReader().Read(out)
	require.NoError(t, err)
	require.Len(t, again.Tracks, 1)
	assert.Equal(t, lib.Tracks[0].Title, again.Tracks[0].Title)
	assert.Equal(t, lib.Tracks[0].Location, again.Tracks[0].Location)
	assert.Len(t, again.Tracks[0].CuePoints, len(lib.Tracks[0].CuePoints))
}

func joinWarnings(warnings library.Warnings) string {
	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(w.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
