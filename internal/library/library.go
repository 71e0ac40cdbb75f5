// Package library holds the canonical, format-neutral representation of a DJ
// music collection. Every schema reader produces a Library and every schema
// writer consumes one; readers and writers never see each other's documents.
package library

import "github.com/google/uuid"

// Schema identifies one of the supported native document formats.
type Schema string

const (
	SchemaTraktor   Schema = "traktor"
	SchemaRekordbox Schema = "rekordbox"
)

// Valid reports whether s names a supported schema.
func (s Schema) Valid() bool {
	return s == SchemaTraktor || s == SchemaRekordbox
}

// MusicFolder is a declared music root used to resolve relative locations.
type MusicFolder struct {
	Path   string `json:"path"`
	Volume string `json:"volume,omitempty"`
}

// Track is one media file's metadata. Empty string is the canonical "absent"
// encoding for descriptive fields; zero means unknown for the numeric ones.
type Track struct {
	Key      string   `json:"key"`
	Location Location `json:"location"`

	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Album   string `json:"album"`
	Genre   string `json:"genre"`
	Comment string `json:"comment"`

	BPM        float64 `json:"bpm"`
	MusicalKey string  `json:"musical_key,omitempty"`

	Bitrate    int   `json:"bitrate"`
	SampleRate int   `json:"sample_rate"`
	DurationMS int64 `json:"duration_ms"`
	FileSize   int64 `json:"file_size"`

	// CuePoints is kept in ascending start order, ties broken by
	// insertion order.
	CuePoints []CuePoint `json:"cue_points,omitempty"`
}

// Location is the canonical track location: an absolute forward-slash path
// plus an optional volume label kept out of the path itself.
type Location struct {
	Path   string `json:"path"`
	Volume string `json:"volume,omitempty"`
}

// Library is the root aggregate of one conversion. It is built once by a
// reader, optionally mutated by the caller, and consumed once by a writer.
type Library struct {
	Tracks       []*Track      `json:"tracks"`
	MusicFolders []MusicFolder `json:"music_folders,omitempty"`

	// Root is the implicit root folder of the playlist tree. Its name is
	// never serialized unless the target schema requires a named root.
	Root *PlaylistNode `json:"playlists"`

	ids map[Schema]*IDTable
}

// New returns an empty Library with an empty playlist root.
func New() *Library {
	return &Library{
		Root: NewFolder(""),
		ids:  make(map[Schema]*IDTable),
	}
}

// NewTrackKey generates a fresh canonical track key. Keys are opaque to
// callers; the UUID format only guarantees uniqueness within a conversion.
func NewTrackKey() string {
	return uuid.NewString()
}

// AddTrack appends t to the library, assigning a canonical key if missing.
func (l *Library) AddTrack(t *Track) {
	if t.Key == "" {
		t.Key = NewTrackKey()
	}
	l.Tracks = append(l.Tracks, t)
}

// TrackByKey returns the track with the given canonical key, or nil.
func (l *Library) TrackByKey(key string) *Track {
	for _, t := range l.Tracks {
		if t.Key == key {
			return t
		}
	}
	return nil
}

// IDs returns the native-id side table for the given schema, creating it on
// first use. The table survives alongside the Library so a writer can keep a
// schema's own numbering when a library round-trips through itself.
func (l *Library) IDs(s Schema) *IDTable {
	if l.ids == nil {
		l.ids = make(map[Schema]*IDTable)
	}
	tbl, ok := l.ids[s]
	if !ok {
		tbl = NewIDTable()
		l.ids[s] = tbl
	}
	return tbl
}

// IDTable maps canonical track keys to one schema's native ids and back.
// Native ids are stored as strings because the two id domains differ (UUID
// strings vs small integers).
type IDTable struct {
	keyToNative map[string]string
	nativeToKey map[string]string
}

// NewIDTable returns an empty id mapping.
func NewIDTable() *IDTable {
	return &IDTable{
		keyToNative: make(map[string]string),
		nativeToKey: make(map[string]string),
	}
}

// Record stores the canonical-key/native-id pair in both directions.
func (t *IDTable) Record(key, native string) {
	t.keyToNative[key] = native
	t.nativeToKey[native] = key
}

// NativeFor returns the native id recorded for a canonical key.
func (t *IDTable) NativeFor(key string) (string, bool) {
	id, ok := t.keyToNative[key]
	return id, ok
}

// KeyFor returns the canonical key recorded for a native id.
func (t *IDTable) KeyFor(native string) (string, bool) {
	key, ok := t.nativeToKey[native]
	return key, ok
}

// Len returns the number of recorded pairs.
func (t *IDTable) Len() int {
	return len(t.keyToNative)
}
