// Package traktor reads and writes schema A: Traktor-style NML documents.
// Collection entries carry UUID string ids, locations are FILE/DIR/VOLUME
// triples, and the SETS section is a flat list of playlists.
package traktor

import "encoding/xml"

// Document version emitted by the writer. Versions older than minVersion are
// rejected as structurally unreadable.
const (
	writeVersion = 25
	minVersion   = 11
)

const (
	nodePlaylist = "PLAYLIST"
	nodeTrack    = "TRACK"
)

type nmlDocument struct {
	XMLName      xml.Name     `xml:"NML"`
	Version      int          `xml:"VERSION,attr"`
	Head         nmlHead      `xml:"HEAD"`
	MusicFolders musicFolders `xml:"MUSICFOLDERS"`
	Collection   collection   `xml:"COLLECTION"`
	Sets         sets         `xml:"SETS"`
}

type nmlHead struct {
	Company string `xml:"COMPANY,attr"`
	Program string `xml:"PROGRAM,attr"`
	Version string `xml:"VERSION,attr"`
}

type musicFolders struct {
	Count   int      `xml:"COUNT,attr"`
	Folders []folder `xml:"FOLDER"`
}

type folder struct {
	Path   string `xml:"PATH,attr"`
	Volume string `xml:"VOLUME,attr,omitempty"`
}

type collection struct {
	Entries int     `xml:"ENTRIES,attr"`
	Entry   []entry `xml:"ENTRY"`
}

type entry struct {
	ID       string     `xml:"ID,attr"`
	Title    string     `xml:"TITLE"`
	Artist   string     `xml:"ARTIST"`
	Album    string     `xml:"ALBUM"`
	Info     entryInfo  `xml:"INFO"`
	Tempo    *tempo     `xml:"TEMPO,omitempty"`
	Key      *keyValue  `xml:"KEY,omitempty"`
	Location locationEl `xml:"LOCATION"`
	Cues     []cueV2    `xml:"CUE_V2"`
}

type entryInfo struct {
	Genre         string `xml:"GENRE,attr"`
	Comment       string `xml:"COMMENT,attr"`
	Bitrate       int    `xml:"BITRATE,attr"`
	SampleRate    int    `xml:"SAMPLERATE,attr"`
	Playtime      int64  `xml:"PLAYTIME,attr"`
	PlaytimeFloat string `xml:"PLAYTIME_FLOAT,attr"`
	FileSize      int64  `xml:"FILESIZE,attr"`
}

type tempo struct {
	BPM     string `xml:"BPM,attr"`
	Quality string `xml:"BPM_QUALITY,attr"`
}

type keyValue struct {
	Value string `xml:"VALUE,attr"`
}

type locationEl struct {
	File   string `xml:"FILE,attr"`
	Dir    string `xml:"DIR,attr"`
	Volume string `xml:"VOLUME,attr,omitempty"`
}

type cueV2 struct {
	Name   string `xml:"NAME,attr"`
	Type   int    `xml:"TYPE,attr"`
	Start  string `xml:"START,attr"`
	Length string `xml:"LEN,attr"`
	HotCue int    `xml:"HOTCUE,attr"`
}

type sets struct {
	Nodes []setNode `xml:"NODE"`
}

type setNode struct {
	Type  string    `xml:"TYPE,attr"`
	Name  string    `xml:"NAME,attr,omitempty"`
	Key   string    `xml:"KEY,attr,omitempty"`
	Nodes []setNode `xml:"NODE"`
}
