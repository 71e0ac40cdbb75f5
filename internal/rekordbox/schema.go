// Package rekordbox reads and writes schema B: Rekordbox-style XML
// documents. Tracks carry small integer ids, locations are file:// URLs, and
// the PLAYLISTS section is a genuine nested folder/playlist tree.
package rekordbox

import "encoding/xml"

const (
	nodeTypeFolder   = 0
	nodeTypePlaylist = 1
)

type djPlaylists struct {
	XMLName    xml.Name   `xml:"DJ_PLAYLISTS"`
	Version    string     `xml:"Version,attr"`
	Product    product    `xml:"PRODUCT"`
	Collection collection `xml:"COLLECTION"`
	Playlists  playlists  `xml:"PLAYLISTS"`
}

type product struct {
	Name    string `xml:"Name,attr"`
	Version string `xml:"Version,attr"`
	Company string `xml:"Company,attr"`
}

type collection struct {
	Entries int     `xml:"Entries,attr"`
	Tracks  []track `xml:"TRACK"`
}

type track struct {
	TrackID    string `xml:"TrackID,attr"`
	Name       string `xml:"Name,attr"`
	Artist     string `xml:"Artist,attr"`
	Album      string `xml:"Album,attr"`
	Genre      string `xml:"Genre,attr"`
	Comments   string `xml:"Comments,attr"`
	AverageBpm string `xml:"AverageBpm,attr"`
	Tonality   string `xml:"Tonality,attr"`
	TotalTime  int64  `xml:"TotalTime,attr"`
	BitRate    int    `xml:"BitRate,attr"`
	SampleRate int    `xml:"SampleRate,attr"`
	Size       int64  `xml:"Size,attr"`
	Location   string `xml:"Location,attr"`

	Tempo *tempoEl       `xml:"TEMPO,omitempty"`
	Marks []positionMark `xml:"POSITION_MARK"`
}

type tempoEl struct {
	Inizio  string `xml:"Inizio,attr"`
	Bpm     string `xml:"Bpm,attr"`
	Metro   string `xml:"Metro,attr"`
	Battito string `xml:"Battito,attr"`
}

type positionMark struct {
	Name  string `xml:"Name,attr"`
	Type  int    `xml:"Type,attr"`
	Start string `xml:"Start,attr"`
	Num   int    `xml:"Num,attr"`
}

type playlists struct {
	Root playlistNode `xml:"NODE"`
}

type playlistNode struct {
	Type    int            `xml:"Type,attr"`
	Name    string         `xml:"Name,attr"`
	Count   int            `xml:"Count,attr,omitempty"`
	Entries int            `xml:"Entries,attr,omitempty"`
	Nodes   []playlistNode `xml:"NODE"`
	Tracks  []trackRef     `xml:"TRACK"`
}

type trackRef struct {
	TrackID string `xml:"TrackID,attr"`
}
