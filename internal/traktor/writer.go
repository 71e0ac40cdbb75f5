package traktor

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ethiapath/djmusicorganizer/internal/cuemap"
	"github.com/ethiapath/djmusicorganizer/internal/library"
	"github.com/ethiapath/djmusicorganizer/internal/location"
)

// folderSeparator joins folder names into a playlist name when the flat SETS
// section cannot express nesting.
const folderSeparator = " / "

// Writer serializes the canonical model into an NML document.
type Writer struct{}

// NewWriter creates a schema A writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Schema reports the schema this writer handles.
func (w *Writer) Schema() library.Schema {
	return library.SchemaTraktor
}

// Write serializes lib. Tracks without a representable location are omitted
// together with their playlist references; the emitted ENTRIES count always
// matches the number of entries actually written.
func (w *Writer) Write(lib *library.Library) ([]byte, library.Warnings, error) {
	var warnings library.Warnings

	doc := nmlDocument{
		Version: writeVersion,
		Head: nmlHead{
			Company: "Native Instruments",
			Program: "Traktor",
			Version: "3.4.0",
		},
	}
	for _, mf := range lib.MusicFolders {
		doc.MusicFolders.Folders = append(doc.MusicFolders.Folders, folder{Path: mf.Path, Volume: mf.Volume})
	}
	doc.MusicFolders.Count = len(doc.MusicFolders.Folders)

	ids := lib.IDs(library.SchemaTraktor)
	written := make(map[string]bool, len(lib.Tracks))
	for _, t := range lib.Tracks {
		if t.Location.Path == "" {
			warnings.Entryf(library.SchemaTraktor, t.Key,
				"track %q omitted: missing required location", t.Title)
			continue
		}
		doc.Collection.Entry = append(doc.Collection.Entry, w.writeEntry(t, ids, &warnings))
		written[t.Key] = true
	}
	doc.Collection.Entries = len(doc.Collection.Entry)

	w.writeSets(lib, &doc, ids, written, &warnings)

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal NML document: %w", err)
	}
	slog.Debug("wrote NML document", "entries", doc.Collection.Entries, "warnings", len(warnings))
	return append([]byte(xml.Header), out...), warnings, nil
}

func (w *Writer) writeEntry(t *library.Track, ids *library.IDTable, warnings *library.Warnings) entry {
	nativeID, ok := ids.NativeFor(t.Key)
	if !ok {
		nativeID = uuid.NewString()
		ids.Record(t.Key, nativeID)
	}

	triple := location.ToTriple(t.Location)
	e := entry{
		ID:     nativeID,
		Title:  t.Title,
		Artist: t.Artist,
		Album:  t.Album,
		Info: entryInfo{
			Genre:         t.Genre,
			Comment:       t.Comment,
			Bitrate:       t.Bitrate,
			SampleRate:    t.SampleRate,
			Playtime:      (t.DurationMS + 500) / 1000,
			PlaytimeFloat: formatSeconds(float64(t.DurationMS) / 1000),
			FileSize:      t.FileSize,
		},
		Location: locationEl{File: triple.File, Dir: triple.Dir, Volume: triple.Volume},
	}
	if t.BPM != 0 {
		e.Tempo = &tempo{BPM: formatBPM(t.BPM), Quality: "100"}
	}
	if t.MusicalKey != "" {
		e.Key = &keyValue{Value: t.MusicalKey}
	}

	for _, c := range t.CuePoints {
		native, ok := cuemap.Encode(c, library.SchemaTraktor)
		if !ok {
			warnings.Lossyf(library.SchemaTraktor, t.Key, c.Kind,
				"%s at %.3fs has no Traktor representation, marker dropped", c.Kind, c.Start)
			continue
		}
		hotcue := -1
		if c.Kind == library.CueHotCue {
			hotcue = native.Slot
		}
		e.Cues = append(e.Cues, cueV2{
			Name:   native.Name,
			Type:   native.Type,
			Start:  formatSeconds(native.Start),
			Length: formatSeconds(native.Length),
			HotCue: hotcue,
		})
	}
	return e
}

// writeSets flattens the canonical playlist tree into the flat SETS listing.
// Playlists under nested folders keep their folder path in the name, since
// the schema cannot nest.
func (w *Writer) writeSets(lib *library.Library, doc *nmlDocument, ids *library.IDTable, written map[string]bool, warnings *library.Warnings) {
	for _, fp := range lib.Root.Playlists() {
		name := fp.Node.Name
		if len(fp.FolderPath) > 0 {
			name = strings.Join(append(fp.FolderPath, fp.Node.Name), folderSeparator)
			warnings.Lossyf(library.SchemaTraktor, "", "",
				"playlist %q flattened to %q: SETS cannot nest folders", fp.Node.Name, name)
		}
		node := setNode{Type: nodePlaylist, Name: name}
		for _, key := range fp.Node.TrackRefs {
			if !written[key] {
				warnings.Entryf(library.SchemaTraktor, key,
					"playlist %q references missing track, reference dropped", name)
				continue
			}
			native, _ := ids.NativeFor(key)
			node.Nodes = append(node.Nodes, setNode{Type: nodeTrack, Key: native})
		}
		doc.Sets.Nodes = append(doc.Sets.Nodes, node)
	}
}

func formatBPM(bpm float64) string {
	return strconv.FormatFloat(bpm, 'f', 2, 64)
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
