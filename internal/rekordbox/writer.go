package rekordbox

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ethiapath/djmusicorganizer/internal/cuemap"
	"github.com/ethiapath/djmusicorganizer/internal/library"
	"github.com/ethiapath/djmusicorganizer/internal/location"
)

// Writer serializes the canonical model into a rekordbox XML document.
type Writer struct{}

// NewWriter creates a schema B writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Schema reports the schema this writer handles.
func (w *Writer) Schema() library.Schema {
	return library.SchemaRekordbox
}

// Write serializes lib. Tracks without a representable location are omitted
// together with their playlist references; the emitted Entries count always
// matches the number of tracks actually written.
func (w *Writer) Write(lib *library.Library) ([]byte, library.Warnings, error) {
	var warnings library.Warnings

	doc := djPlaylists{
		Version: "1.0.0",
		Product: product{Name: "rekordbox", Version: "6.6.3", Company: "AlphaTheta"},
	}

	ids := lib.IDs(library.SchemaRekordbox)
	assign := newIDAllocator(lib, ids)
	written := make(map[string]bool, len(lib.Tracks))

	for _, t := range lib.Tracks {
		if t.Location.Path == "" {
			warnings.Entryf(library.SchemaRekordbox, t.Key,
				"track %q omitted: missing required location", t.Title)
			continue
		}
		doc.Collection.Tracks = append(doc.Collection.Tracks, w.writeTrack(t, assign(t.Key), &warnings))
		written[t.Key] = true
	}
	doc.Collection.Entries = len(doc.Collection.Tracks)

	doc.Playlists.Root = w.writePlaylistTree(lib, ids, written, &warnings)

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal rekordbox document: %w", err)
	}
	slog.Debug("wrote rekordbox document", "entries", doc.Collection.Entries, "warnings", len(warnings))
	return append([]byte(xml.Header), out...), warnings, nil
}

// newIDAllocator hands out integer TrackIDs, reusing ids recorded in the side
// table (so a library round-trips with its own numbering) and assigning the
// next free integer to tracks that have none.
func newIDAllocator(lib *library.Library, ids *library.IDTable) func(key string) string {
	next := 1
	used := make(map[int]bool)
	for _, t := range lib.Tracks {
		if native, ok := ids.NativeFor(t.Key); ok {
			if n, err := strconv.Atoi(native); err == nil {
				used[n] = true
			}
		}
	}
	return func(key string) string {
		if native, ok := ids.NativeFor(key); ok {
			return native
		}
		for used[next] {
			next++
		}
		used[next] = true
		native := strconv.Itoa(next)
		ids.Record(key, native)
		return native
	}
}

func (w *Writer) writeTrack(t *library.Track, nativeID string, warnings *library.Warnings) track {
	out := track{
		TrackID:    nativeID,
		Name:       t.Title,
		Artist:     t.Artist,
		Album:      t.Album,
		Genre:      t.Genre,
		Comments:   t.Comment,
		AverageBpm: formatBPM(t.BPM),
		Tonality:   t.MusicalKey,
		TotalTime:  (t.DurationMS + 500) / 1000,
		BitRate:    t.Bitrate,
		SampleRate: t.SampleRate,
		Size:       t.FileSize,
		Location:   location.ToURL(t.Location),
	}
	if t.BPM != 0 {
		out.Tempo = &tempoEl{
			Inizio:  "0.000",
			Bpm:     formatBPM(t.BPM),
			Metro:   "4/4",
			Battito: "1",
		}
	}

	for _, c := range t.CuePoints {
		native, ok := cuemap.Encode(c, library.SchemaRekordbox)
		if !ok {
			warnings.Lossyf(library.SchemaRekordbox, t.Key, c.Kind,
				"%s at %.3fs has no rekordbox representation, marker dropped", c.Kind, c.Start)
			continue
		}
		mark := positionMark{
			Name:  native.Name,
			Type:  native.Type,
			Start: formatSeconds(native.Start),
			Num:   -1,
		}
		if c.Kind == library.CueHotCue {
			mark.Num = native.Slot
		}
		out.Marks = append(out.Marks, mark)
	}
	return out
}

// writePlaylistTree folds the canonical tree directly: the nested-tree schema
// can represent every canonical shape, so nothing is lost here.
func (w *Writer) writePlaylistTree(lib *library.Library, ids *library.IDTable, written map[string]bool, warnings *library.Warnings) playlistNode {
	var fold func(n *library.PlaylistNode, name string) playlistNode
	fold = func(n *library.PlaylistNode, name string) playlistNode {
		if n.Kind == library.NodePlaylist {
			out := playlistNode{Type: nodeTypePlaylist, Name: name}
			for _, key := range n.TrackRefs {
				if !written[key] {
					warnings.Entryf(library.SchemaRekordbox, key,
						"playlist %q references missing track, reference dropped", name)
					continue
				}
				native, _ := ids.NativeFor(key)
				out.Tracks = append(out.Tracks, trackRef{TrackID: native})
			}
			out.Entries = len(out.Tracks)
			return out
		}
		out := playlistNode{Type: nodeTypeFolder, Name: name}
		for _, c := range n.Children {
			out.Nodes = append(out.Nodes, fold(c, c.Name))
		}
		out.Count = len(out.Nodes)
		return out
	}
	return fold(lib.Root, "ROOT")
}

func formatBPM(bpm float64) string {
	return strconv.FormatFloat(bpm, 'f', 2, 64)
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
