package rekordbox

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/ethiapath/djmusicorganizer/internal/cuemap"
	"github.com/ethiapath/djmusicorganizer/internal/library"
	"github.com/ethiapath/djmusicorganizer/internal/location"
)

// Reader parses a rekordbox XML document into the canonical model.
type Reader struct{}

// NewReader creates a schema B reader.
func NewReader() *Reader {
	return &Reader{}
}

// Schema reports the schema this reader handles.
func (r *Reader) Schema() library.Schema {
	return library.SchemaRekordbox
}

// Read parses the document. Malformed individual tracks are dropped with a
// warning; only a structurally unreadable document returns an error.
func (r *Reader) Read(doc []byte) (*library.Library, library.Warnings, error) {
	parsed, err := xmlquery.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, nil, fmt.Errorf("parse rekordbox document: %w", err)
	}

	root := xmlquery.FindOne(parsed, "/DJ_PLAYLISTS")
	if root == nil {
		return nil, nil, fmt.Errorf("missing DJ_PLAYLISTS root element")
	}
	if root.SelectAttr("Version") == "" {
		return nil, nil, fmt.Errorf("missing DJ_PLAYLISTS version attribute")
	}

	lib := library.New()
	var warnings library.Warnings

	tracks := xmlquery.Find(parsed, "/DJ_PLAYLISTS/COLLECTION/TRACK")
	if coll := xmlquery.FindOne(parsed, "/DJ_PLAYLISTS/COLLECTION"); coll != nil {
		if declared, err := strconv.Atoi(coll.SelectAttr("Entries")); err == nil && declared != len(tracks) {
			warnings.Entryf(library.SchemaRekordbox, "",
				"COLLECTION declares %d entries, found %d; using actual content", declared, len(tracks))
		}
	}
	for _, node := range tracks {
		r.readTrack(node, lib, &warnings)
	}

	if rootNode := xmlquery.FindOne(parsed, "/DJ_PLAYLISTS/PLAYLISTS/NODE"); rootNode != nil {
		r.readPlaylistNode(rootNode, lib.Root, lib, &warnings)
	}

	slog.Debug("parsed rekordbox document",
		"tracks", len(lib.Tracks),
		"warnings", len(warnings))
	return lib, warnings, nil
}

func (r *Reader) readTrack(node *xmlquery.Node, lib *library.Library, warnings *library.Warnings) {
	nativeID := node.SelectAttr("TrackID")

	loc, err := location.FromURL(node.SelectAttr("Location"))
	if err != nil {
		warnings.Entryf(library.SchemaRekordbox, nativeID, "track dropped: %v", err)
		return
	}

	t := &library.Track{
		Key:        library.NewTrackKey(),
		Location:   loc,
		Title:      node.SelectAttr("Name"),
		Artist:     node.SelectAttr("Artist"),
		Album:      node.SelectAttr("Album"),
		Genre:      node.SelectAttr("Genre"),
		Comment:    node.SelectAttr("Comments"),
		Bitrate:    attrInt(node, "BitRate"),
		SampleRate: attrInt(node, "SampleRate"),
		FileSize:   int64(attrInt(node, "Size")),
		DurationMS: int64(attrInt(node, "TotalTime")) * 1000,
	}
	t.BPM = attrFloat(node, "AverageBpm")

	raw := node.SelectAttr("Tonality")
	norm, ok := library.NormalizeMusicalKey(raw)
	if !ok {
		warnings.Entryf(library.SchemaRekordbox, nativeID, "unrecognized musical key %q left unset", raw)
	}
	t.MusicalKey = norm

	r.readMarks(node, t, nativeID, warnings)
	for _, dup := range t.NormalizeCues() {
		warnings.Entryf(library.SchemaRekordbox, nativeID,
			"duplicate hot cue slot %d at %.3fs dropped, first occurrence kept", dup.Slot, dup.Start)
	}
	for _, w := range t.Check() {
		w.Schema = library.SchemaRekordbox
		w.NativeID = nativeID
		warnings.Add(w)
	}

	lib.AddTrack(t)
	if nativeID != "" {
		lib.IDs(library.SchemaRekordbox).Record(t.Key, nativeID)
	}
}

// readMarks decodes POSITION_MARK elements. The format has no explicit loop
// length, so a loop's length is the gap to the next chronological marker on
// the same track, or zero when nothing follows.
func (r *Reader) readMarks(node *xmlquery.Node, t *library.Track, nativeID string, warnings *library.Warnings) {
	marks := xmlquery.Find(node, "POSITION_MARK")
	starts := make([]float64, 0, len(marks))
	for _, m := range marks {
		starts = append(starts, attrFloat(m, "Start"))
	}
	sorted := append([]float64{}, starts...)
	sort.Float64s(sorted)

	for i, m := range marks {
		native := cuemap.Native{
			Type:  attrInt(m, "Type"),
			Start: starts[i],
			Slot:  attrInt(m, "Num"),
			Name:  m.SelectAttr("Name"),
		}
		if native.Type == cuemap.RekordboxTypeLoop {
			native.Length = nextGap(sorted, native.Start)
		}
		decoded, err := cuemap.Decode(library.SchemaRekordbox, native)
		if err != nil {
			warnings.Entryf(library.SchemaRekordbox, nativeID, "marker skipped: %v", err)
			continue
		}
		t.CuePoints = append(t.CuePoints, decoded)
	}
}

func (r *Reader) readPlaylistNode(node *xmlquery.Node, parent *library.PlaylistNode, lib *library.Library, warnings *library.Warnings) {
	ids := lib.IDs(library.SchemaRekordbox)
	children := xmlquery.Find(node, "NODE")
	if declared, err := strconv.Atoi(node.SelectAttr("Count")); err == nil && declared != len(children) {
		warnings.Entryf(library.SchemaRekordbox, "",
			"folder %q declares %d nodes, found %d; using actual content",
			node.SelectAttr("Name"), declared, len(children))
	}
	for _, child := range children {
		switch attrInt(child, "Type") {
		case nodeTypeFolder:
			f := library.NewFolder(child.SelectAttr("Name"))
			parent.AddChild(f)
			r.readPlaylistNode(child, f, lib, warnings)
		case nodeTypePlaylist:
			refs := xmlquery.Find(child, "TRACK")
			if declared, err := strconv.Atoi(child.SelectAttr("Entries")); err == nil && declared != len(refs) {
				warnings.Entryf(library.SchemaRekordbox, "",
					"playlist %q declares %d entries, found %d; using actual content",
					child.SelectAttr("Name"), declared, len(refs))
			}
			pl := library.NewPlaylist(child.SelectAttr("Name"))
			for _, ref := range refs {
				native := ref.SelectAttr("TrackID")
				key, ok := ids.KeyFor(native)
				if !ok {
					warnings.Entryf(library.SchemaRekordbox, native,
						"playlist %q references unknown track, reference dropped", pl.Name)
					continue
				}
				pl.TrackRefs = append(pl.TrackRefs, key)
			}
			parent.AddChild(pl)
		default:
			warnings.Entryf(library.SchemaRekordbox, "",
				"unsupported playlist node type %q skipped", child.SelectAttr("Type"))
		}
	}
}

// nextGap returns the distance from start to the next strictly later marker.
func nextGap(sorted []float64, start float64) float64 {
	for _, s := range sorted {
		if s > start {
			return s - start
		}
	}
	return 0
}

func attrInt(node *xmlquery.Node, name string) int {
	v, _ := strconv.Atoi(node.SelectAttr(name))
	return v
}

func attrFloat(node *xmlquery.Node, name string) float64 {
	v, _ := strconv.ParseFloat(node.SelectAttr(name), 64)
	return v
}
