package traktor

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/ethiapath/djmusicorganizer/internal/cuemap"
	"github.com/ethiapath/djmusicorganizer/internal/library"
	"github.com/ethiapath/djmusicorganizer/internal/location"
)

// Reader parses an NML document into the canonical model.
type Reader struct{}

// NewReader creates a schema A reader.
func NewReader() *Reader {
	return &Reader{}
}

// Schema reports the schema this reader handles.
func (r *Reader) Schema() library.Schema {
	return library.SchemaTraktor
}

// Read parses the document. Malformed individual entries are dropped with a
// warning; only a structurally unreadable document returns an error.
func (r *Reader) Read(doc []byte) (*library.Library, library.Warnings, error) {
	parsed, err := xmlquery.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, nil, fmt.Errorf("parse NML document: %w", err)
	}

	root := xmlquery.FindOne(parsed, "/NML")
	if root == nil {
		return nil, nil, fmt.Errorf("missing NML root element")
	}
	version, err := strconv.Atoi(root.SelectAttr("VERSION"))
	if err != nil || version < minVersion {
		return nil, nil, fmt.Errorf("unrecognized NML version %q", root.SelectAttr("VERSION"))
	}

	lib := library.New()
	var warnings library.Warnings

	volumes := r.readMusicFolders(parsed, lib, &warnings)
	r.readCollection(parsed, lib, volumes, &warnings)
	r.readSets(parsed, lib, &warnings)

	slog.Debug("parsed NML document",
		"version", version,
		"tracks", len(lib.Tracks),
		"warnings", len(warnings))
	return lib, warnings, nil
}

// readMusicFolders builds the volume-label lookup used to resolve entries
// whose DIR is relative to a declared music root.
func (r *Reader) readMusicFolders(doc *xmlquery.Node, lib *library.Library, warnings *library.Warnings) map[string]string {
	volumes := make(map[string]string)
	folders := xmlquery.Find(doc, "/NML/MUSICFOLDERS/FOLDER")
	for _, f := range folders {
		mf := library.MusicFolder{
			Path:   f.SelectAttr("PATH"),
			Volume: f.SelectAttr("VOLUME"),
		}
		lib.MusicFolders = append(lib.MusicFolders, mf)
		if mf.Volume != "" {
			volumes[mf.Volume] = mf.Path
		}
	}

	if mf := xmlquery.FindOne(doc, "/NML/MUSICFOLDERS"); mf != nil {
		if declared, err := strconv.Atoi(mf.SelectAttr("COUNT")); err == nil && declared != len(folders) {
			warnings.Entryf(library.SchemaTraktor, "",
				"MUSICFOLDERS declares %d folders, found %d; using actual content", declared, len(folders))
		}
	}
	return volumes
}

func (r *Reader) readCollection(doc *xmlquery.Node, lib *library.Library, volumes map[string]string, warnings *library.Warnings) {
	entries := xmlquery.Find(doc, "/NML/COLLECTION/ENTRY")

	if coll := xmlquery.FindOne(doc, "/NML/COLLECTION"); coll != nil {
		if declared, err := strconv.Atoi(coll.SelectAttr("ENTRIES")); err == nil && declared != len(entries) {
			warnings.Entryf(library.SchemaTraktor, "",
				"COLLECTION declares %d entries, found %d; using actual content", declared, len(entries))
		}
	}

	for _, node := range entries {
		r.readEntry(node, lib, volumes, warnings)
	}
}

func (r *Reader) readEntry(node *xmlquery.Node, lib *library.Library, volumes map[string]string, warnings *library.Warnings) {
	nativeID := node.SelectAttr("ID")

	loc, err := r.readLocation(node, volumes)
	if err != nil {
		warnings.Entryf(library.SchemaTraktor, nativeID, "entry dropped: %v", err)
		return
	}

	t := &library.Track{
		Key:      library.NewTrackKey(),
		Location: loc,
	}
	if el := xmlquery.FindOne(node, "TITLE"); el != nil {
		t.Title = el.InnerText()
	}
	if el := xmlquery.FindOne(node, "ARTIST"); el != nil {
		t.Artist = el.InnerText()
	}
	if el := xmlquery.FindOne(node, "ALBUM"); el != nil {
		t.Album = el.InnerText()
	}
	if info := xmlquery.FindOne(node, "INFO"); info != nil {
		t.Genre = info.SelectAttr("GENRE")
		t.Comment = info.SelectAttr("COMMENT")
		t.Bitrate = attrInt(info, "BITRATE")
		t.SampleRate = attrInt(info, "SAMPLERATE")
		t.FileSize = int64(attrInt(info, "FILESIZE"))
		t.DurationMS = readPlaytime(info)
	}
	if te := xmlquery.FindOne(node, "TEMPO"); te != nil {
		t.BPM = attrFloat(te, "BPM")
	}
	if key := xmlquery.FindOne(node, "KEY"); key != nil {
		raw := key.SelectAttr("VALUE")
		norm, ok := library.NormalizeMusicalKey(raw)
		if !ok {
			warnings.Entryf(library.SchemaTraktor, nativeID, "unrecognized musical key %q left unset", raw)
		}
		t.MusicalKey = norm
	}

	for _, cue := range xmlquery.Find(node, "CUE_V2") {
		native := cuemap.Native{
			Type:   attrInt(cue, "TYPE"),
			Start:  attrFloat(cue, "START"),
			Length: attrFloat(cue, "LEN"),
			Slot:   attrInt(cue, "HOTCUE"),
			Name:   cue.SelectAttr("NAME"),
		}
		decoded, err := cuemap.Decode(library.SchemaTraktor, native)
		if err != nil {
			warnings.Entryf(library.SchemaTraktor, nativeID, "marker skipped: %v", err)
			continue
		}
		t.CuePoints = append(t.CuePoints, decoded)
	}
	for _, dup := range t.NormalizeCues() {
		warnings.Entryf(library.SchemaTraktor, nativeID,
			"duplicate hot cue slot %d at %.3fs dropped, first occurrence kept", dup.Slot, dup.Start)
	}
	for _, w := range t.Check() {
		w.Schema = library.SchemaTraktor
		w.NativeID = nativeID
		warnings.Add(w)
	}

	lib.AddTrack(t)
	if nativeID != "" {
		lib.IDs(library.SchemaTraktor).Record(t.Key, nativeID)
	}
}

func (r *Reader) readLocation(node *xmlquery.Node, volumes map[string]string) (library.Location, error) {
	el := xmlquery.FindOne(node, "LOCATION")
	if el == nil {
		return library.Location{}, fmt.Errorf("missing LOCATION element")
	}
	triple := location.Triple{
		File:   el.SelectAttr("FILE"),
		Dir:    el.SelectAttr("DIR"),
		Volume: el.SelectAttr("VOLUME"),
	}
	// Directory-relative entries resolve against the declared music root
	// for their volume. Without one the canonical absolute path cannot be
	// built, so the entry is malformed.
	dir := strings.ReplaceAll(triple.Dir, `\`, "/")
	if dir != "" && !strings.HasPrefix(dir, "/") && !strings.Contains(dir, ":") {
		base, ok := volumes[triple.Volume]
		if !ok {
			return library.Location{}, fmt.Errorf(
				"relative directory %q has no declared music folder for volume %q", triple.Dir, triple.Volume)
		}
		triple.Dir = strings.TrimSuffix(base, "/") + "/" + triple.Dir
	}
	return location.FromTriple(triple)
}

func (r *Reader) readSets(doc *xmlquery.Node, lib *library.Library, warnings *library.Warnings) {
	ids := lib.IDs(library.SchemaTraktor)
	for _, node := range xmlquery.Find(doc, "/NML/SETS/NODE") {
		if node.SelectAttr("TYPE") != nodePlaylist {
			warnings.Entryf(library.SchemaTraktor, "",
				"unsupported SETS node type %q skipped", node.SelectAttr("TYPE"))
			continue
		}
		pl := library.NewPlaylist(node.SelectAttr("NAME"))
		for _, ref := range xmlquery.Find(node, "NODE") {
			if ref.SelectAttr("TYPE") != nodeTrack {
				continue
			}
			native := ref.SelectAttr("KEY")
			key, ok := ids.KeyFor(native)
			if !ok {
				warnings.Entryf(library.SchemaTraktor, native,
					"playlist %q references unknown track, reference dropped", pl.Name)
				continue
			}
			pl.TrackRefs = append(pl.TrackRefs, key)
		}
		lib.Root.AddChild(pl)
	}
}

// readPlaytime prefers the float attribute over the whole-second one.
func readPlaytime(info *xmlquery.Node) int64 {
	if raw := info.SelectAttr("PLAYTIME_FLOAT"); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return int64(f*1000 + 0.5)
		}
	}
	return int64(attrInt(info, "PLAYTIME")) * 1000
}

func attrInt(node *xmlquery.Node, name string) int {
	v, _ := strconv.Atoi(node.SelectAttr(name))
	return v
}

func attrFloat(node *xmlquery.Node, name string) float64 {
	v, _ := strconv.ParseFloat(node.SelectAttr(name), 64)
	return v
}
