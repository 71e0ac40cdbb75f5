// Package engine wires schema readers and writers together behind the
// interchange contract: Reader(source) -> canonical Library -> Writer(target).
// Readers and writers never interact directly; the Library is the sole
// interchange point, so supporting a third schema means registering one more
// reader and writer here.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/ethiapath/djmusicorganizer/internal/library"
	"github.com/ethiapath/djmusicorganizer/internal/rekordbox"
	"github.com/ethiapath/djmusicorganizer/internal/traktor"
)

// Reader parses one schema's documents into the canonical model.
type Reader interface {
	Schema() library.Schema
	Read(doc []byte) (*library.Library, library.Warnings, error)
}

// Writer serializes the canonical model into one schema's documents.
type Writer interface {
	Schema() library.Schema
	Write(lib *library.Library) ([]byte, library.Warnings, error)
}

var (
	readers = map[library.Schema]Reader{
		library.SchemaTraktor:   traktor.NewReader(),
		library.SchemaRekordbox: rekordbox.NewReader(),
	}
	writers = map[library.Schema]Writer{
		library.SchemaTraktor:   traktor.NewWriter(),
		library.SchemaRekordbox: rekordbox.NewWriter(),
	}
)

// ParseSchema maps a user-supplied schema name onto a known schema.
func ParseSchema(name string) (library.Schema, error) {
	s := library.Schema(name)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return s, nil
}

// ReadToCanonical parses doc into a fresh Library. A StructuralError means no
// partial output; otherwise the library is best-effort and the warnings
// record everything that was dropped.
func ReadToCanonical(doc []byte, schema library.Schema) (*library.Library, library.Warnings, error) {
	r, ok := readers[schema]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSchema, schema)
	}
	lib, warnings, err := r.Read(doc)
	if err != nil {
		return nil, nil, &StructuralError{Schema: schema, Err: err}
	}
	return lib, warnings, nil
}

// WriteFromCanonical serializes lib into the target schema. The output is
// always structurally valid; anything the schema cannot represent is dropped
// and recorded in the warnings.
func WriteFromCanonical(lib *library.Library, schema library.Schema) ([]byte, library.Warnings, error) {
	w, ok := writers[schema]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSchema, schema)
	}
	return w.Write(lib)
}

// Convert runs the full source -> canonical -> target path, accumulating
// read and write warnings in order. source == target is allowed: a library
// round-trips through its own schema keeping its native numbering.
func Convert(doc []byte, source, target library.Schema) ([]byte, library.Warnings, error) {
	lib, warnings, err := ReadToCanonical(doc, source)
	if err != nil {
		return nil, nil, err
	}

	out, writeWarnings, err := WriteFromCanonical(lib, target)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, writeWarnings...)

	slog.Info("conversion completed",
		"source", source,
		"target", target,
		"tracks", len(lib.Tracks),
		"warnings", len(warnings))
	return out, warnings, nil
}
