// Package location converts between the two native location encodings and
// the canonical form. Schema A expresses a location as a (FILE, DIR, VOLUME)
// triple; schema B embeds everything in a file:// URL. The canonical form
// keeps an absolute forward-slash path and the volume label as separate
// fields, since the schemas disagree on where the volume lives.
package location

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/ethiapath/djmusicorganizer/internal/library"
)

// ErrEmptyLocation marks a location with neither a usable path nor a volume.
// Readers drop the owning track instead of aborting the conversion.
var ErrEmptyLocation = errors.New("location has no path and no volume")

// Triple is schema A's native location encoding. Well-formed DIR values are
// absolute, forward-slash, and end with a slash.
type Triple struct {
	File   string
	Dir    string
	Volume string
}

// FromTriple normalizes a schema A location triple into canonical form.
func FromTriple(t Triple) (library.Location, error) {
	dir := strings.ReplaceAll(t.Dir, `\`, "/")
	file := strings.ReplaceAll(t.File, `\`, "/")

	full := path.Clean(path.Join(dir, file))
	if full == "." || full == "/" {
		full = ""
	}
	if full == "" && t.Volume == "" {
		return library.Location{}, ErrEmptyLocation
	}
	return library.Location{Path: full, Volume: t.Volume}, nil
}

// ToTriple splits a canonical location back into schema A's triple form.
func ToTriple(loc library.Location) Triple {
	if loc.Path == "" {
		return Triple{Volume: loc.Volume}
	}
	dir, file := path.Split(loc.Path)
	return Triple{File: file, Dir: dir, Volume: loc.Volume}
}

// FromURL normalizes a schema B file:// URL into canonical form. A host
// other than localhost is treated as a NAS share volume; a leading drive
// segment ("C:") is treated as a drive volume.
func FromURL(raw string) (library.Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return library.Location{}, fmt.Errorf("parse location url: %w", err)
	}
	if u.Scheme != "file" {
		return library.Location{}, fmt.Errorf("unsupported location scheme %q", u.Scheme)
	}

	volume := ""
	if u.Host != "" && u.Host != "localhost" {
		volume = u.Host
	}

	p := u.Path
	if volume == "" {
		// file://localhost/C:/Users/... carries the drive inside the path.
		trimmed := strings.TrimPrefix(p, "/")
		if i := strings.Index(trimmed, "/"); i > 0 && strings.HasSuffix(trimmed[:i], ":") {
			volume = trimmed[:i]
			p = trimmed[i:]
		}
	}

	if p == "" && volume == "" {
		return library.Location{}, ErrEmptyLocation
	}
	return library.Location{Path: p, Volume: volume}, nil
}

// ToURL encodes a canonical location as a schema B file:// URL, inverting
// FromURL for every well-formed input.
func ToURL(loc library.Location) string {
	u := url.URL{Scheme: "file", Host: "localhost", Path: loc.Path}
	switch {
	case strings.HasSuffix(loc.Volume, ":"):
		u.Path = "/" + loc.Volume + loc.Path
	case loc.Volume != "":
		u.Host = loc.Volume
	}
	return u.String()
}
