// Package catalog holds the immutable ipa catalog and the base-url table it references.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// recordFields is the arity of a packed ipa.json record
const recordFields = 9

// Record is a single distributable package as stored in ipa.json
//
//	[pk, platform, minOS, title, bundleId, version, baseUrl, pathName, size]
type Record struct {
	Key       int
	Platforms PlatformMask
	MinOS     Version
	Title     string
	BundleID  string
	Version   string
	BaseURL   int
	Path      string
	Size      int64
}

// ShortVersion returns the first whitespace delimited token of the version label.
func (r Record) ShortVersion() string {
	if fields := strings.Fields(r.Version); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// DisplayTitle returns the title or "?" when it is empty.
func (r Record) DisplayTitle() string {
	if r.Title == "" {
		return "?"
	}
	return r.Title
}

// FileName returns the last path segment of the record's relative path.
func (r Record) FileName() string {
	if i := strings.LastIndexByte(r.Path, '/'); i >= 0 {
		return r.Path[i+1:]
	}
	return r.Path
}

// MarshalJSON encodes the record as a positional array.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		r.Key,
		int(r.Platforms),
		int(r.MinOS),
		r.Title,
		r.BundleID,
		r.Version,
		r.BaseURL,
		r.Path,
		r.Size,
	})
}

// UnmarshalJSON decodes a positional array into the record.
// null is accepted for every field except the key, the base url and the path.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("record is not an array: %w", err)
	}
	if len(raw) != recordFields {
		return fmt.Errorf("record has %d fields, expected %d", len(raw), recordFields)
	}
	for _, required := range []int{0, 6, 7} {
		if bytes.Equal(bytes.TrimSpace(raw[required]), []byte("null")) {
			return fmt.Errorf("record field %d must not be null", required)
		}
	}
	var (
		platforms int
		minOS     int
		rec       Record
	)
	dests := []any{
		&rec.Key,
		&platforms,
		&minOS,
		&rec.Title,
		&rec.BundleID,
		&rec.Version,
		&rec.BaseURL,
		&rec.Path,
		&rec.Size,
	}
	for i, dest := range dests {
		if err := json.Unmarshal(raw[i], dest); err != nil {
			return fmt.Errorf("record field %d: %w", i, err)
		}
	}
	if rec.Size < 0 {
		return fmt.Errorf("record %d has negative size %d", rec.Key, rec.Size)
	}
	rec.Platforms = PlatformMask(platforms)
	rec.MinOS = Version(minOS)
	*r = rec
	return nil
}
