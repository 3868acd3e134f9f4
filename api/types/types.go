package types

import (
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/blacktop/ipa-archive/pkg/paginate"
	"github.com/blacktop/ipa-archive/pkg/render"
)

var (
	BuildVersion string
	BuildTime    string
)

// Version is the version struct
type Version struct {
	APIVersion     string `json:"api_version,omitempty"`
	OSType         string `json:"os_type,omitempty"`
	BuilderVersion string `json:"builder_version,omitempty"`
}

// swagger:response genericError
type GenericError struct {
	Error string `json:"error"`
}

// Entry is a catalog entry as returned by the API
type Entry struct {
	Index     int    `json:"idx"`
	Key       int    `json:"pk"`
	Title     string `json:"title"`
	BundleID  string `json:"bundle_id"`
	Version   string `json:"version"`
	MinOS     string `json:"min_os"`
	Platforms string `json:"platforms"`
	Size      string `json:"size"`
	SizeBytes int64  `json:"size_bytes"`
	FileName  string `json:"file_name"`
	URL       string `json:"url"`
	Image     string `json:"image"`
}

// NewEntry converts a catalog entry
func NewEntry(e *catalog.Entry) Entry {
	return Entry{
		Index:     e.Index,
		Key:       e.Key,
		Title:     e.DisplayTitle(),
		BundleID:  e.BundleID,
		Version:   e.Version,
		MinOS:     catalog.FormatVersion(e.MinOS),
		Platforms: catalog.FormatPlatforms(e.Platforms),
		Size:      catalog.FormatSize(e.Size),
		SizeBytes: e.Size,
		FileName:  e.FileName(),
		URL:       catalog.EscapeURL(e.DownloadURL),
		Image:     e.ImagePath,
	}
}

// swagger:response searchResponse
type SearchResponse struct {
	// State is the encoded filter state of this page
	State   string               `json:"state"`
	Results paginate.Page[Entry] `json:"results"`
}

// swagger:response randomResponse
type RandomResponse struct {
	Entry Entry  `json:"entry"`
	HTML  string `json:"html"`
}

// swagger:response manifestResponse
type ManifestResponse struct {
	Manifest   *render.Manifest `json:"manifest"`
	Payload    string           `json:"payload"`
	PlistURL   string           `json:"plist_url,omitempty"`
	InstallURL string           `json:"install_url,omitempty"`
}
