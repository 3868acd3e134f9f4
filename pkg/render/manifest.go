package render

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blacktop/ipa-archive/pkg/catalog"
)

// Manifest is the payload handed to the plist generator for device installs.
type Manifest struct {
	URL      string `json:"u"`
	Title    string `json:"n"`
	BundleID string `json:"b"`
	Version  string `json:"v"`
	Image    string `json:"i"`
}

// NewManifest builds the install manifest for an entry. siteURL is the url
// the catalog is served from; the artwork path is resolved against it.
func NewManifest(e *catalog.Entry, siteURL string) *Manifest {
	return &Manifest{
		URL:      catalog.EscapeURL(e.DownloadURL),
		Title:    e.Title,
		BundleID: e.BundleID,
		Version:  e.ShortVersion(),
		Image:    withSlash(siteURL) + e.ImagePath,
	}
}

func withSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}

// Encode serializes the manifest to compact JSON and then to base64 with the
// trailing '=' padding removed.
func (m *Manifest) Encode() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return base64.RawStdEncoding.EncodeToString(data), nil
}

// DecodeManifest parses a payload produced by Encode. Padding is optional and
// spaces are read as '+', which query string decoding turns them into.
func DecodeManifest(payload string) (*Manifest, error) {
	payload = strings.TrimRight(strings.ReplaceAll(strings.TrimSpace(payload), " ", "+"), "=")
	data, err := base64.RawStdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest encoding: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest json: %w", err)
	}
	return &m, nil
}

// PlistURL is the plist generator request for payload.
func PlistURL(server, payload string) string {
	return server + "?d=" + payload
}

// InstallURL is the itms-services link that makes a device fetch the plist.
// The "?d=" is percent-encoded since the whole request is itself a query value.
func InstallURL(server, payload string) string {
	return "itms-services://?action=download-manifest&url=" + server + "%3Fd%3D" + payload
}
