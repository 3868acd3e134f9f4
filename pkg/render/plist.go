package render

import (
	"bytes"
	"fmt"

	"github.com/blacktop/go-plist"
)

type asset struct {
	Kind       string `plist:"kind"`
	NeedsShine *bool  `plist:"needs-shine,omitempty"`
	URL        string `plist:"url"`
}

type assetMetadata struct {
	BundleIdentifier string `plist:"bundle-identifier"`
	BundleVersion    string `plist:"bundle-version"`
	Kind             string `plist:"kind"`
	Title            string `plist:"title"`
}

type item struct {
	Assets   []asset       `plist:"assets"`
	Metadata assetMetadata `plist:"metadata"`
}

// InstallDescriptor is the over-the-air install manifest a device downloads.
type InstallDescriptor struct {
	Items []item `plist:"items"`
}

// NewInstallDescriptor wraps a manifest into the descriptor layout.
func NewInstallDescriptor(m *Manifest) *InstallDescriptor {
	shine := false
	return &InstallDescriptor{
		Items: []item{{
			Assets: []asset{
				{Kind: "software-package", URL: m.URL},
				{Kind: "display-image", NeedsShine: &shine, URL: m.Image},
			},
			Metadata: assetMetadata{
				BundleIdentifier: m.BundleID,
				BundleVersion:    m.Version,
				Kind:             "software",
				Title:            m.Title,
			},
		}},
	}
}

// Plist renders the install descriptor for a manifest as an XML plist.
func Plist(m *Manifest) ([]byte, error) {
	data, err := plist.MarshalIndent(NewInstallDescriptor(m), plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal install plist: %w", err)
	}
	return data, nil
}

// ParsePlist reads an install descriptor back into a manifest.
func ParsePlist(data []byte) (*Manifest, error) {
	var d InstallDescriptor
	if _, err := plist.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse install plist: %w", err)
	}
	if len(d.Items) == 0 {
		return nil, fmt.Errorf("install plist has no items")
	}
	it := d.Items[0]
	m := &Manifest{
		BundleID: it.Metadata.BundleIdentifier,
		Version:  it.Metadata.BundleVersion,
		Title:    it.Metadata.Title,
	}
	for _, a := range it.Assets {
		switch a.Kind {
		case "software-package":
			m.URL = a.URL
		case "display-image":
			m.Image = a.URL
		}
	}
	return m, nil
}

// IsPlist reports whether body looks like an XML plist document.
func IsPlist(body []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("<?xml "))
}
