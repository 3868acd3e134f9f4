package indexer

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/blacktop/go-plist"
	"github.com/blacktop/ipa-archive/internal/model"
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/spf13/cast"
)

// Info is a parsed Info.plist
type Info map[string]any

// ParseInfo decodes an Info.plist in any plist format.
func ParseInfo(data []byte) (Info, error) {
	var info Info
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse Info.plist: %w", err)
	}
	return info, nil
}

func toString(v any) string {
	return cast.ToString(v)
}

func toInt(v any) (int, bool) {
	switch v := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		n, err := cast.ToIntE(v)
		return n, err == nil
	}
}

func toStrings(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Get returns the value of key as a string.
func (i Info) Get(key string) string { return toString(i[key]) }

// Version returns CFBundleVersion, the short version or "<version> (<short>)" when they differ.
func (i Info) Version() string {
	version := i.Get("CFBundleVersion")
	short := i.Get("CFBundleShortVersionString")
	if version == "" {
		version = short
	}
	if short != "" && version != short {
		version = fmt.Sprintf("%s (%s)", version, short)
	}
	return version
}

// Title returns the display name, falling back to the bundle name.
func (i Info) Title() string {
	if title := i.Get("CFBundleDisplayName"); title != "" {
		return title
	}
	return i.Get("CFBundleName")
}

// Platforms returns the UIDeviceFamily mask. Old apps without a family are iPhone only.
func (i Info) Platforms(minOS catalog.Version) catalog.PlatformMask {
	var mask catalog.PlatformMask
	families, ok := i["UIDeviceFamily"].([]any)
	if !ok && i["UIDeviceFamily"] != nil {
		families = []any{i["UIDeviceFamily"]}
	}
	for _, f := range families {
		if n, ok := toInt(f); ok && n >= 0 && n < 8 {
			mask |= 1 << uint(n)
		}
	}
	if mask == 0 && minOS.Major() <= 3 {
		mask = catalog.PlatformIPhone.Mask()
	}
	return mask
}

// Metadata extracts the catalog columns from the plist.
func (i Info) Metadata() model.Metadata {
	minOS := catalog.ParseVersion(i.Get("MinimumOSVersion"))
	return model.Metadata{
		MinOS:    int(minOS),
		Platform: int(i.Platforms(minOS)),
		Title:    i.Title(),
		BundleID: i.Get("CFBundleIdentifier"),
		Version:  i.Version(),
	}
}

func primaryIconNames(v any) []string {
	bundle, ok := v.(map[string]any)
	if !ok || len(bundle) == 0 {
		return nil
	}
	primary, _ := bundle["CFBundlePrimaryIcon"].(map[string]any)
	icons := toStrings(primary["CFBundleIconFiles"])
	if len(icons) == 0 {
		if name := toString(primary["CFBundleIconName"]); name != "" {
			return []string{name}
		}
	}
	return icons
}

// IconNames returns the icon file names referenced by the plist, best resolution first.
func (i Info) IconNames() []string {
	icons := primaryIconNames(i["CFBundleIcons"])
	if len(icons) == 0 {
		icons = primaryIconNames(i["CFBundleIcons~ipad"])
	}
	if len(icons) == 0 {
		icons = toStrings(i["CFBundleIconFiles"])
	}
	if len(icons) == 0 {
		icons = toStrings(i["Icon files"])
	}
	if len(icons) == 0 {
		if icon := i.Get("CFBundleIconFile"); icon != "" {
			return []string{icon}
		}
		return nil
	}
	return SortByResolution(icons)
}

var resolutionOrder = []string{"3x", "2x", "180", "167", "152", "120"}

func resolutionIndex(name string) int {
	for i, match := range resolutionOrder {
		if strings.Contains(name, match) {
			return i
		}
	}
	if strings.Contains(strings.ToLower(name), "small") {
		return 99
	}
	return 50
}

// SortByResolution orders icon names from highest to lowest resolution in place.
func SortByResolution(icons []string) []string {
	slices.SortStableFunc(icons, func(a, b string) int {
		return resolutionIndex(a) - resolutionIndex(b)
	})
	return icons
}
