package catalog

import (
	"strconv"
	"strings"
)

// Platform is a device family as used in UIDeviceFamily. Bit 0 of a mask is unused.
type Platform int

const (
	PlatformAny    Platform = 0
	PlatformIPhone Platform = 1
	PlatformIPad   Platform = 2
	PlatformTV     Platform = 3
	PlatformWatch  Platform = 4
)

// Platforms lists the known platforms in canonical order.
var Platforms = []Platform{PlatformIPhone, PlatformIPad, PlatformTV, PlatformWatch}

var platformNames = map[Platform]string{
	PlatformIPhone: "iPhone",
	PlatformIPad:   "iPad",
	PlatformTV:     "TV",
	PlatformWatch:  "Watch",
}

func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return "?"
}

// Mask returns the selector mask for the platform; PlatformAny selects every bit.
func (p Platform) Mask() PlatformMask {
	if p == PlatformAny {
		return AllPlatforms
	}
	return PlatformMask(1 << uint(p))
}

// ParsePlatform accepts a platform index ("1") or a case-insensitive name ("ipad").
func ParsePlatform(s string) (Platform, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PlatformAny, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Platform(n), n >= 0 && n < 8
	}
	for p, name := range platformNames {
		if strings.EqualFold(name, s) {
			return p, true
		}
	}
	return PlatformAny, false
}

// PlatformMask is a bitmask of supported platforms.
type PlatformMask int

// AllPlatforms selects every platform bit.
const AllPlatforms PlatformMask = 255

// Has reports whether p is set in the mask.
func (m PlatformMask) Has(p Platform) bool {
	return p != PlatformAny && m&p.Mask() != 0
}

// String joins the names of all set platforms; 0 formats as "?".
func (m PlatformMask) String() string {
	if m == 0 {
		return "?"
	}
	var names []string
	for _, p := range Platforms {
		if m.Has(p) {
			names = append(names, p.String())
		}
	}
	return strings.Join(names, ", ")
}

// FormatPlatforms is the string form of a platform mask.
func FormatPlatforms(m PlatformMask) string { return m.String() }
