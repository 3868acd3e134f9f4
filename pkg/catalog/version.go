package catalog

import (
	"fmt"
	"strings"
)

// Version is a packed OS version: major*10000 + minor*100 + patch.
// The zero value means unknown.
type Version int

// MaxVersion is larger than any real packed version.
const MaxVersion Version = 9999999

// NewVersion packs the given components.
func NewVersion(major, minor, patch int) Version {
	return Version(major*10000 + minor*100 + patch)
}

// ParseVersion packs a dotted version string. Missing components default to 0
// and every component is read like parseInt (leading digits only), so "" and
// garbage both yield 0.
func ParseVersion(s string) Version {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 4)
	var comp [3]int
	for i := 0; i < len(parts) && i < len(comp); i++ {
		comp[i] = leadingInt(parts[i])
	}
	return NewVersion(comp[0], comp[1], comp[2])
}

func leadingInt(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func (v Version) Major() int { return int(v) / 10000 }
func (v Version) Minor() int { return int(v) / 100 % 100 }
func (v Version) Patch() int { return int(v) % 100 }

// String formats the version as major.minor[.patch]; 0 formats as "?".
func (v Version) String() string {
	if v == 0 {
		return "?"
	}
	if v.Patch() != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	}
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}

// FormatVersion is the string form of a packed version.
func FormatVersion(v Version) string { return v.String() }
