// Package colors provides the terminal palette of the ipa-archive CLI.
//
// Colors are disabled automatically when stdout is not a terminal; fatih/color
// detects that. Use Init to override it from the --no-color flag.
package colors

import (
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/fatih/color"
)

// Init allows overriding the auto-detected color setting.
//   - forceColor == nil: keep auto-detected value
//   - forceColor == true: force colors on
//   - forceColor == false: force colors off
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// Enabled returns true if colors are currently enabled.
func Enabled() bool {
	return !color.NoColor
}

var (
	title    = color.New(color.Bold, color.FgHiBlue)
	field    = color.New(color.Faint)
	bundle   = color.New(color.FgHiMagenta)
	link     = color.New(color.Underline, color.FgHiCyan)
	warning  = color.New(color.Bold, color.FgHiYellow)
	platform = map[catalog.Platform]*color.Color{
		catalog.PlatformIPhone: color.New(color.FgHiGreen),
		catalog.PlatformIPad:   color.New(color.FgHiBlue),
		catalog.PlatformTV:     color.New(color.FgHiMagenta),
		catalog.PlatformWatch:  color.New(color.FgHiCyan),
	}
)

// Title colors an app title.
func Title(a ...any) string { return title.Sprint(a...) }

// Field colors a field label.
func Field(a ...any) string { return field.Sprint(a...) }

// Bundle colors a bundle id.
func Bundle(a ...any) string { return bundle.Sprint(a...) }

// URL colors a link.
func URL(a ...any) string { return link.Sprint(a...) }

// Warning colors a notice.
func Warning(a ...any) string { return warning.Sprint(a...) }

// Platforms renders a platform mask like FormatPlatforms with one color per device family.
func Platforms(m catalog.PlatformMask) string {
	if m == 0 {
		return "?"
	}
	var out string
	for _, p := range catalog.Platforms {
		if !m.Has(p) {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += platform[p].Sprint(p.String())
	}
	return out
}
