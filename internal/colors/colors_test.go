package colors

import (
	"strings"
	"testing"

	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/fatih/color"
)

func TestInit_ForceOn(t *testing.T) {
	// Save and restore original state
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true // start disabled
	forceOn := true
	Init(&forceOn)

	if color.NoColor {
		t.Error("expected colors enabled when Init(true)")
	}
	if !Enabled() {
		t.Error("Enabled() should return true")
	}
}

func TestInit_ForceOff(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = false // start enabled
	forceOff := false
	Init(&forceOff)

	if !color.NoColor {
		t.Error("expected colors disabled when Init(false)")
	}
	if Enabled() {
		t.Error("Enabled() should return false")
	}
}

func TestInit_Nil_KeepsExisting(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = false
	Init(nil)
	if color.NoColor {
		t.Error("Init(nil) should not change NoColor when it was false")
	}

	color.NoColor = true
	Init(nil)
	if !color.NoColor {
		t.Error("Init(nil) should not change NoColor when it was true")
	}
}

func TestPlatforms(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	tests := []struct {
		name string
		mask catalog.PlatformMask
	}{
		{"none", 0},
		{"iphone", 2},
		{"universal", 6},
		{"all", catalog.AllPlatforms},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color.NoColor = true
			if got, want := Platforms(tt.mask), catalog.FormatPlatforms(tt.mask); got != want {
				t.Errorf("Platforms() = %q, want %q", got, want)
			}
		})
	}

	color.NoColor = false
	if got := Platforms(6); !strings.Contains(got, "\x1b[") || !strings.Contains(got, "iPad") {
		t.Errorf("Platforms() = %q, expected colored output", got)
	}
}

func TestPlainWhenDisabled(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true
	for name, fn := range map[string]func(...any) string{
		"Title":   Title,
		"Field":   Field,
		"Bundle":  Bundle,
		"URL":     URL,
		"Warning": Warning,
	} {
		if got := fn("com.example", 1); got != "com.example1" {
			t.Errorf("%s() = %q, want plain text", name, got)
		}
	}
}
