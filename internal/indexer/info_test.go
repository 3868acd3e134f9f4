package indexer

import (
	"reflect"
	"testing"

	"github.com/blacktop/go-plist"
	"github.com/blacktop/ipa-archive/internal/model"
)

func mustPlist(t *testing.T, v any) []byte {
	t.Helper()
	data, err := plist.MarshalIndent(v, plist.XMLFormat, "\t")
	if err != nil {
		t.Fatalf("failed to marshal plist: %v", err)
	}
	return data
}

func TestInfoMetadata(t *testing.T) {
	tests := []struct {
		name string
		info map[string]any
		want model.Metadata
	}{
		{
			name: "modern app",
			info: map[string]any{
				"CFBundleIdentifier":         "com.example.app",
				"CFBundleDisplayName":        "Example",
				"CFBundleName":               "ExampleName",
				"CFBundleVersion":            "210",
				"CFBundleShortVersionString": "2.1",
				"MinimumOSVersion":           "12.4",
				"UIDeviceFamily":             []int{1, 2},
			},
			want: model.Metadata{MinOS: 120400, Platform: 6, Title: "Example", BundleID: "com.example.app", Version: "210 (2.1)"},
		},
		{
			name: "same versions",
			info: map[string]any{
				"CFBundleName":               "Name",
				"CFBundleVersion":            "1.0",
				"CFBundleShortVersionString": "1.0",
				"MinimumOSVersion":           "9.0.2",
				"UIDeviceFamily":             []int{2},
			},
			want: model.Metadata{MinOS: 90002, Platform: 4, Title: "Name", Version: "1.0"},
		},
		{
			name: "short version only",
			info: map[string]any{
				"CFBundleShortVersionString": "3.0",
				"MinimumOSVersion":           "8.0",
				"UIDeviceFamily":             []int{1},
			},
			want: model.Metadata{MinOS: 80000, Platform: 2, Version: "3.0"},
		},
		{
			name: "legacy iPhone fallback",
			info: map[string]any{
				"CFBundleVersion":  "1.2",
				"MinimumOSVersion": "3.1",
			},
			want: model.Metadata{MinOS: 30100, Platform: 2, Version: "1.2"},
		},
		{
			name: "no family on newer os",
			info: map[string]any{
				"MinimumOSVersion": "4.0",
			},
			want: model.Metadata{MinOS: 40000},
		},
		{
			name: "single family value",
			info: map[string]any{
				"MinimumOSVersion": "11.0",
				"UIDeviceFamily":   3,
			},
			want: model.Metadata{MinOS: 110000, Platform: 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseInfo(mustPlist(t, tt.info))
			if err != nil {
				t.Fatalf("ParseInfo() error = %v", err)
			}
			if got := info.Metadata(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Metadata() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseInfoInvalid(t *testing.T) {
	if _, err := ParseInfo(truncatedPlist); err == nil {
		t.Error("ParseInfo() expected error")
	}
}

func TestIconNames(t *testing.T) {
	tests := []struct {
		name string
		info map[string]any
		want []string
	}{
		{
			name: "primary icon files",
			info: map[string]any{"CFBundleIcons": map[string]any{
				"CFBundlePrimaryIcon": map[string]any{"CFBundleIconFiles": []string{"Icon-small", "Icon60", "Icon@2x"}},
			}},
			want: []string{"Icon@2x", "Icon60", "Icon-small"},
		},
		{
			name: "primary icon name",
			info: map[string]any{"CFBundleIcons": map[string]any{
				"CFBundlePrimaryIcon": map[string]any{"CFBundleIconName": "AppIcon"},
			}},
			want: []string{"AppIcon"},
		},
		{
			name: "ipad icons",
			info: map[string]any{"CFBundleIcons~ipad": map[string]any{
				"CFBundlePrimaryIcon": map[string]any{"CFBundleIconFiles": []string{"Icon76", "Icon152"}},
			}},
			want: []string{"Icon152", "Icon76"},
		},
		{
			name: "icon files",
			info: map[string]any{"CFBundleIconFiles": []string{"icon.png", "icon@3x.png"}},
			want: []string{"icon@3x.png", "icon.png"},
		},
		{
			name: "itunes u",
			info: map[string]any{"Icon files": []string{"a.png"}},
			want: []string{"a.png"},
		},
		{
			name: "legacy",
			info: map[string]any{"CFBundleIconFile": "Icon.png"},
			want: []string{"Icon.png"},
		},
		{
			name: "none",
			info: map[string]any{"CFBundleName": "x"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseInfo(mustPlist(t, tt.info))
			if err != nil {
				t.Fatal(err)
			}
			if got := info.IconNames(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("IconNames() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByResolution(t *testing.T) {
	got := SortByResolution([]string{"Icon-Small.png", "Icon.png", "Icon-120.png", "Icon@2x.png", "Icon@3x.png", "Icon-167.png"})
	want := []string{"Icon@3x.png", "Icon@2x.png", "Icon-167.png", "Icon-120.png", "Icon.png", "Icon-Small.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortByResolution() = %v, want %v", got, want)
	}
}
