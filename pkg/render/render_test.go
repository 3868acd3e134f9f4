package render

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/blacktop/ipa-archive/pkg/search"
)

var testRecords = []catalog.Record{
	{Key: 7, Platforms: 2, MinOS: 20200, Title: "180", BundleID: "com.headcasegames.180", Version: "1.0", BaseURL: 1, Path: "180.ipa", Size: 189930},
	{Key: 8, Platforms: 6, MinOS: 0, Title: "A<b><c>", BundleID: "com.example.app", Version: "2.1 (2.1.0)", BaseURL: 2, Path: "sub dir/App #1.ipa", Size: 1500},
}

var testURLs = catalog.BaseURLs{
	1: "https://archive.org/download/ios-ipa",
	2: "https://archive.org/download/more",
}

func newTestRenderer(t *testing.T, records []catalog.Record) *Renderer {
	t.Helper()
	s, err := catalog.NewStore(records, testURLs)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return NewRenderer(s)
}

func parseHTML(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("failed to parse markup: %v", err)
	}
	return doc
}

func TestTemplateRender(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		mode    Mode
		values  Values
		want    string
		wantErr bool
	}{
		{"all known", "<b>$A-$B</b>", Strict, Values{"A": 1, "B": "x"}, "<b>1-x</b>", false},
		{"repeated", "$A$A", Lenient, Values{"A": "z"}, "zz", false},
		{"lenient unknown", "$A $MISSING", Lenient, Values{"A": "a"}, "a $MISSING", false},
		{"strict unknown", "$A $MISSING", Strict, Values{"A": "a"}, "", true},
		{"list", "$G", Strict, Values{"G": []string{"Games", "Puzzle"}}, "Games, Puzzle", false},
		{"nil", "[$N]", Strict, Values{"N": nil}, "[]", false},
		{"lowercase is literal", "$a", Strict, Values{}, "$a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTemplate(tt.text, tt.mode).Render(tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Render() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownPlaceholder) {
					t.Errorf("Render() error = %v, want ErrUnknownPlaceholder", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	got := NewTemplate("$IDX $TITLE $IDX $URL", Lenient).Placeholders()
	want := []string{"IDX", "TITLE", "URL"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Placeholders() = %v, want %v", got, want)
	}
}

func TestDefaultTemplatesStrict(t *testing.T) {
	r := newTestRenderer(t, testRecords)
	r.Templates = DefaultTemplates(Strict)
	for _, tmpl := range []*Template{r.Templates.Entry, r.Templates.Short, r.Templates.Full} {
		if _, err := r.Entries(tmpl, []int{0, 1}); err != nil {
			t.Errorf("Entries() error = %v", err)
		}
	}
}

func TestEntryValues(t *testing.T) {
	r := newTestRenderer(t, testRecords)
	e, err := r.Store.Entry(1)
	if err != nil {
		t.Fatal(err)
	}
	got := EntryValues(e)
	want := Values{
		"IDX":      1,
		"IMG":      "data/0/8.jpg",
		"TITLE":    "A&lt;b>&lt;c>",
		"VERSION":  "2.1 (2.1.0)",
		"BUNDLEID": "com.example.app",
		"MINOS":    "?",
		"PLATFORM": "iPhone, iPad",
		"SIZE":     "1.5kB",
		"URLNAME":  "App #1.ipa",
		"URL":      "https://archive.org/download/more/sub%20dir/App%20%231.ipa",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EntryValues() = %v, want %v", got, want)
	}
}

func manyRecords(n int) []catalog.Record {
	records := make([]catalog.Record, n)
	for i := range records {
		records[i] = catalog.Record{
			Key:       i + 1,
			Platforms: 2,
			Title:     fmt.Sprintf("App %d", i+1),
			BundleID:  fmt.Sprintf("com.example.app%d", i+1),
			Version:   "1.0",
			BaseURL:   1,
			Path:      fmt.Sprintf("app%d.ipa", i+1),
		}
	}
	return records
}

func TestResults(t *testing.T) {
	r := newTestRenderer(t, manyRecords(75))
	results := search.Evaluate(r.Store, search.Filter{})

	tests := []struct {
		name         string
		page         int
		opts         ResultOptions
		wantEntries  int
		wantShort    int
		wantSelector string
		wantCurrent  string
	}{
		{"first page", 0, ResultOptions{}, 30, 0, ".entry", "1"},
		{"last page", 2, ResultOptions{}, 15, 0, ".entry", "3"},
		{"unique", 1, ResultOptions{Unique: true}, 30, 30, ".short", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Results(results, tt.page, tt.opts)
			if err != nil {
				t.Fatalf("Results() error = %v", err)
			}
			doc := parseHTML(t, out)
			if got := doc.Find("h3").First().Text(); got != "Results: 75" {
				t.Errorf("heading = %q", got)
			}
			if got := doc.Find(tt.wantSelector).Length(); got != tt.wantEntries {
				t.Errorf("entries = %d, want %d", got, tt.wantEntries)
			}
			if got := doc.Find(".short").Length(); got != tt.wantShort {
				t.Errorf("short entries = %d, want %d", got, tt.wantShort)
			}
			if got := doc.Find(".shortpage").Length(); got != 2 {
				t.Errorf("short pagination = %d, want 2", got)
			}
			if got := doc.Find("#pagination b").Text(); got != tt.wantCurrent {
				t.Errorf("current page = %q, want %q", got, tt.wantCurrent)
			}
			if got := doc.Find("#pagination a").Length(); got != 2 {
				t.Errorf("page links = %d, want 2", got)
			}
		})
	}
}

func TestResultsSinglePage(t *testing.T) {
	r := newTestRenderer(t, testRecords)
	out, err := r.Results(search.Results{0, 1}, 0, ResultOptions{PreviousSearch: true})
	if err != nil {
		t.Fatal(err)
	}
	doc := parseHTML(t, out)
	if doc.Find(".shortpage, #pagination").Length() != 0 {
		t.Error("single page should not render pagination")
	}
	if !strings.Contains(doc.Find("h3").Text(), "previous search") {
		t.Error("missing previous search link")
	}
	if got := doc.Find(".entry h4").Eq(1).Text(); got != "A<b><c>" {
		t.Errorf("title = %q", got)
	}
}

func TestPaginationShort(t *testing.T) {
	doc := parseHTML(t, PaginationShort(0, 3))
	buttons := doc.Find("button")
	if _, ok := buttons.Eq(0).Attr("disabled"); !ok {
		t.Error("Prev should be disabled on the first page")
	}
	if _, ok := buttons.Eq(1).Attr("disabled"); ok {
		t.Error("Next should be enabled")
	}
	if got := doc.Find("span").Text(); got != "1 / 3" {
		t.Errorf("span = %q", got)
	}
	doc = parseHTML(t, PaginationShort(2, 3))
	if _, ok := doc.Find("button").Eq(1).Attr("disabled"); !ok {
		t.Error("Next should be disabled on the last page")
	}
}

func TestRandom(t *testing.T) {
	r := newTestRenderer(t, testRecords)
	out, err := r.Random(0)
	if err != nil {
		t.Fatal(err)
	}
	doc := parseHTML(t, out)
	if doc.Find(".entry.full.single").Length() != 1 {
		t.Error("missing full entry")
	}
	if doc.Find(".randomAction button").Length() != 2 {
		t.Error("missing random actions")
	}
	if _, err := r.Random(5); !errors.Is(err, catalog.ErrIndexOutOfRange) {
		t.Errorf("Random(5) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestManifest(t *testing.T) {
	r := newTestRenderer(t, testRecords)
	e, err := r.Store.Entry(1)
	if err != nil {
		t.Fatal(err)
	}
	m := NewManifest(e, "https://ipa.example.org")
	want := &Manifest{
		URL:      "https://archive.org/download/more/sub%20dir/App%20%231.ipa",
		Title:    "A<b><c>",
		BundleID: "com.example.app",
		Version:  "2.1",
		Image:    "https://ipa.example.org/data/0/8.jpg",
	}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("NewManifest() = %+v, want %+v", m, want)
	}

	payload, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasSuffix(payload, "=") {
		t.Errorf("payload %q has padding", payload)
	}
	got, err := DecodeManifest(payload)
	if err != nil {
		t.Fatalf("DecodeManifest() error = %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("DecodeManifest() = %+v, want %+v", got, m)
	}
	// query decoding turns '+' into ' '
	if got, err := DecodeManifest(strings.ReplaceAll(payload, "+", " ") + "=="); err != nil || !reflect.DeepEqual(got, m) {
		t.Errorf("DecodeManifest(spaced) = %+v, %v", got, err)
	}
	if _, err := DecodeManifest("!!!"); err == nil {
		t.Error("DecodeManifest(garbage) should fail")
	}
}

func TestInstallURL(t *testing.T) {
	if got, want := PlistURL("https://p.example.org/", "abc"), "https://p.example.org/?d=abc"; got != want {
		t.Errorf("PlistURL() = %q, want %q", got, want)
	}
	got := InstallURL("https://p.example.org/", "abc")
	want := "itms-services://?action=download-manifest&url=https://p.example.org/%3Fd%3Dabc"
	if got != want {
		t.Errorf("InstallURL() = %q, want %q", got, want)
	}
}

func TestPlist(t *testing.T) {
	m := &Manifest{
		URL:      "https://archive.org/download/ios-ipa/180.ipa",
		Title:    "Tom & Jerry",
		BundleID: "com.headcasegames.180",
		Version:  "1.0",
		Image:    "https://ipa.example.org/data/0/7.jpg",
	}
	data, err := Plist(m)
	if err != nil {
		t.Fatal(err)
	}
	if !IsPlist(data) {
		t.Fatalf("Plist() output is not a plist:\n%s", data)
	}
	for _, s := range []string{"software-package", "display-image", "needs-shine", "Tom &amp; Jerry"} {
		if !strings.Contains(string(data), s) {
			t.Errorf("Plist() missing %q", s)
		}
	}
	got, err := ParsePlist(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("ParsePlist() = %+v, want %+v", got, m)
	}
	if IsPlist([]byte(`{"error":"nope"}`)) {
		t.Error("IsPlist(json) = true")
	}
}

func TestLookup(t *testing.T) {
	r := newTestRenderer(t, testRecords)
	out, err := r.Lookup(nil, "", catalog.PlatformAny)
	if err != nil || out != noLookupResults {
		t.Errorf("Lookup(nil) = %q, %v", out, err)
	}

	l := &Lookup{
		Version:         "2.0",
		Price:           "Free",
		Rating:          4.3,
		Genres:          []string{"Games", "Puzzle"},
		URL:             "https://apps.apple.com/app/id1",
		Screenshots:     []string{"https://img/1.png"},
		IPadScreenshots: []string{"https://img/2.png", "https://img/3.png"},
	}
	tests := []struct {
		platform catalog.Platform
		want     int
	}{
		{catalog.PlatformAny, 3},
		{catalog.PlatformIPhone, 1},
		{catalog.PlatformIPad, 2},
		{catalog.PlatformTV, 0},
	}
	for _, tt := range tests {
		t.Run(tt.platform.String(), func(t *testing.T) {
			out, err := r.Lookup(l, "https://p.example.org/?r=", tt.platform)
			if err != nil {
				t.Fatal(err)
			}
			doc := parseHTML(t, out)
			if got := doc.Find(".carousel img").Length(); got != tt.want {
				t.Errorf("screenshots = %d, want %d", got, tt.want)
			}
			if !strings.Contains(doc.Text(), "Games, Puzzle") || !strings.Contains(doc.Text(), "Rating: 4.3") {
				t.Errorf("unexpected lookup markup: %s", out)
			}
		})
	}
}
