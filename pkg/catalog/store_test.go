package catalog

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const testIPAs = `[
[7,2,20200,"180","com.headcasegames.180","1.0",1,"180.ipa",189930],
[8,6,0,null,"com.example.app","2.1 (2.1.0)",2,"sub dir/App #1.ipa",1500],
[9,null,40300,"Tetris","com.ea.tetris","1.5",1,"Tetris.ipa",2048]
]`

const testURLs = `{"1":"https://archive.org/download/ios-ipa","2":"https://archive.org/download/more"}`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	records, err := DecodeRecords(strings.NewReader(testIPAs))
	if err != nil {
		t.Fatalf("DecodeRecords() error = %v", err)
	}
	urls, err := DecodeBaseURLs(strings.NewReader(testURLs))
	if err != nil {
		t.Fatalf("DecodeBaseURLs() error = %v", err)
	}
	s, err := NewStore(records, urls)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestDecodeRecords(t *testing.T) {
	s := newTestStore(t)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	got, err := s.Record(1)
	if err != nil {
		t.Fatal(err)
	}
	want := Record{
		Key:       8,
		Platforms: 6,
		MinOS:     0,
		Title:     "",
		BundleID:  "com.example.app",
		Version:   "2.1 (2.1.0)",
		BaseURL:   2,
		Path:      "sub dir/App #1.ipa",
		Size:      1500,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Record(1) = %+v, want %+v", got, want)
	}
	if got.DisplayTitle() != "?" {
		t.Errorf("DisplayTitle() = %q, want ?", got.DisplayTitle())
	}
	if got.ShortVersion() != "2.1" {
		t.Errorf("ShortVersion() = %q, want 2.1", got.ShortVersion())
	}
	if got.FileName() != "App #1.ipa" {
		t.Errorf("FileName() = %q", got.FileName())
	}
}

func TestDecodeRecordsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `[[1,2`},
		{name: "short record", data: `[[1,2,3]]`},
		{name: "null key", data: `[[null,2,0,"a","b","c",1,"p",1]]`},
		{name: "string size", data: `[[1,2,0,"a","b","c",1,"p","big"]]`},
		{name: "negative size", data: `[[1,2,0,"a","b","c",1,"p",-1]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecords(strings.NewReader(tt.data))
			if !errors.Is(err, ErrDataLoad) {
				t.Errorf("DecodeRecords() error = %v, want ErrDataLoad", err)
			}
		})
	}
}

func TestDecodeBaseURLsBadKey(t *testing.T) {
	if _, err := DecodeBaseURLs(strings.NewReader(`{"one":"x"}`)); !errors.Is(err, ErrDataLoad) {
		t.Errorf("DecodeBaseURLs() error = %v, want ErrDataLoad", err)
	}
}

func TestStoreEntry(t *testing.T) {
	s := newTestStore(t)
	e, err := s.Entry(0)
	if err != nil {
		t.Fatal(err)
	}
	if e.DownloadURL != "https://archive.org/download/ios-ipa/180.ipa" {
		t.Errorf("DownloadURL = %q", e.DownloadURL)
	}
	if e.ImagePath != "data/0/7.jpg" {
		t.Errorf("ImagePath = %q", e.ImagePath)
	}
	if got := ImagePath(12345); got != "data/12/12345.jpg" {
		t.Errorf("ImagePath(12345) = %q", got)
	}
}

func TestStoreErrors(t *testing.T) {
	s := newTestStore(t)
	for _, idx := range []int{-1, 3, 100} {
		if _, err := s.Record(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Record(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
		if _, err := s.Entry(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Entry(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}

	broken, err := NewStore([]Record{{Key: 1, BaseURL: 99, Path: "a.ipa"}}, BaseURLs{1: "x"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = broken.Entry(0)
	var berr *BaseURLError
	if !errors.Is(err, ErrUnresolvedBaseURL) || !errors.As(err, &berr) || berr.Key != 99 {
		t.Errorf("Entry() error = %v, want unresolved base url 99", err)
	}
	if err := broken.Validate(); !errors.Is(err, ErrUnresolvedBaseURL) {
		t.Errorf("Validate() error = %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestNewStoreDuplicateKey(t *testing.T) {
	_, err := NewStore([]Record{{Key: 1}, {Key: 2}, {Key: 1}}, nil)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("NewStore() error = %v, want ErrDuplicateKey", err)
	}
}

func TestNewStoreCopies(t *testing.T) {
	records := []Record{{Key: 1, Title: "a"}}
	s, err := NewStore(records, BaseURLs{})
	if err != nil {
		t.Fatal(err)
	}
	records[0].Title = "mutated"
	if r, _ := s.Record(0); r.Title != "a" {
		t.Errorf("store was mutated through caller slice: %q", r.Title)
	}
	if idx, ok := s.IndexOf(1); !ok || idx != 0 {
		t.Errorf("IndexOf(1) = %d, %v", idx, ok)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	var records []Record
	s.Each(func(_ int, r Record) bool {
		records = append(records, r)
		return true
	})
	var buf bytes.Buffer
	if err := EncodeRecords(&buf, records); err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeRecords(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, records) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, records)
	}

	buf.Reset()
	if err := EncodeBaseURLs(&buf, BaseURLs{2: "b", 1: "a"}); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "{\"1\":\"a\",\n\"2\":\"b\"}"; got != want {
		t.Errorf("EncodeBaseURLs() = %q, want %q", got, want)
	}
}
