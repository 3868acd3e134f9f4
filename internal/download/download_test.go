package download

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/blacktop/ipa-archive/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testURLs = `{"1":"https://archive.org/download/ios-ipa"}`
	testIPAs = `[[7,2,20200,"180","com.headcasegames.180","1.0",1,"180.ipa",189930]]`
)

func catalogServer(t *testing.T, ipas string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/urls.json", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, testURLs)
	})
	mux.HandleFunc("/ipa.json", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, ipas)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadCatalog(t *testing.T) {
	srv := catalogServer(t, testIPAs)
	store, err := LoadCatalog(context.Background(), srv.Client(), srv.URL+"/urls.json", srv.URL+"/ipa.json")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	e, err := store.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, "https://archive.org/download/ios-ipa/180.ipa", e.DownloadURL)
}

func TestLoadCatalogFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "urls.json"), []byte(testURLs), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ipa.json"), []byte(testIPAs), 0o644))

	store, err := LoadCatalog(context.Background(), nil, filepath.Join(dir, "urls.json"), filepath.Join(dir, "ipa.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestLoadCatalogErrors(t *testing.T) {
	srv := catalogServer(t, `[[1,2,3]]`)
	tests := []struct {
		name string
		urls string
		ipas string
	}{
		{"malformed record", srv.URL + "/urls.json", srv.URL + "/ipa.json"},
		{"missing ipas", srv.URL + "/urls.json", srv.URL + "/nope.json"},
		{"missing urls", srv.URL + "/nope.json", srv.URL + "/ipa.json"},
		{"missing file", filepath.Join(t.TempDir(), "urls.json"), srv.URL + "/ipa.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := LoadCatalog(context.Background(), srv.Client(), tt.urls, tt.ipas)
			assert.Nil(t, store)
			assert.ErrorIs(t, err, catalog.ErrDataLoad)
		})
	}
}

func TestLookup(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Query().Get("bundleId") {
		case "com.headcasegames.180":
			io.WriteString(w, `{"resultCount":1,"results":[{"trackId":1,"bundleId":"com.headcasegames.180","version":"2.0","formattedPrice":"Free","averageUserRating":4.5,"genres":["Games"],"screenshotUrls":["https://img/1.png"]}]}`)
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			io.WriteString(w, `{"resultCount":0,"results":[]}`)
		}
	}))
	defer srv.Close()

	l, err := NewLookup(srv.URL, srv.Client(), 8)
	require.NoError(t, err)

	app, err := l.Get(context.Background(), "com.headcasegames.180")
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "2.0", app.Version)
	assert.Equal(t, []string{"Games"}, app.Genres)
	assert.Equal(t, []string{"https://img/1.png"}, app.ScreenshotURLs)

	_, err = l.Get(context.Background(), "com.headcasegames.180")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second lookup should be served from cache")

	app, err = l.Get(context.Background(), "com.unknown")
	require.NoError(t, err)
	assert.Nil(t, app)

	_, err = l.Get(context.Background(), "broken")
	assert.Error(t, err)
}

func TestVerifyPlistServer(t *testing.T) {
	plistSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m, err := render.DecodeManifest(r.URL.Query().Get("d"))
		if err != nil {
			io.WriteString(w, "Parsing error")
			return
		}
		data, _ := render.Plist(m)
		w.Write(data)
	}))
	defer plistSrv.Close()
	jsonSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true}`)
	}))
	defer jsonSrv.Close()

	tests := []struct {
		name    string
		server  string
		wantErr error
	}{
		{"plist server", plistSrv.URL, nil},
		{"json server", jsonSrv.URL, ErrRemoteServiceRejected},
		{"bad scheme", "ftp://example.org", ErrInvalidScheme},
		{"unreachable", "http://127.0.0.1:1", ErrRemoteServiceRejected},
	}
	client := NewClient(&Config{Timeout: 5 * time.Second})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPlistServer(context.Background(), client, tt.server)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestArchiveID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://archive.org/details/ios-ipa-collection", "ios-ipa-collection", false},
		{"https://archive.org/download/ios-ipa/sub/app.ipa", "ios-ipa", false},
		{"http://archive.org/metadata/item", "item", false},
		{"https://example.org/details/item", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ArchiveID(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ArchiveID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ArchiveID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArchiveIPAs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metadata/item/files", r.URL.Path)
		io.WriteString(w, `{"result":[
			{"name":"a.ipa","source":"original","size":"1024"},
			{"name":"sub/b.ipa","source":"original"},
			{"name":"a_thumb.jpg","source":"derivative"},
			{"name":"c.ipa","source":"derivative","size":"5"}
		]}`)
	}))
	defer srv.Close()

	a := NewArchive(srv.Client())
	a.Host = srv.URL
	ipas, err := a.IPAs(context.Background(), "item")
	require.NoError(t, err)
	require.Len(t, ipas, 2)
	assert.Equal(t, "a.ipa", ipas[0].Name)
	assert.Equal(t, int64(1024), ipas[0].SizeBytes())
	assert.Equal(t, int64(0), ipas[1].SizeBytes())
	assert.Equal(t, srv.URL+"/download/item", a.DownloadURL("item"))
}

func TestNewRemoteZipReader(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"Payload/App.app/Info.plist", "iTunesArtwork"} {
		f, err := zw.Create(name)
		require.NoError(t, err)
		fmt.Fprintf(f, "contents of %s", name)
	}
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"app-v1"`)
		http.ServeContent(w, r, "app.ipa", time.Time{}, bytes.NewReader(buf.Bytes()))
	}))
	defer srv.Close()

	zr, err := NewRemoteZipReader(srv.URL+"/app.ipa", srv.Client())
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Payload/App.app/Info.plist", "iTunesArtwork"}, names)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "iTunesArtwork"))
}
