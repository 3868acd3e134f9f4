package download

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

const archiveHost = "https://archive.org"

var archiveURLRe = regexp.MustCompile(`^https?://archive\.org/(?:metadata|details|download)/([^/]+)(?:/.*)?$`)

// ErrNotArchiveURL is returned for urls that do not point at an archive.org item.
var ErrNotArchiveURL = errors.New("not an archive.org url")

// ArchiveFile is one file of an archive.org item
type ArchiveFile struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Size   string `json:"size,omitempty"`
}

// SizeBytes returns the file size, 0 when archive.org did not report one.
func (f ArchiveFile) SizeBytes() int64 {
	n, _ := strconv.ParseInt(f.Size, 10, 64)
	return n
}

type archiveFiles struct {
	Result []ArchiveFile `json:"result"`
}

// Archive lists archive.org items
type Archive struct {
	Host   string
	Client *http.Client
}

// NewArchive creates an archive.org client
func NewArchive(client *http.Client) *Archive {
	return &Archive{Host: archiveHost, Client: client}
}

// ArchiveID extracts the item identifier from an archive.org metadata, details or download url.
func ArchiveID(u string) (string, error) {
	m := archiveURLRe.FindStringSubmatch(u)
	if m == nil {
		return "", errors.Wrapf(ErrNotArchiveURL, "%q", u)
	}
	return m[1], nil
}

// DownloadURL is the base url the files of item are served from.
func (a *Archive) DownloadURL(id string) string {
	return a.Host + "/download/" + id
}

// IPAs returns every original .ipa file of an item.
func (a *Archive) IPAs(ctx context.Context, id string) ([]ArchiveFile, error) {
	rc, err := Open(ctx, a.Client, a.Host+"/metadata/"+id+"/files")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list archive %s", id)
	}
	defer rc.Close()

	var files archiveFiles
	if err := json.NewDecoder(rc).Decode(&files); err != nil {
		return nil, errors.Wrap(err, "failed to decode archive listing")
	}

	var ipas []ArchiveFile
	for _, f := range files.Result {
		if f.Source == "original" && strings.HasSuffix(f.Name, ".ipa") {
			ipas = append(ipas, f)
		}
	}
	log.WithFields(log.Fields{
		"archive": id,
		"files":   len(files.Result),
		"ipas":    len(ipas),
	}).Debug("listed archive")
	return ipas, nil
}
