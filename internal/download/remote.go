package download

import (
	"archive/zip"
	"net/http"
	"net/url"

	"github.com/blacktop/ranger"
	"github.com/pkg/errors"

	"github.com/blacktop/ipa-archive/internal/utils"
)

// NewRemoteZipReader returns a zip reader that fetches only the byte ranges it reads
func NewRemoteZipReader(zipURL string, client *http.Client) (*zip.Reader, error) {

	url, err := url.Parse(zipURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse url")
	}

	reader, err := ranger.NewReader(&ranger.HTTPRanger{
		URL:       url,
		UserAgent: utils.RandomAgent(),
		Client:    client,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ranger reader")
	}

	length, err := reader.Length()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reader length")
	}

	zr, err := zip.NewReader(reader, length)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create zip reader")
	}

	return zr, nil
}
