package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/internal/utils"
	"github.com/blacktop/ipa-archive/pkg/catalog"
)

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Open returns a reader for src, which is either an http(s) url or a local path.
func Open(ctx context.Context, client *http.Client, src string) (io.ReadCloser, error) {
	if !isRemote(src) {
		return os.Open(src)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request: %w", err)
	}
	req.Header.Set("User-Agent", utils.RandomAgent())
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	log.WithField("url", src).Debugf("GET (%d)", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", src, resp.Status)
	}
	return resp.Body, nil
}

func loadSource[T any](ctx context.Context, client *http.Client, src string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	rc, err := Open(ctx, client, src)
	if err != nil {
		return zero, &catalog.LoadError{Source: src, Err: err}
	}
	defer rc.Close()
	v, err := decode(rc)
	if err != nil {
		var le *catalog.LoadError
		if errors.As(err, &le) {
			err = le.Err
		}
		return zero, &catalog.LoadError{Source: src, Err: err}
	}
	return v, nil
}

// LoadCatalog loads the base-url table and then the ipa catalog. The store is
// only built once both loads succeed.
func LoadCatalog(ctx context.Context, client *http.Client, urlsSrc, ipasSrc string) (*catalog.Store, error) {
	urls, err := loadSource(ctx, client, urlsSrc, catalog.DecodeBaseURLs)
	if err != nil {
		return nil, err
	}
	records, err := loadSource(ctx, client, ipasSrc, catalog.DecodeRecords)
	if err != nil {
		return nil, err
	}
	store, err := catalog.NewStore(records, urls)
	if err != nil {
		return nil, &catalog.LoadError{Source: ipasSrc, Err: err}
	}
	if err := store.Validate(); err != nil {
		log.WithError(err).Warn("catalog references unknown base urls")
	}
	log.WithFields(log.Fields{
		"ipas": store.Len(),
		"urls": len(urls),
	}).Debug("catalog loaded")
	return store, nil
}
