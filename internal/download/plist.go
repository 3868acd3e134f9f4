package download

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/pkg/render"
)

// ErrRemoteServiceRejected is returned when a plist server answers with something other than a plist.
var ErrRemoteServiceRejected = errors.New("server did not respond with a plist file")

// ErrInvalidScheme is returned for plist server urls that are not http or https.
var ErrInvalidScheme = errors.New("url must start with http:// or https://")

// probePayload is the manifest sent when checking a plist server
var probePayload = base64.StdEncoding.EncodeToString([]byte(`{"u":"1"}`))

// VerifyPlistServer checks that server generates install plists.
func VerifyPlistServer(ctx context.Context, client *http.Client, server string) error {
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		return ErrInvalidScheme
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, render.PlistURL(server, probePayload), nil)
	if err != nil {
		return fmt.Errorf("cannot create http request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteServiceRejected, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteServiceRejected, err)
	}
	log.WithField("server", server).Debugf("plist server responded (%d)", resp.StatusCode)
	if !render.IsPlist(body) {
		return ErrRemoteServiceRejected
	}
	return nil
}
