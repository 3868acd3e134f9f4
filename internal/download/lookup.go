package download

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/apex/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultLookupURL is the iTunes lookup endpoint
	DefaultLookupURL = "https://itunes.apple.com/lookup"
	// DefaultLookupCacheSize is the number of bundle ids kept in the lookup cache
	DefaultLookupCacheSize = 512
)

// App is an iTunes lookup result
type App struct {
	ID                 int      `json:"trackId,omitempty"`
	BundleID           string   `json:"bundleId,omitempty"`
	Name               string   `json:"trackName,omitempty"`
	Version            string   `json:"version,omitempty"`
	ReleaseDate        string   `json:"currentVersionReleaseDate,omitempty"`
	Price              float64  `json:"price,omitempty"`
	FormattedPrice     string   `json:"formattedPrice,omitempty"`
	Rating             float64  `json:"averageUserRating,omitempty"`
	RatingCount        int      `json:"userRatingCount,omitempty"`
	ContentAdvisory    string   `json:"contentAdvisoryRating,omitempty"`
	Genres             []string `json:"genres,omitempty"`
	TrackViewURL       string   `json:"trackViewUrl,omitempty"`
	Description        string   `json:"description,omitempty"`
	ArtworkURL         string   `json:"artworkUrl512,omitempty"`
	ScreenshotURLs     []string `json:"screenshotUrls,omitempty"`
	IPadScreenshotURLs []string `json:"ipadScreenshotUrls,omitempty"`
}

type lookupResults struct {
	ResultCount int   `json:"resultCount"`
	Results     []App `json:"results"`
}

// Lookup fetches App Store metadata for bundle ids and caches the answers,
// including the empty ones.
type Lookup struct {
	URL    string
	Client *http.Client

	cache *lru.Cache[string, *App]
}

// NewLookup creates a lookup client. An empty endpoint selects DefaultLookupURL.
func NewLookup(endpoint string, client *http.Client, cacheSize int) (*Lookup, error) {
	if endpoint == "" {
		endpoint = DefaultLookupURL
	}
	if cacheSize <= 0 {
		cacheSize = DefaultLookupCacheSize
	}
	if client == nil {
		client = NewClient(nil)
	}
	cache, err := lru.New[string, *App](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}
	return &Lookup{URL: endpoint, Client: client, cache: cache}, nil
}

// Get returns the first lookup result for bundleID, or nil when the store
// has no such app.
func (l *Lookup) Get(ctx context.Context, bundleID string) (*App, error) {
	if app, ok := l.cache.Get(bundleID); ok {
		return app, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http GET request: %v", err)
	}
	q := url.Values{}
	q.Add("bundleId", bundleID)
	req.URL.RawQuery = q.Encode()

	response, err := l.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	log.Debugf("GET iTunes lookup %s (%d)", bundleID, response.StatusCode)

	if 200 > response.StatusCode || 300 <= response.StatusCode {
		return nil, fmt.Errorf("failed to lookup bundleID: response received %s", response.Status)
	}

	var result lookupResults
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to deserialize response body JSON: %v", err)
	}

	var app *App
	if result.ResultCount > 0 && len(result.Results) > 0 {
		app = &result.Results[0]
	}
	l.cache.Add(bundleID, app)
	return app, nil
}
