package render

import (
	"fmt"
	"strings"

	"github.com/blacktop/ipa-archive/pkg/catalog"
)

// Lookup is App Store metadata shown next to a catalog entry.
type Lookup struct {
	Version         string
	Price           string
	Rating          float64
	Advisory        string
	Date            string
	Genres          []string
	URL             string
	Description     string
	Screenshots     []string
	IPadScreenshots []string
}

const noLookupResults = `<p class="no-itunes">No iTunes results.</p>`

// Screenshots renders a carousel of images fetched through redirectURL.
func (r *Renderer) Screenshots(redirectURL string, urls []string) (string, error) {
	var b strings.Builder
	b.WriteString(`<div class="carousel">`)
	for _, u := range urls {
		out, err := r.Templates.Screenshot.Render(Values{"REF": u, "URL": redirectURL + u})
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	b.WriteString("</div>")
	return b.String(), nil
}

// Lookup renders the metadata block. Screenshots are limited to the selected
// platform; a nil lookup renders the "no results" notice.
func (r *Renderer) Lookup(l *Lookup, redirectURL string, platform catalog.Platform) (string, error) {
	if l == nil {
		return noLookupResults, nil
	}
	var imgs strings.Builder
	showPhone := platform == catalog.PlatformAny || platform == catalog.PlatformIPhone
	showPad := platform == catalog.PlatformAny || platform == catalog.PlatformIPad
	if len(l.Screenshots) > 0 && showPhone {
		out, err := r.Screenshots(redirectURL, l.Screenshots)
		if err != nil {
			return "", err
		}
		imgs.WriteString("<p>iPhone Screenshots:</p>" + out)
	}
	if len(l.IPadScreenshots) > 0 && showPad {
		out, err := r.Screenshots(redirectURL, l.IPadScreenshots)
		if err != nil {
			return "", err
		}
		imgs.WriteString("<p>iPad Screenshots:</p>" + out)
	}
	return r.Templates.Lookup.Render(Values{
		"VERSION":     l.Version,
		"PRICE":       l.Price,
		"RATING":      fmt.Sprintf("%.1f", l.Rating),
		"ADVISORY":    l.Advisory,
		"DATE":        l.Date,
		"GENRES":      strings.Join(l.Genres, ", "),
		"URL":         l.URL,
		"IMG":         imgs.String(),
		"DESCRIPTION": l.Description,
	})
}

// NoLookup renders the notice shown when no plist server is configured.
func (r *Renderer) NoLookup() string {
	return r.Templates.NoLookup.String()
}
