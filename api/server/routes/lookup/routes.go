// Package lookup provides the App Store metadata routes
package lookup

import (
	"net/http"

	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/api/types"
	"github.com/blacktop/ipa-archive/internal/download"
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/blacktop/ipa-archive/pkg/render"
	"github.com/gin-gonic/gin"
)

const noResults = "No iTunes results."

// AddRoutes adds the lookup routes to the router
func AddRoutes(rg *gin.RouterGroup, l *download.Lookup, r *render.Renderer) {
	// swagger:route GET /lookup/{bundle} Lookup getLookup
	//
	// Lookup
	//
	// Get the App Store metadata of a bundle id.
	//
	//     Responses:
	//       200: App
	//       404: genericError
	//       502: genericError
	rg.GET("/lookup/:bundle", func(c *gin.Context) {
		app, ok := get(c, l)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, app)
	})
	// swagger:route GET /lookup/{bundle}/html Lookup getLookupHTML
	//
	// Lookup markup
	//
	// Render the App Store metadata block; a missing app renders a notice.
	rg.GET("/lookup/:bundle/html", func(c *gin.Context) {
		if l == nil {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(r.NoLookup()))
			return
		}
		app, err := l.Get(c.Request.Context(), c.Param("bundle"))
		if err != nil {
			log.WithError(err).WithField("bundle", c.Param("bundle")).Debug("lookup failed")
			app = nil
		}
		platform, _ := catalog.ParsePlatform(c.Query("device"))
		out, err := r.Lookup(ToLookup(app), c.Query("redirect"), platform)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, types.GenericError{Error: err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
	})
}

func get(c *gin.Context, l *download.Lookup) (*download.App, bool) {
	if l == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, types.GenericError{Error: "lookup is disabled"})
		return nil, false
	}
	app, err := l.Get(c.Request.Context(), c.Param("bundle"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, types.GenericError{Error: err.Error()})
		return nil, false
	}
	if app == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, types.GenericError{Error: noResults})
		return nil, false
	}
	return app, true
}

// ToLookup converts a lookup result for rendering; nil stays nil.
func ToLookup(app *download.App) *render.Lookup {
	if app == nil {
		return nil
	}
	return &render.Lookup{
		Version:         app.Version,
		Price:           app.FormattedPrice,
		Rating:          app.Rating,
		Advisory:        app.ContentAdvisory,
		Date:            app.ReleaseDate,
		Genres:          app.Genres,
		URL:             app.TrackViewURL,
		Description:     app.Description,
		Screenshots:     app.ScreenshotURLs,
		IPadScreenshots: app.IPadScreenshotURLs,
	}
}
