// Package plist provides the install plist generator route
package plist

import (
	"net/http"

	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/pkg/render"
	"github.com/gin-gonic/gin"
)

// AddRoutes adds the plist generator to the router
func AddRoutes(rg *gin.RouterGroup) {
	// swagger:route GET /plist Plist getPlist
	//
	// Plist
	//
	// Generate the install plist for a base64 manifest. Devices fetch this
	// through an itms-services link.
	//
	//     Produces:
	//     - application/xml
	//     - text/plain
	//
	//     Parameters:
	//       + name: d
	//         in: query
	//         description: base64 encoded manifest
	//         required: true
	//         type: string
	rg.GET("/plist", generate)
}

func generate(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	m, err := render.DecodeManifest(c.Query("d"))
	if err != nil {
		log.WithError(err).Debug("bad plist request")
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte("Parsing error"))
		return
	}
	data, err := render.Plist(m)
	if err != nil {
		log.WithError(err).Error("failed to generate plist")
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte("Parsing error"))
		return
	}
	c.Data(http.StatusOK, "application/xml", data)
}
