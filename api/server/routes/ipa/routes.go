package ipa

import (
	"github.com/gin-gonic/gin"
)

// AddRoutes adds the catalog routes to the router
func AddRoutes(rg *gin.RouterGroup, svc *Service) {
	// swagger:route GET /search IPA getSearch
	//
	// Search
	//
	// Filter the catalog and return one page of results.
	//
	//     Produces:
	//     - application/json
	//
	//     Parameters:
	//       + name: search
	//         in: query
	//         description: term matched against title, bundle id and file path
	//         required: false
	//         type: string
	//       + name: state
	//         in: query
	//         description: encoded filter state, overrides the other parameters
	//         required: false
	//         type: string
	//
	//     Responses:
	//       200: searchResponse
	//       400: genericError
	rg.GET("/search", svc.search)
	// swagger:route GET /search/html IPA getSearchHTML
	//
	// Search markup
	//
	// Filter the catalog and render one page of results.
	rg.GET("/search/html", svc.searchHTML)
	// swagger:route GET /entry/{idx} IPA getEntry
	//
	// Entry
	//
	// Get a single catalog entry by index.
	//
	//     Responses:
	//       200: Entry
	//       400: genericError
	//       404: genericError
	//       500: genericError
	rg.GET("/entry/:idx", svc.entry)
	// swagger:route GET /key/{key} IPA getEntryByKey
	//
	// Entry by key
	//
	// Get a single catalog entry by its ipa key.
	//
	//     Responses:
	//       200: Entry
	//       400: genericError
	//       404: genericError
	rg.GET("/key/:key", svc.byKey)
	// swagger:route GET /random IPA getRandom
	//
	// Random
	//
	// Pick a random entry, from the filtered results when a filter is given.
	rg.GET("/random", svc.random)
	// swagger:route GET /manifest/{idx} IPA getManifest
	//
	// Manifest
	//
	// Build the install manifest and itms-services link for an entry.
	rg.GET("/manifest/:idx", svc.manifest)
}
