// Package routes contains all the routes for the API
package routes

import (
	"github.com/blacktop/ipa-archive/api/server/routes/daemon"
	"github.com/blacktop/ipa-archive/api/server/routes/ipa"
	"github.com/blacktop/ipa-archive/api/server/routes/lookup"
	"github.com/blacktop/ipa-archive/internal/download"
	"github.com/gin-gonic/gin"
)

// Add adds the command routes to the router
func Add(rg *gin.RouterGroup, svc *ipa.Service, l *download.Lookup) {
	daemon.AddRoutes(rg)
	ipa.AddRoutes(rg, svc)
	lookup.AddRoutes(rg, l, svc.Renderer)
}
