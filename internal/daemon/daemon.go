// Package daemon provides the daemon interface and implementation.
package daemon

import (
	"context"
	"fmt"
	"sync"

	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/api/server"
	"github.com/blacktop/ipa-archive/api/server/routes/ipa"
	"github.com/blacktop/ipa-archive/internal/config"
	"github.com/blacktop/ipa-archive/internal/download"
	"github.com/blacktop/ipa-archive/pkg/render"
	"github.com/gin-gonic/gin"
)

// Daemon is the interface that describes an ipa-archive daemon.
type Daemon interface {
	// Start starts the daemon.
	Start() error
	// Stop stops the daemon.
	Stop() error
}

type daemon struct {
	mu      sync.Mutex
	server  *server.Server
	stopped bool
	conf    *config.Config
}

// NewDaemon creates a new daemon.
func NewDaemon(conf *config.Config) Daemon {
	return &daemon{conf: conf}
}

func (d *daemon) Start() error {
	if d.conf.Daemon.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if d.conf.Catalog.URLs == "" || d.conf.Catalog.IPAs == "" {
		return fmt.Errorf("daemon: catalog.urls and catalog.ipas must be set")
	}

	client := download.NewClient(&download.Config{Proxy: d.conf.Indexer.Proxy})

	log.WithFields(log.Fields{
		"urls": d.conf.Catalog.URLs,
		"ipas": d.conf.Catalog.IPAs,
	}).Info("Loading Catalog")
	store, err := download.LoadCatalog(context.Background(), client, d.conf.Catalog.URLs, d.conf.Catalog.IPAs)
	if err != nil {
		return err
	}
	log.WithField("records", store.Len()).Debug("catalog loaded")

	renderer := render.NewRenderer(store)
	renderer.PageSize = d.conf.Catalog.PageSize

	lookup, err := download.NewLookup(d.conf.Plist.Lookup, client, d.conf.Plist.CacheSize)
	if err != nil {
		return err
	}

	srv := server.NewServer(&server.Config{
		Host:   d.conf.Daemon.Host,
		Port:   d.conf.Daemon.Port,
		Socket: d.conf.Daemon.Socket,
		Debug:  d.conf.Daemon.Debug,
	}, &ipa.Service{
		Store:       store,
		Renderer:    renderer,
		MatchMode:   d.conf.MatchMode(),
		PageSize:    d.conf.Catalog.PageSize,
		SiteURL:     d.conf.Catalog.Images,
		PlistServer: d.conf.Plist.Server,
	}, lookup)

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.server = srv
	d.mu.Unlock()

	return srv.Start()
}

// Stop stops a running daemon. A daemon stopped while still loading its
// catalog never starts serving.
func (d *daemon) Stop() error {
	d.mu.Lock()
	d.stopped = true
	srv := d.server
	d.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Stop()
}
