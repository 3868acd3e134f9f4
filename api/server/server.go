// Package server contains the main server struct and methods
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/api"
	"github.com/blacktop/ipa-archive/api/server/routes"
	"github.com/blacktop/ipa-archive/api/server/routes/ipa"
	"github.com/blacktop/ipa-archive/api/server/routes/plist"
	"github.com/blacktop/ipa-archive/internal/download"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Config is the server config
type Config struct {
	Host   string
	Port   int
	Socket string
	Debug  bool
}

// Server is the main server struct
type Server struct {
	router   *gin.Engine
	server   *http.Server
	conf     *Config
	registry *prometheus.Registry
}

// NewServer creates a new server
func NewServer(conf *Config, svc *ipa.Service, lookup *download.Lookup) *Server {
	s := &Server{
		router:   gin.New(),
		conf:     conf,
		registry: prometheus.NewRegistry(),
	}
	m := newMetrics(s.registry)
	if svc.Store != nil {
		m.catalog.Set(float64(svc.Store.Len()))
	}
	svc.Observe = m.observe

	s.router.Use(gin.Recovery(), requestID(conf.Debug), m.middleware())
	if conf.Debug {
		s.router.Use(gin.Logger())
	}

	s.server = &http.Server{Handler: s.router}

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	plist.AddRoutes(s.router.Group("/"))
	rg := s.router.Group("/v" + api.DefaultVersion)
	routes.Add(rg, svc, lookup)

	return s
}

// Handler returns the server's http handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) listen() (net.Listener, error) {
	if s.conf.Socket != "" {
		if err := os.MkdirAll(filepath.Dir(s.conf.Socket), 0o750); err != nil {
			return nil, fmt.Errorf("server: failed to create socket directory: %v", err)
		}
		if err := os.Remove(s.conf.Socket); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("server: failed to remove stale socket: %v", err)
		}
		return net.Listen("unix", s.conf.Socket)
	}
	return net.Listen("tcp", fmt.Sprintf("%s:%d", s.conf.Host, s.conf.Port))
}

// Start starts the server and blocks until it is stopped
func (s *Server) Start() error {
	ln, err := s.listen()
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"addr": ln.Addr().String(),
	}).Info("Starting Server")

	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: failed to serve: %v", err)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: failed to shutdown: %v", err)
	}
	log.Info("Shutdown Complete")
	return nil
}
