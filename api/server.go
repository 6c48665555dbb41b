// Package api serves hosted games over HTTP. Renderers fetch a snapshot and
// then follow the per tick frames over a websocket.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/battlesnakeio/gridsnake/controller"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
)

// Server is the http api server.
type Server struct {
	hs         *http.Server
	controller *controller.Controller
	upgrader   websocket.Upgrader
	maxConns   int
}

// New creates a new api server listening on addr. maxConns caps concurrent
// connections, zero means no cap.
func New(addr string, c *controller.Controller, maxConns int) *Server {
	s := &Server{
		controller: c,
		maxConns:   maxConns,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Renderers are served from anywhere, same as the CORS policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	router := httprouter.New()
	router.POST("/games", s.createGame)
	router.GET("/games", s.listGames)
	router.GET("/games/:id", s.status)
	router.GET("/games/:id/frames", s.frames)
	router.GET("/games/:id/snapshot", s.snapshot)
	router.GET("/socket/:id", s.socket)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(router)

	s.hs = &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler, useful for tests.
func (s *Server) Handler() http.Handler { return s.hs.Handler }

// Serve accepts connections on lis until the server is shut down.
func (s *Server) Serve(lis net.Listener) error {
	if s.maxConns > 0 {
		lis = netutil.LimitListener(lis, s.maxConns)
	}
	log.WithField("addr", lis.Addr().String()).Info("gridsnake api listening")
	err := s.hs.Serve(lis)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// WaitForExit listens on the configured address and serves until the server
// is shut down.
func (s *Server) WaitForExit() {
	lis, err := net.Listen("tcp", s.hs.Addr)
	if err != nil {
		log.WithError(err).Error("Error while listening")
		return
	}
	if err := s.Serve(lis); err != nil {
		log.WithError(err).Error("Error while serving")
	}
}

// Shutdown stops the server, waiting for open requests up to ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}
