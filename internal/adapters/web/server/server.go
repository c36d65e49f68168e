// Package server exposes the scan controller over HTTP.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lcalzada-xor/wscan/internal/adapters/web/handlers"
	"github.com/lcalzada-xor/wscan/internal/adapters/web/websocket"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
)

// DefaultScanRateLimit is the number of scan starts a client may make per
// minute.
const DefaultScanRateLimit = 10

// Options configures a Server.
type Options struct {
	Addr string
	// TokenHash is the bcrypt hash of the API token. Empty disables auth.
	TokenHash     []byte
	ScanRateLimit int
}

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr           string
	TokenHash      []byte
	ScanRateLimit  int
	WSManager      *websocket.WSManager
	ScanHandler    *handlers.ScanHandler
	SessionHandler *handlers.SessionHandler
	srv            *http.Server
}

// NewServer creates a new web server.
func NewServer(opts Options, runner handlers.SessionRunner, scanner ports.Scanner, repo ports.ScanRepository, exporter handlers.SessionExporter, ws *websocket.WSManager) *Server {
	if opts.ScanRateLimit <= 0 {
		opts.ScanRateLimit = DefaultScanRateLimit
	}
	return &Server{
		Addr:           opts.Addr,
		TokenHash:      opts.TokenHash,
		ScanRateLimit:  opts.ScanRateLimit,
		WSManager:      ws,
		ScanHandler:    handlers.NewScanHandler(runner, scanner),
		SessionHandler: handlers.NewSessionHandler(repo, exporter),
	}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	handler, stop := SetupRoutes(s)
	defer stop()

	// "wscan-server" is the name of the operation (span)
	instrumentedHandler := otelhttp.NewHandler(handler, "wscan-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown implementation
	go func() {
		<-ctx.Done()
		log.Println("Web Server shutting down...")
		s.WSManager.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Web Server shutdown error: %v", err)
		}
	}()

	log.Printf("Web server listening on %s", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
