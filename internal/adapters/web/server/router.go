package server

import (
	"net/http"
	"time"

	gorillamux "github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lcalzada-xor/wscan/internal/adapters/web/middleware"
)

// SetupRoutes builds the route table. The returned func releases the rate
// limiter.
func SetupRoutes(s *Server) (http.Handler, func()) {
	mux := http.NewServeMux()

	auth := middleware.TokenAuth(s.TokenHash)
	protect := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	scanLimiter := middleware.NewRateLimiter(s.ScanRateLimit, 1*time.Minute)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("POST /api/scan", middleware.RateLimitMiddleware(scanLimiter)(protect(s.ScanHandler.HandleStartScan)))
	mux.Handle("GET /api/scan/status", protect(s.ScanHandler.HandleStatus))
	mux.Handle("GET /api/stats", protect(s.ScanHandler.HandleStats))

	// Session history
	sessions := gorillamux.NewRouter()
	sessions.HandleFunc("/api/sessions", s.SessionHandler.HandleList).Methods(http.MethodGet)
	sessions.HandleFunc("/api/sessions/{id}", s.SessionHandler.HandleGet).Methods(http.MethodGet)
	sessions.HandleFunc("/api/sessions/{id}/report", s.SessionHandler.HandleReport).Methods(http.MethodGet)
	mux.Handle("/api/sessions", auth(sessions))
	mux.Handle("/api/sessions/", auth(sessions))

	mux.Handle("/ws", protect(s.WSManager.HandleWebSocket))

	// Metrics endpoint (protected - requires authentication)
	mux.Handle("/metrics", auth(promhttp.Handler()))

	return mux, scanLimiter.Stop
}
