package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
	"github.com/lcalzada-xor/wscan/internal/core/services/session"
)

// SessionRunner starts scan sessions in the background.
type SessionRunner interface {
	Start(ctx context.Context, req session.Request) (string, <-chan domain.ScanSession, error)
	Current() (domain.ScanSession, bool)
}

// ScanHandler starts scans and reports scanner state
type ScanHandler struct {
	Runner  SessionRunner
	Scanner ports.Scanner
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(runner SessionRunner, scanner ports.Scanner) *ScanHandler {
	return &ScanHandler{
		Runner:  runner,
		Scanner: scanner,
	}
}

// StatusResponse is the body of GET /api/scan/status.
type StatusResponse struct {
	State    string              `json:"state"`
	ScanDone bool                `json:"scan_done"`
	VIF      domain.VIF          `json:"vif"`
	Session  *domain.ScanSession `json:"session,omitempty"`
}

// HandleStartScan starts a scan session and returns its id. The session
// outlives the request.
func (h *ScanHandler) HandleStartScan(w http.ResponseWriter, r *http.Request) {
	var req session.Request
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidArgument, err))
			return
		}
	}

	id, _, err := h.Runner.Start(context.WithoutCancel(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": "started"})
}

// HandleStats returns the radio counters selected by the type query
// parameter: umac, lmac, phy or all.
func (h *ScanHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseStatsKind(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := h.Scanner.Stats(r.Context(), kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleStatus returns the scanner state and the latest session
func (h *ScanHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		State:    h.Scanner.State().String(),
		ScanDone: h.Scanner.ScanDone(),
		VIF:      h.Scanner.VIF(),
	}
	if s, ok := h.Runner.Current(); ok {
		resp.Session = &s
	}
	writeJSON(w, http.StatusOK, resp)
}
