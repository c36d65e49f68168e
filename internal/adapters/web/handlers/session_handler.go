package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
)

const defaultSessionLimit = 50

// SessionExporter renders a recorded session as a document.
type SessionExporter interface {
	ExportSession(s *domain.ScanSession) ([]byte, error)
}

// SessionHandler serves the scan history
type SessionHandler struct {
	Repo     ports.ScanRepository
	Exporter SessionExporter
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(repo ports.ScanRepository, exporter SessionExporter) *SessionHandler {
	return &SessionHandler{
		Repo:     repo,
		Exporter: exporter,
	}
}

// HandleList returns the most recent sessions without their results
func (h *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryParamInt(r, "limit", defaultSessionLimit)
	if err != nil || limit < 0 {
		writeError(w, fmt.Errorf("%w: invalid limit", domain.ErrInvalidArgument))
		return
	}

	sessions, err := h.Repo.ListSessions(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if sessions == nil {
		sessions = []domain.ScanSession{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// HandleGet returns one session with its results
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// HandleReport returns the session as a PDF attachment
func (h *SessionHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := h.Exporter.ExportSession(s)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="wscan-%s.pdf"`, s.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *SessionHandler) session(r *http.Request) (*domain.ScanSession, error) {
	id := mux.Vars(r)["id"]
	if id == "" {
		return nil, fmt.Errorf("%w: session id not provided", domain.ErrInvalidArgument)
	}
	return h.Repo.GetSession(r.Context(), id)
}
