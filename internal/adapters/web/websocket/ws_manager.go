// Package websocket streams scan results to connected browsers.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
)

const writeWait = 5 * time.Second

// Message types sent to clients.
const (
	TypeResult  = "scan.result"
	TypeSession = "scan.session"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ResultPayload carries one streamed result.
type ResultPayload struct {
	SessionID string            `json:"session_id"`
	Result    domain.ScanResult `json:"result"`
}

// WSManager fans scan results out to all connected clients. It implements
// ports.ResultSink.
type WSManager struct {
	upgrader gws.Upgrader
	clients  map[*gws.Conn]struct{}
	mu       sync.Mutex
}

var _ ports.ResultSink = (*WSManager)(nil)

// NewWSManager creates a manager. Requests without an Origin header are
// always accepted; otherwise the origin must be listed.
func NewWSManager(allowedOrigins []string) *WSManager {
	m := &WSManager{clients: make(map[*gws.Conn]struct{})}
	m.upgrader = gws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			log.Printf("WebSocket: Rejected origin: %s", origin)
			return false
		},
	}
	return m
}

func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	m.mu.Lock()
	m.clients[conn] = struct{}{}
	m.mu.Unlock()

	log.Printf("WebSocket connected: %s", r.RemoteAddr)

	// Clean up on disconnect
	go func() {
		defer m.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (m *WSManager) remove(conn *gws.Conn) {
	m.mu.Lock()
	_, ok := m.clients[conn]
	delete(m.clients, conn)
	m.mu.Unlock()
	if ok {
		conn.Close()
		log.Printf("WebSocket disconnected: %s", conn.RemoteAddr())
	}
}

// ClientCount returns the number of connected clients.
func (m *WSManager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// PublishResult broadcasts one streamed result.
func (m *WSManager) PublishResult(sessionID string, res domain.ScanResult) {
	m.broadcastMessage(WSMessage{
		Type:    TypeResult,
		Payload: ResultPayload{SessionID: sessionID, Result: res},
	})
}

// PublishSession broadcasts a finished session without its results.
func (m *WSManager) PublishSession(s domain.ScanSession) {
	s.ResultCount = len(s.Results)
	s.Results = nil
	m.broadcastMessage(WSMessage{
		Type:    TypeSession,
		Payload: s,
	})
}

// Close disconnects every client.
func (m *WSManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		conn.WriteControl(gws.CloseMessage,
			gws.FormatCloseMessage(gws.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(m.clients, conn)
	}
}

func (m *WSManager) broadcastMessage(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(gws.TextMessage, data); err != nil {
			conn.Close()
			delete(m.clients, conn)
		}
	}
}
