package websocket

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

func dial(t *testing.T, m *WSManager, header http.Header) (*gws.Conn, *http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(m.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := gws.DefaultDialer.Dial(url, header)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func TestWSManager_PublishResult(t *testing.T) {
	m := NewWSManager(nil)
	conn, _, err := dial(t, m, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	m.PublishResult("s-1", domain.ScanResult{
		SSID:     "Home",
		Band:     domain.Band24GHz,
		Channel:  6,
		Security: domain.SecurityPSK,
		MFP:      domain.MFPOptional,
		RSSI:     -45,
		BSSID:    net.HardwareAddr{0, 1, 2, 3, 4, 5},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string        `json:"type"`
		Payload ResultPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, TypeResult, msg.Type)
	assert.Equal(t, "s-1", msg.Payload.SessionID)
	assert.Equal(t, "Home", msg.Payload.Result.SSID)
	assert.Equal(t, 6, msg.Payload.Result.Channel)
}

func TestWSManager_PublishSessionOmitsResults(t *testing.T) {
	m := NewWSManager(nil)
	conn, _, err := dial(t, m, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	m.PublishSession(domain.ScanSession{
		ID:      "s-2",
		Status:  domain.SessionDone,
		Results: []domain.ScanResult{{SSID: "a"}, {SSID: "b"}},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string             `json:"type"`
		Payload domain.ScanSession `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, TypeSession, msg.Type)
	assert.Equal(t, 2, msg.Payload.ResultCount)
	assert.Empty(t, msg.Payload.Results)
}

func TestWSManager_RejectsOrigin(t *testing.T) {
	m := NewWSManager([]string{"http://localhost:8080"})

	_, resp, err := dial(t, m, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, _, err = dial(t, m, http.Header{"Origin": []string{"http://localhost:8080"}})
	assert.NoError(t, err)
}

func TestWSManager_DisconnectAndClose(t *testing.T) {
	m := NewWSManager(nil)
	conn, _, err := dial(t, m, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return m.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	_, _, err = dial(t, m, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	m.Close()
	assert.Equal(t, 0, m.ClientCount())
}
