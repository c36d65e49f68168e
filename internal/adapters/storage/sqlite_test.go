package storage

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupDB creates a new SQLiteAdapter backed by a temporary file
func setupDB(t *testing.T) *SQLiteAdapter {
	t.Helper()
	adapter, err := NewSQLiteAdapter(filepath.Join(t.TempDir(), "wscan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })
	return adapter
}

func sampleSession(id string, started time.Time) domain.ScanSession {
	return domain.ScanSession{
		ID:          id,
		StartedAt:   started,
		FinishedAt:  started.Add(2 * time.Second),
		ChannelSpec: "2:1,6,11",
		BandSpec:    "2",
		MaxBSSCount: 10,
		Status:      domain.SessionDone,
		Results: []domain.ScanResult{
			{
				SSID:     "HomeNetwork",
				Band:     domain.Band24GHz,
				Channel:  6,
				Security: domain.SecurityPSK,
				MFP:      domain.MFPOptional,
				RSSI:     -45,
				BSSID:    net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
			},
			{
				SSID:     "",
				Band:     domain.Band24GHz,
				Channel:  1,
				Security: domain.SecurityNone,
				MFP:      domain.MFPDisable,
				RSSI:     -80,
				BSSID:    net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x66},
			},
		},
	}
}

func TestSaveAndGetSession(t *testing.T) {
	adapter := setupDB(t)
	ctx := context.Background()
	s := sampleSession("a1", time.Now().UTC().Truncate(time.Second))

	require.NoError(t, adapter.SaveSession(ctx, s))

	stored, err := adapter.GetSession(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, s.ChannelSpec, stored.ChannelSpec)
	assert.Equal(t, domain.SessionDone, stored.Status)
	assert.Equal(t, 2, stored.ResultCount)
	require.Len(t, stored.Results, 2)
	assert.Equal(t, s.Results[0], stored.Results[0])
	assert.Equal(t, s.Results[1], stored.Results[1])
}

func TestSaveSession_ReplacesResults(t *testing.T) {
	adapter := setupDB(t)
	ctx := context.Background()
	s := sampleSession("a1", time.Now())
	running := s
	running.Status = domain.SessionRunning
	running.Results = s.Results[:1]

	require.NoError(t, adapter.SaveSession(ctx, running))
	require.NoError(t, adapter.SaveSession(ctx, s))

	stored, err := adapter.GetSession(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionDone, stored.Status)
	assert.Len(t, stored.Results, 2)
}

func TestGetSession_NotFound(t *testing.T) {
	adapter := setupDB(t)
	_, err := adapter.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestListSessions(t *testing.T) {
	adapter := setupDB(t)
	ctx := context.Background()
	base := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, adapter.SaveSession(ctx, sampleSession(id, base.Add(time.Duration(i)*time.Minute))))
	}

	sessions, err := adapter.ListSessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "new", sessions[0].ID)
	assert.Equal(t, "mid", sessions[1].ID)
	assert.Empty(t, sessions[0].Results)
	assert.Equal(t, 2, sessions[0].ResultCount)

	all, err := adapter.ListSessions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
