package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wscan/internal/config"
	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Interface:     "wlan0",
		Driver:        config.DriverSim,
		DBPath:        filepath.Join(t.TempDir(), "wscan.db"),
		Channels:      "2:1,6,11",
		MaxBSS:        5,
		ChannelMax:    16,
		SSIDMax:       2,
		ScanInterval:  time.Minute,
		ScanTimeout:   5 * time.Second,
		PollInterval:  20 * time.Millisecond,
		ScanRateLimit: 10,
	}
}

func TestApplication_RunOnce(t *testing.T) {
	app, err := New(testConfig(t), nil)
	require.NoError(t, err)
	defer app.Close()

	s, err := app.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.SessionDone, s.Status)
	assert.LessOrEqual(t, len(s.Results), 5)
	for _, r := range s.Results {
		assert.Equal(t, domain.Band24GHz, r.Band)
		assert.Contains(t, []int{1, 6, 11}, r.Channel)
	}

	// The session is recorded
	stored, err := app.Store.GetSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, stored.ID)
	assert.Len(t, stored.Results, len(s.Results))
}

func TestApplication_InvalidRequest(t *testing.T) {
	cfg := testConfig(t)
	cfg.Channels = "2:1-20"

	app, err := New(cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	_, err = app.RunOnce(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestApplication_CloseTearsDown(t *testing.T) {
	app, err := New(testConfig(t), nil)
	require.NoError(t, err)

	require.NoError(t, app.Controller.Init(context.Background()))
	assert.True(t, app.Controller.VIF().Valid())

	require.NoError(t, app.Close())
	assert.False(t, app.Controller.VIF().Valid())
}
