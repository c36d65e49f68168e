package sim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/services/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	t       *Transport
	done    []bool
	batches [][]domain.RawScanResult
	mores   []bool
	final   chan struct{}
}

func newRecorder(t *Transport) *recorder {
	return &recorder{t: t, final: make(chan struct{})}
}

func (r *recorder) OnScanStarted(int) {}

func (r *recorder) OnScanDone(idx int, aborted bool) {
	r.mu.Lock()
	r.done = append(r.done, aborted)
	r.mu.Unlock()
	_ = r.t.FetchResults(context.Background(), idx)
}

func (r *recorder) OnScanResults(_ int, batch []domain.RawScanResult, more bool) {
	r.mu.Lock()
	r.batches = append(r.batches, batch)
	r.mores = append(r.mores, more)
	r.mu.Unlock()
	if !more {
		close(r.final)
	}
}

func upInterface(t *testing.T, tr *Transport) int {
	t.Helper()
	ctx := context.Background()
	idx, err := tr.AddInterface(ctx, "wlan0")
	require.NoError(t, err)
	require.NoError(t, tr.SetOpState(ctx, idx, domain.OpStateUp))
	return idx
}

func TestTransport_Batches(t *testing.T) {
	tr := NewTransport(Options{APCount: 10, BatchSize: 4, Seed: 42})
	rec := newRecorder(tr)
	tr.Attach(rec)
	idx := upInterface(t, tr)

	req := domain.ScanRequest{Bands: domain.SupportedBands(false)}
	require.NoError(t, tr.SubmitScan(context.Background(), idx, req))

	select {
	case <-rec.final:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for final batch")
	}
	require.NoError(t, tr.Close())

	assert.Equal(t, []bool{false}, rec.done)
	assert.Equal(t, []bool{true, true, false}, rec.mores)
	total := 0
	for _, b := range rec.batches {
		total += len(b)
		for _, raw := range b {
			assert.True(t, req.Bands.Has(raw.Band))
			assert.True(t, domain.IsValidChannel(raw.Band, raw.Channel))
		}
	}
	assert.Equal(t, 10, total)
}

func TestTransport_Frequencies(t *testing.T) {
	tr := NewTransport(Options{APCount: 6, BatchSize: 10, Seed: 7})
	rec := newRecorder(tr)
	tr.Attach(rec)
	idx := upInterface(t, tr)

	req := domain.ScanRequest{Bands: domain.SupportedBands(false), Frequencies: []int{2437}}
	require.NoError(t, tr.SubmitScan(context.Background(), idx, req))
	<-rec.final
	require.NoError(t, tr.Close())

	require.Len(t, rec.batches, 1)
	for _, raw := range rec.batches[0] {
		assert.Equal(t, domain.Band24GHz, raw.Band)
		assert.Equal(t, 6, raw.Channel)
	}
}

func TestTransport_Errors(t *testing.T) {
	ctx := context.Background()
	tr := NewTransport(Options{Seed: 1, ScanDelay: time.Hour})

	assert.ErrorIs(t, tr.SubmitScan(ctx, 0, domain.ScanRequest{}), ErrNotAttached)

	tr.Attach(newRecorder(tr))
	idx, err := tr.AddInterface(ctx, "wlan0")
	require.NoError(t, err)
	assert.ErrorIs(t, tr.SubmitScan(ctx, idx, domain.ScanRequest{}), ErrInterfaceDown)
	assert.ErrorIs(t, tr.SubmitScan(ctx, 99, domain.ScanRequest{}), ErrNoInterface)
	assert.ErrorIs(t, tr.DeleteInterface(ctx, 99), ErrNoInterface)

	mac, err := tr.HardwareAddr(ctx, idx)
	require.NoError(t, err)
	assert.NoError(t, domain.ValidateStationMAC(mac))
	assert.True(t, domain.IsLocallyAdministered(mac))
}

func TestTransport_WithController(t *testing.T) {
	tr := NewTransport(Options{APCount: 9, BatchSize: 2, Seed: 3})
	c, err := scan.NewController(tr, scan.Options{}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))

	var (
		mu      sync.Mutex
		results []domain.ScanResult
		done    = make(chan struct{})
	)
	cb := func(res *domain.ScanResult) {
		if res == nil {
			close(done)
			return
		}
		mu.Lock()
		results = append(results, *res)
		mu.Unlock()
	}

	require.NoError(t, c.StartScan(context.Background(), &domain.ScanParams{MaxBSSCount: 5}, cb))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for end of scan")
	}

	assert.True(t, c.ScanDone())
	assert.Equal(t, domain.StateReady, c.State())
	mu.Lock()
	assert.Len(t, results, 5)
	mu.Unlock()

	require.NoError(t, c.Teardown(context.Background()))
	require.NoError(t, tr.Close())
}

func TestTransport_Stats(t *testing.T) {
	ctx := context.Background()
	tr := NewTransport(Options{APCount: 6, BatchSize: 4, Seed: 7})
	rec := newRecorder(tr)
	tr.Attach(rec)
	idx := upInterface(t, tr)

	req := domain.ScanRequest{Bands: domain.SupportedBands(false), Frequencies: []int{2437}}
	require.NoError(t, tr.SubmitScan(ctx, idx, req))
	<-rec.final
	require.NoError(t, tr.Close())

	stats, err := tr.Stats(ctx, idx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["umac.scans_submitted"])
	assert.Equal(t, int64(1), stats["umac.scans_completed"])
	assert.Equal(t, int64(6), stats["umac.results_reported"])
	assert.Equal(t, int64(2), stats["umac.result_events"])
	assert.Equal(t, int64(6), stats["lmac.beacons_received"])
	assert.Equal(t, int64(1), stats["lmac.probe_requests_sent"])
	assert.Equal(t, int64(1), stats["phy.channel_dwells"])
	assert.Less(t, stats["phy.last_avg_signal_dbm"], int64(-29))

	_, err = tr.Stats(ctx, 99)
	assert.ErrorIs(t, err, ErrNoInterface)
}
