// Package sim is a driver transport that fabricates scan results. It backs
// mock mode and tests that need a realistic event stream without a radio.
package sim

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/lcalzada-xor/wscan/internal/adapters/driver/counters"
	"github.com/lcalzada-xor/wscan/internal/adapters/driver/freq"
	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
)

var (
	ErrClosed        = errors.New("sim: transport closed")
	ErrNoInterface   = errors.New("sim: no such interface")
	ErrScanPending   = errors.New("sim: scan already pending")
	ErrNotAttached   = errors.New("sim: no event sink attached")
	ErrInterfaceDown = errors.New("sim: interface down")
)

// Options tunes the simulated radio.
type Options struct {
	// APCount is the number of networks generated per scan.
	APCount int
	// BatchSize is the number of records per result event.
	BatchSize int
	// ScanDelay is the time between submission and the done event.
	ScanDelay time.Duration
	Seed      int64
}

type iface struct {
	name string
	mac  net.HardwareAddr
	up   bool

	scans      counters.Scan
	beacons    int64
	probes     int64
	dwells     int64
	lastSignal int64
}

// Transport implements ports.Transport in memory.
type Transport struct {
	opts Options

	mu      sync.Mutex
	gen     *generator
	events  ports.ScanEvents
	nextIdx int
	ifaces  map[int]*iface
	pending map[int]domain.ScanRequest
	closed  bool

	wg sync.WaitGroup
}

var _ ports.Transport = (*Transport)(nil)

// NewTransport creates a simulated radio.
func NewTransport(opts Options) *Transport {
	if opts.APCount <= 0 {
		opts.APCount = 12
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 4
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Transport{
		opts:    opts,
		gen:     newGenerator(opts.Seed),
		ifaces:  make(map[int]*iface),
		pending: make(map[int]domain.ScanRequest),
	}
}

func (t *Transport) Attach(events ports.ScanEvents) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = events
}

func (t *Transport) AddInterface(_ context.Context, name string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, ErrClosed
	}
	idx := t.nextIdx
	t.nextIdx++
	t.ifaces[idx] = &iface{name: name, mac: t.gen.stationMAC()}
	return idx, nil
}

func (t *Transport) DeleteInterface(_ context.Context, idx int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.ifaces[idx]; !ok {
		return fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	delete(t.ifaces, idx)
	delete(t.pending, idx)
	return nil
}

func (t *Transport) HardwareAddr(_ context.Context, idx int) (net.HardwareAddr, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ifc, ok := t.ifaces[idx]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	return append(net.HardwareAddr(nil), ifc.mac...), nil
}

func (t *Transport) SetHardwareAddr(_ context.Context, idx int, mac net.HardwareAddr) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	ifc, ok := t.ifaces[idx]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	ifc.mac = append(net.HardwareAddr(nil), mac...)
	return nil
}

func (t *Transport) SetOpState(_ context.Context, idx int, state domain.OpState) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	ifc, ok := t.ifaces[idx]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	ifc.up = state == domain.OpStateUp
	return nil
}

func (t *Transport) ChanToFreq(band domain.RPUBand, channel int) int {
	return freq.ChanToFreq(band, channel)
}

// SubmitScan accepts the request and reports completion after ScanDelay.
func (t *Transport) SubmitScan(_ context.Context, idx int, req domain.ScanRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.events == nil {
		return ErrNotAttached
	}
	ifc, ok := t.ifaces[idx]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	if !ifc.up {
		return ErrInterfaceDown
	}
	if _, busy := t.pending[idx]; busy {
		return ErrScanPending
	}
	t.pending[idx] = req
	ifc.scans.Submitted++

	events := t.events
	delay := t.opts.ScanDelay
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		events.OnScanStarted(idx)
		time.Sleep(delay)
		t.update(idx, func(ifc *iface) { ifc.scans.Done(false) })
		events.OnScanDone(idx, false)
	}()
	return nil
}

// FetchResults streams the generated records in batches.
func (t *Transport) FetchResults(_ context.Context, idx int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	req, ok := t.pending[idx]
	if !ok {
		return fmt.Errorf("%w: no scan pending on %d", ErrNoInterface, idx)
	}
	delete(t.pending, idx)

	records := t.gen.records(req, t.opts.APCount)
	if ifc, ok := t.ifaces[idx]; ok {
		ifc.observe(req, records)
	}
	events := t.events
	size := t.opts.BatchSize

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for start := 0; ; start += size {
			end := start + size
			if end > len(records) {
				end = len(records)
			}
			more := end < len(records)
			t.update(idx, func(ifc *iface) { ifc.scans.Delivered(end - start) })
			events.OnScanResults(idx, records[start:end], more)
			if !more {
				return
			}
		}
	}()
	return nil
}

// Stats reports the scan counters of the interface. The lmac and phy groups
// describe what the simulated radio would have done over the air.
func (t *Transport) Stats(_ context.Context, idx int) (domain.Counters, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ifc, ok := t.ifaces[idx]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	return ifc.scans.Counters(domain.Counters{
		"lmac.beacons_received":    ifc.beacons,
		"lmac.probe_requests_sent": ifc.probes,
		"phy.channel_dwells":       ifc.dwells,
		"phy.last_avg_signal_dbm":  ifc.lastSignal,
	}), nil
}

func (t *Transport) update(idx int, fn func(*iface)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ifc, ok := t.ifaces[idx]; ok {
		fn(ifc)
	}
}

func (ifc *iface) observe(req domain.ScanRequest, records []domain.RawScanResult) {
	type key struct {
		band domain.WiFiBand
		ch   int
	}
	channels := make(map[key]struct{})
	var sum int64
	for _, r := range records {
		channels[key{r.Band, r.Channel}] = struct{}{}
		dbm := int64(r.Signal)
		if r.SignalType == domain.SignalMBM {
			dbm /= 100
		}
		sum += dbm
	}

	ifc.beacons += int64(len(records))
	ifc.dwells += int64(len(channels))
	if !req.Passive {
		ifc.probes += int64(len(channels) * max(1, len(req.SSIDs)))
	}
	if len(records) > 0 {
		ifc.lastSignal = sum / int64(len(records))
	}
}

// Close waits for in-flight events and rejects further work.
func (t *Transport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.wg.Wait()
	return nil
}
