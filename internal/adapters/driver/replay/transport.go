// Package replay is a driver transport that answers scans from a pcap
// capture of beacons and probe responses.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/lcalzada-xor/wscan/internal/adapters/driver/counters"
	"github.com/lcalzada-xor/wscan/internal/adapters/driver/freq"
	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
)

var (
	ErrClosed      = errors.New("replay: transport closed")
	ErrNoInterface = errors.New("replay: no such interface")
	ErrScanPending = errors.New("replay: scan already pending")
	ErrNotAttached = errors.New("replay: no event sink attached")
)

// replayMAC is the station address reported for replayed interfaces.
var replayMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x52, 0x50, 0x01}

// Options configures a replay transport.
type Options struct {
	Path      string
	BatchSize int
}

// Transport implements ports.Transport over a capture file.
type Transport struct {
	opts Options

	mu      sync.Mutex
	events  ports.ScanEvents
	nextIdx int
	ifaces  map[int]net.HardwareAddr
	pending map[int][]domain.RawScanResult
	scans   map[int]*counters.Scan
	frames  map[int]*frameCounts
	closed  bool

	wg sync.WaitGroup
}

var _ ports.Transport = (*Transport)(nil)

// NewTransport checks that the capture can be opened.
func NewTransport(opts Options) (*Transport, error) {
	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	f.Close()

	if opts.BatchSize <= 0 {
		opts.BatchSize = 8
	}
	return &Transport{
		opts:    opts,
		ifaces:  make(map[int]net.HardwareAddr),
		pending: make(map[int][]domain.RawScanResult),
		scans:   make(map[int]*counters.Scan),
		frames:  make(map[int]*frameCounts),
	}, nil
}

func (t *Transport) Attach(events ports.ScanEvents) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = events
}

func (t *Transport) AddInterface(_ context.Context, _ string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, ErrClosed
	}
	idx := t.nextIdx
	t.nextIdx++
	t.ifaces[idx] = append(net.HardwareAddr(nil), replayMAC...)
	t.scans[idx] = &counters.Scan{}
	t.frames[idx] = &frameCounts{}
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
	delete(t.scans, idx)
	delete(t.frames, idx)
	return nil
}

func (t *Transport) HardwareAddr(_ context.Context, idx int) (net.HardwareAddr, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mac, ok := t.ifaces[idx]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	return append(net.HardwareAddr(nil), mac...), nil
}

func (t *Transport) SetHardwareAddr(_ context.Context, idx int, mac net.HardwareAddr) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.ifaces[idx]; !ok {
		return fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	t.ifaces[idx] = append(net.HardwareAddr(nil), mac...)
	return nil
}

func (t *Transport) SetOpState(_ context.Context, idx int, _ domain.OpState) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.ifaces[idx]; !ok {
		return fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	return nil
}

func (t *Transport) ChanToFreq(band domain.RPUBand, channel int) int {
	return freq.ChanToFreq(band, channel)
}

// SubmitScan reads the capture in the background and reports completion
// once every frame has been decoded. A read error aborts the scan with the
// records decoded so far.
func (t *Transport) SubmitScan(_ context.Context, idx int, req domain.ScanRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.events == nil {
		return ErrNotAttached
	}
	if _, ok := t.ifaces[idx]; !ok {
		return fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	if _, busy := t.pending[idx]; busy {
		return ErrScanPending
	}
	t.pending[idx] = nil
	t.scans[idx].Submitted++

	events := t.events
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		events.OnScanStarted(idx)
		records, counts, err := scanCapture(t.opts.Path, req)

		t.mu.Lock()
		if _, ok := t.pending[idx]; ok {
			t.pending[idx] = records
			t.scans[idx].Done(err != nil)
			t.frames[idx].add(counts)
		}
		t.mu.Unlock()

		events.OnScanDone(idx, err != nil)
	}()
	return nil
}

// FetchResults streams the decoded records in batches.
func (t *Transport) FetchResults(_ context.Context, idx int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	records, ok := t.pending[idx]
	if !ok {
		return fmt.Errorf("%w: no scan pending on %d", ErrNoInterface, idx)
	}
	delete(t.pending, idx)

	events := t.events
	size := t.opts.BatchSize
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for start := 0; ; start += size {
			end := min(start+size, len(records))
			more := end < len(records)
			t.mu.Lock()
			if s, ok := t.scans[idx]; ok {
				s.Delivered(end - start)
			}
			t.mu.Unlock()
			events.OnScanResults(idx, records[start:end], more)
			if !more {
				return
			}
		}
	}()
	return nil
}

// Stats reports scan counters and the frame counts of every replay pass.
func (t *Transport) Stats(_ context.Context, idx int) (domain.Counters, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.scans[idx]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	f := t.frames[idx]
	return s.Counters(domain.Counters{
		"lmac.frames_read":       f.read,
		"lmac.frames_decoded":    f.decoded,
		"lmac.frames_filtered":   f.filtered,
		"phy.frames_with_signal": f.withSignal,
	}), nil
}

// Close waits for in-flight events and rejects further work.
func (t *Transport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.wg.Wait()
	return nil
}

// frameCounts tallies the frames seen while replaying a capture.
type frameCounts struct {
	read       int64
	decoded    int64
	filtered   int64
	withSignal int64
}

func (f *frameCounts) add(o frameCounts) {
	f.read += o.read
	f.decoded += o.decoded
	f.filtered += o.filtered
	f.withSignal += o.withSignal
}

// readCapture decodes every BSS in the file that matches req. Later frames
// from the same BSSID replace earlier ones; first-seen order is kept.
func readCapture(path string, req domain.ScanRequest) ([]domain.RawScanResult, error) {
	records, _, err := scanCapture(path, req)
	return records, err
}

func scanCapture(path string, req domain.ScanRequest) ([]domain.RawScanResult, frameCounts, error) {
	var counts frameCounts
	f, err := os.Open(path)
	if err != nil {
		return nil, counts, err
	}
	defer f.Close()

	reader, err := pcapgo.NewReader(f)
	if err != nil {
		return nil, counts, fmt.Errorf("read pcap header: %w", err)
	}

	var first gopacket.LayerType
	switch reader.LinkType() {
	case layers.LinkTypeIEEE80211Radio:
		first = layers.LayerTypeRadioTap
	case layers.LinkTypeIEEE802_11:
		first = layers.LayerTypeDot11
	default:
		return nil, counts, fmt.Errorf("unsupported link type %s", reader.LinkType())
	}

	var records []domain.RawScanResult
	seen := make(map[[6]byte]int)
	for {
		data, _, err := reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return records, counts, nil
		}
		if err != nil {
			return records, counts, err
		}
		counts.read++

		packet := gopacket.NewPacket(data, first, gopacket.NoCopy)
		raw, ok := decodeBSS(packet)
		if !ok {
			continue
		}
		counts.decoded++
		if raw.SignalType != domain.SignalNone {
			counts.withSignal++
		}
		if !freq.Selects(req, raw) {
			counts.filtered++
			continue
		}
		if i, dup := seen[raw.BSSID]; dup {
			records[i] = raw
			continue
		}
		seen[raw.BSSID] = len(records)
		records = append(records, raw)
	}
}
