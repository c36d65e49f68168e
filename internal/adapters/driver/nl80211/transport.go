// Package nl80211 drives a real radio through the kernel's nl80211 family.
//
// The kernel owns interface creation, so AddInterface binds to an existing
// wireless interface by name and DeleteInterface only releases it. Channel
// and SSID selection are applied to the dumped BSS table because the
// trigger request carries no parameters.
package nl80211

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/mdlayher/wifi"

	"github.com/lcalzada-xor/wscan/internal/adapters/driver/counters"
	"github.com/lcalzada-xor/wscan/internal/adapters/driver/freq"
	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
)

var (
	ErrNoInterface   = errors.New("nl80211: no such wireless interface")
	ErrInterfaceDown = errors.New("nl80211: interface is administratively down")
	ErrMACChange     = errors.New("nl80211: changing the station address is not supported")
	ErrScanPending   = errors.New("nl80211: scan already pending")
	ErrClosed        = errors.New("nl80211: transport closed")
)

// DefaultScanTimeout bounds a single trigger-and-wait cycle.
const DefaultScanTimeout = 30 * time.Second

// wifiClient is the subset of *wifi.Client used by the transport.
type wifiClient interface {
	Interfaces() ([]*wifi.Interface, error)
	Scan(ctx context.Context, ifi *wifi.Interface) error
	AccessPoints(ifi *wifi.Interface) ([]*wifi.BSS, error)
	StationInfo(ifi *wifi.Interface) ([]*wifi.StationInfo, error)
	SurveyInfo(ifi *wifi.Interface) ([]*wifi.SurveyInfo, error)
	Close() error
}

// Options configures the transport.
type Options struct {
	ScanTimeout time.Duration
	BatchSize   int
	Logger      *slog.Logger
}

// Transport implements ports.Transport on top of github.com/mdlayher/wifi.
type Transport struct {
	client wifiClient
	opts   Options
	logger *slog.Logger
	linkUp func(idx int) (bool, error)

	mu      sync.Mutex
	events  ports.ScanEvents
	ifaces  map[int]*wifi.Interface
	pending map[int]domain.ScanRequest
	scans   map[int]*counters.Scan
	closed  bool

	wg sync.WaitGroup
}

var _ ports.Transport = (*Transport)(nil)

// NewTransport opens a generic netlink connection to nl80211.
func NewTransport(opts Options) (*Transport, error) {
	c, err := wifi.New()
	if err != nil {
		return nil, fmt.Errorf("open nl80211: %w", err)
	}
	return newTransport(c, opts), nil
}

func newTransport(c wifiClient, opts Options) *Transport {
	if opts.ScanTimeout <= 0 {
		opts.ScanTimeout = DefaultScanTimeout
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 16
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		client:  c,
		opts:    opts,
		logger:  logger.With("component", "nl80211"),
		linkUp:  interfaceUp,
		ifaces:  make(map[int]*wifi.Interface),
		pending: make(map[int]domain.ScanRequest),
		scans:   make(map[int]*counters.Scan),
	}
}

func interfaceUp(idx int) (bool, error) {
	ifi, err := net.InterfaceByIndex(idx)
	if err != nil {
		return false, err
	}
	return ifi.Flags&net.FlagUp != 0, nil
}

func (t *Transport) Attach(events ports.ScanEvents) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = events
}

// AddInterface binds to the station interface called name.
func (t *Transport) AddInterface(_ context.Context, name string) (int, error) {
	ifis, err := t.client.Interfaces()
	if err != nil {
		return 0, fmt.Errorf("list interfaces: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, ErrClosed
	}
	for _, ifi := range ifis {
		if ifi.Name != name {
			continue
		}
		if ifi.Type != wifi.InterfaceTypeStation {
			return 0, fmt.Errorf("%w: %s is %s", ErrNoInterface, name, ifi.Type)
		}
		t.ifaces[ifi.Index] = ifi
		t.scans[ifi.Index] = &counters.Scan{}
		return ifi.Index, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNoInterface, name)
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
	return nil
}

func (t *Transport) lookup(idx int) (*wifi.Interface, error) {
	ifi, ok := t.ifaces[idx]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoInterface, idx)
	}
	return ifi, nil
}

func (t *Transport) HardwareAddr(_ context.Context, idx int) (net.HardwareAddr, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ifi, err := t.lookup(idx)
	if err != nil {
		return nil, err
	}
	return append(net.HardwareAddr(nil), ifi.HardwareAddr...), nil
}

// SetHardwareAddr accepts only the address the interface already has.
func (t *Transport) SetHardwareAddr(_ context.Context, idx int, mac net.HardwareAddr) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	ifi, err := t.lookup(idx)
	if err != nil {
		return err
	}
	if !bytes.Equal(ifi.HardwareAddr, mac) {
		return fmt.Errorf("%w: have %s, want %s", ErrMACChange, ifi.HardwareAddr, mac)
	}
	return nil
}

// SetOpState checks that the link is up. Bringing links up or down is left
// to the system network manager.
func (t *Transport) SetOpState(_ context.Context, idx int, state domain.OpState) error {
	t.mu.Lock()
	_, err := t.lookup(idx)
	t.mu.Unlock()
	if err != nil {
		return err
	}
	if state != domain.OpStateUp {
		return nil
	}
	up, err := t.linkUp(idx)
	if err != nil {
		return fmt.Errorf("link state: %w", err)
	}
	if !up {
		return ErrInterfaceDown
	}
	return nil
}

func (t *Transport) ChanToFreq(band domain.RPUBand, channel int) int {
	return freq.ChanToFreq(band, channel)
}

// SubmitScan triggers a scan and waits for the kernel's new-results
// notification in the background.
func (t *Transport) SubmitScan(_ context.Context, idx int, req domain.ScanRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	ifi, err := t.lookup(idx)
	if err != nil {
		return err
	}
	if _, busy := t.pending[idx]; busy {
		return ErrScanPending
	}
	t.pending[idx] = req
	t.scans[idx].Submitted++

	events := t.events
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), t.opts.ScanTimeout)
		defer cancel()

		events.OnScanStarted(idx)
		err := t.client.Scan(ctx, ifi)
		if err != nil {
			t.logger.Warn("scan did not complete", "interface", ifi.Name, "error", err)
		}
		t.mu.Lock()
		if s, ok := t.scans[idx]; ok {
			s.Done(err != nil)
		}
		t.mu.Unlock()
		events.OnScanDone(idx, err != nil)
	}()
	return nil
}

// FetchResults dumps the BSS table and streams the selected entries.
func (t *Transport) FetchResults(_ context.Context, idx int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	ifi, err := t.lookup(idx)
	if err != nil {
		return err
	}
	req, ok := t.pending[idx]
	if !ok {
		return fmt.Errorf("%w: no scan pending on %d", ErrNoInterface, idx)
	}

	bss, err := t.client.AccessPoints(ifi)
	if err != nil {
		return fmt.Errorf("dump scan results: %w", err)
	}
	delete(t.pending, idx)

	records := make([]domain.RawScanResult, 0, len(bss))
	for _, b := range bss {
		raw, ok := bssToRaw(b)
		if !ok || !freq.Selects(req, raw) {
			continue
		}
		if req.SkipLocalAdminMAC && domain.IsLocallyAdministered(raw.BSSID[:]) {
			continue
		}
		records = append(records, raw)
	}

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

// Close waits for in-flight events and closes the netlink connection.
func (t *Transport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.wg.Wait()
	return t.client.Close()
}
