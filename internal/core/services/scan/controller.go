// Package scan owns the scan session state machine of the station
// interface and streams driver results back to the caller.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
	"github.com/lcalzada-xor/wscan/internal/core/services/mapper"
	"github.com/lcalzada-xor/wscan/internal/telemetry"
)

// Options configures a Controller.
type Options struct {
	InterfaceName string
	// DefaultMaxBSS caps results when a scan does not set its own cap.
	// Zero leaves such scans unbounded.
	DefaultMaxBSS       int
	DefaultDwellActive  int
	DefaultDwellPassive int
	TwoFourOnly         bool
	SkipLocalAdminMAC   bool
	// FixedMAC replaces the driver provided address when set.
	FixedMAC net.HardwareAddr
}

// Controller drives one station interface through Idle, Ready and Scanning.
// It implements ports.ScanEvents for the transport it is attached to.
type Controller struct {
	transport ports.Transport
	opts      Options
	logger    *slog.Logger
	tracer    trace.Tracer

	state    domain.AtomicState
	scanDone atomic.Bool

	mu  sync.Mutex
	vif *domain.VIF
	cb  domain.ResultCallback
	// scanID changes whenever a scan starts or ends; deliveries tagged with
	// an older id are dropped.
	scanID uint64

	// emitMu serializes callback delivery so the sentinel is always last.
	emitMu sync.Mutex
}

var (
	_ ports.ScanEvents = (*Controller)(nil)
	_ ports.Scanner    = (*Controller)(nil)
)

// NewController creates a controller and attaches it to the transport.
func NewController(transport ports.Transport, opts Options, logger *slog.Logger) (*Controller, error) {
	if opts.InterfaceName == "" {
		opts.InterfaceName = domain.DefaultInterfaceName
	}
	if opts.DefaultMaxBSS < 0 || opts.DefaultMaxBSS > domain.MaxBSSCount {
		return nil, domain.ErrInvalidMaxBSS
	}
	vif, err := domain.NewVIF(opts.InterfaceName)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		transport: transport,
		opts:      opts,
		logger:    logger.With("component", "scan", "interface", opts.InterfaceName),
		tracer:    telemetry.Tracer("scan"),
		vif:       vif,
	}
	transport.Attach(c)
	return c, nil
}

// Init creates the station interface, programs its MAC and brings it up.
// The interface is removed again if any step after creation fails.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vif.Valid() {
		return nil
	}

	idx, err := c.transport.AddInterface(ctx, c.vif.Name)
	if err != nil {
		return fmt.Errorf("add interface %s: %w: %w", c.vif.Name, domain.ErrIO, err)
	}

	mac, err := c.stationMAC(ctx, idx)
	if err == nil {
		err = c.transport.SetHardwareAddr(ctx, idx, mac)
	}
	if err == nil {
		err = c.transport.SetOpState(ctx, idx, domain.OpStateUp)
	}
	if err != nil {
		if delErr := c.transport.DeleteInterface(ctx, idx); delErr != nil {
			c.logger.Warn("failed to delete interface after init error", "error", delErr)
		}
		return fmt.Errorf("init interface %s: %w", c.vif.Name, err)
	}

	c.vif.Index = idx
	c.vif.MAC = mac
	c.vif.OpState = domain.OpStateUp
	c.state.Set(domain.StateReady)
	c.logger.Info("interface up", "index", idx, "mac", domain.FormatMAC(mac))
	return nil
}

func (c *Controller) stationMAC(ctx context.Context, idx int) (net.HardwareAddr, error) {
	mac := c.opts.FixedMAC
	if mac == nil {
		var err error
		mac, err = c.transport.HardwareAddr(ctx, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
		}
	}
	if err := domain.ValidateStationMAC(mac); err != nil {
		return nil, fmt.Errorf("%w: %s", err, mac)
	}
	out := make(net.HardwareAddr, len(mac))
	copy(out, mac)
	return out, nil
}

// Teardown brings the interface down and deletes it. An outstanding scan
// is ended with the end-of-scan sentinel.
func (c *Controller) Teardown(ctx context.Context) error {
	c.mu.Lock()
	if !c.vif.Valid() {
		c.mu.Unlock()
		return nil
	}

	idx := c.vif.Index
	cb := c.cb
	pending := c.state.Get() == domain.StateScanning
	c.scanID++

	if err := c.transport.SetOpState(ctx, idx, domain.OpStateDown); err != nil {
		c.logger.Warn("failed to bring interface down", "error", err)
	}
	err := c.transport.DeleteInterface(ctx, idx)

	c.vif.Index = domain.InvalidVIFIndex
	c.vif.OpState = domain.OpStateDown
	c.vif.MAC = nil
	c.cb = nil
	c.state.Set(domain.StateIdle)
	c.scanDone.Store(false)
	c.mu.Unlock()

	if pending && cb != nil {
		c.emitMu.Lock()
		cb(nil)
		c.emitMu.Unlock()
	}
	if err != nil {
		return fmt.Errorf("delete interface %s: %w: %w", c.vif.Name, domain.ErrIO, err)
	}
	c.logger.Info("interface removed", "index", idx)
	return nil
}

// StartScan validates params and submits a scan. A nil params requests the
// driver defaults. Results are delivered only through cb; cb(nil) marks the
// end of the scan. cb must not call Teardown.
func (c *Controller) StartScan(ctx context.Context, params *domain.ScanParams, cb domain.ResultCallback) error {
	ctx, span := c.tracer.Start(ctx, "StartScan")
	defer span.End()

	err := c.startScan(ctx, params, cb)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		telemetry.ScansRejected.WithLabelValues(c.opts.InterfaceName, rejectReason(err)).Inc()
		return err
	}
	telemetry.ScansStarted.WithLabelValues(c.opts.InterfaceName).Inc()
	return nil
}

func (c *Controller) startScan(ctx context.Context, params *domain.ScanParams, cb domain.ResultCallback) error {
	if cb == nil {
		return domain.ErrNilCallback
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state.Get() {
	case domain.StateScanning:
		return domain.ErrBusy
	case domain.StateIdle:
		return domain.ErrNotReady
	}
	if !c.vif.Valid() || c.vif.OpState != domain.OpStateUp {
		return domain.ErrNotReady
	}

	req, maxBSS, err := c.buildRequest(params)
	if err != nil {
		return err
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("scan.bands", req.Bands.String()),
		attribute.Int("scan.frequencies", len(req.Frequencies)),
		attribute.Int("scan.max_bss", maxBSS),
	)

	c.vif.ResultCount = 0
	c.vif.MaxBSSCount = maxBSS
	c.cb = cb
	c.scanDone.Store(false)
	c.scanID++

	if err := c.transport.SubmitScan(ctx, c.vif.Index, req); err != nil {
		c.cb = nil
		return fmt.Errorf("submit scan: %w: %w", domain.ErrIO, err)
	}

	c.state.Set(domain.StateScanning)
	c.logger.Debug("scan submitted", "bands", req.Bands.String(), "frequencies", req.Frequencies, "max_bss", maxBSS)
	return nil
}

// buildRequest turns caller parameters into a driver request. It performs
// every validation before anything reaches the transport.
func (c *Controller) buildRequest(params *domain.ScanParams) (domain.ScanRequest, int, error) {
	supported := domain.SupportedBands(c.opts.TwoFourOnly)
	req := domain.ScanRequest{
		Bands:             supported,
		DwellActive:       c.opts.DefaultDwellActive,
		DwellPassive:      c.opts.DefaultDwellPassive,
		SkipLocalAdminMAC: c.opts.SkipLocalAdminMAC,
	}
	if params == nil {
		return req, 0, nil
	}

	if params.Bands&^supported != 0 {
		return req, 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedBand, params.Bands)
	}
	if params.Bands != 0 {
		req.Bands = params.Bands
	}
	req.Passive = params.Type == domain.ScanPassive

	if params.DwellActive < 0 || params.DwellPassive < 0 {
		return req, 0, fmt.Errorf("%w: active %d passive %d", domain.ErrInvalidDwell, params.DwellActive, params.DwellPassive)
	}
	if params.DwellActive > 0 {
		req.DwellActive = params.DwellActive
	}
	if params.DwellPassive > 0 {
		req.DwellPassive = params.DwellPassive
	}

	if params.MaxBSSCount < 0 || params.MaxBSSCount > domain.MaxBSSCount {
		return req, 0, fmt.Errorf("%w: %d", domain.ErrInvalidMaxBSS, params.MaxBSSCount)
	}

	for _, ssid := range params.SSIDs.List() {
		if ssid == "" {
			break
		}
		req.SSIDs = append(req.SSIDs, ssid)
	}

	for _, e := range params.Channels.Entries() {
		if !supported.Has(e.Band) {
			return req, 0, fmt.Errorf("%w: channel %s", domain.ErrUnsupportedBand, e)
		}
		band := mapper.MapBandForScan(e.Band)
		if band == domain.RPUBandInvalid {
			return req, 0, fmt.Errorf("%w: channel %s", domain.ErrUnsupportedBand, e)
		}
		freq := c.transport.ChanToFreq(band, e.Channel)
		if freq < 0 {
			return req, 0, fmt.Errorf("%w: %s", domain.ErrIllegalChannel, e)
		}
		req.Frequencies = append(req.Frequencies, freq)
	}

	return req, params.MaxBSSCount, nil
}

// ScanDone reports whether the last scan delivered its final batch.
func (c *Controller) ScanDone() bool {
	return c.scanDone.Load()
}

// State returns the current scan state.
func (c *Controller) State() domain.ScanState {
	return c.state.Get()
}

// VIF returns a snapshot of the interface record.
func (c *Controller) VIF() domain.VIF {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := *c.vif
	v.MAC = append(net.HardwareAddr(nil), c.vif.MAC...)
	v.State = c.state.Get()
	v.ScanDone = c.scanDone.Load()
	return v
}

// Stats returns the radio counters of the interface for kind.
func (c *Controller) Stats(ctx context.Context, kind domain.StatsKind) (domain.RadioStats, error) {
	c.mu.Lock()
	idx := c.vif.Index
	valid := c.vif.Valid()
	c.mu.Unlock()

	if !valid {
		return domain.RadioStats{}, domain.ErrNotReady
	}
	counters, err := c.transport.Stats(ctx, idx)
	if err != nil {
		return domain.RadioStats{}, fmt.Errorf("read stats: %w: %w", domain.ErrIO, err)
	}
	return domain.RadioStats{
		Interface: c.opts.InterfaceName,
		Kind:      kind,
		Counters:  counters.Select(kind),
	}, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrBusy):
		return "busy"
	case errors.Is(err, domain.ErrIO):
		return "io"
	default:
		return "invalid_argument"
	}
}
