package ports

import (
	"context"
	"net"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// Transport is the driver command path for one radio. Implementations
// deliver asynchronous scan events to the handler passed to Attach.
type Transport interface {
	// Attach registers the event handler. It must be called before Start.
	Attach(events ScanEvents)

	// AddInterface creates a station interface and returns its index.
	AddInterface(ctx context.Context, name string) (int, error)
	// DeleteInterface removes the interface.
	DeleteInterface(ctx context.Context, idx int) error
	// HardwareAddr returns the factory MAC of the interface.
	HardwareAddr(ctx context.Context, idx int) (net.HardwareAddr, error)
	SetHardwareAddr(ctx context.Context, idx int, mac net.HardwareAddr) error
	SetOpState(ctx context.Context, idx int, state domain.OpState) error

	// ChanToFreq converts a channel to its center frequency in MHz, or -1.
	ChanToFreq(band domain.RPUBand, channel int) int

	// SubmitScan starts a scan. Completion is reported through OnScanDone.
	SubmitScan(ctx context.Context, idx int, req domain.ScanRequest) error
	// FetchResults asks the driver to deliver the results of the last scan
	// through OnScanResults.
	FetchResults(ctx context.Context, idx int) error

	// Stats returns the radio counters of the interface, keyed by group.
	Stats(ctx context.Context, idx int) (domain.Counters, error)

	Close() error
}

// ScanEvents is the event interface a transport calls into. A transport
// delivers at most one event per interface at a time.
type ScanEvents interface {
	OnScanStarted(idx int)
	OnScanDone(idx int, aborted bool)
	OnScanResults(idx int, batch []domain.RawScanResult, more bool)
}

// Scanner is the scan control surface used by runners and servers.
type Scanner interface {
	StartScan(ctx context.Context, params *domain.ScanParams, cb domain.ResultCallback) error
	ScanDone() bool
	State() domain.ScanState
	VIF() domain.VIF
	Stats(ctx context.Context, kind domain.StatsKind) (domain.RadioStats, error)
}

// ResultSink receives results as they are streamed.
type ResultSink interface {
	PublishResult(sessionID string, res domain.ScanResult)
	PublishSession(session domain.ScanSession)
}
