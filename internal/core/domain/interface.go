package domain

import (
	"net"
	"sync/atomic"
)

// OpState is the operational state of a virtual interface.
type OpState int32

const (
	OpStateDown OpState = iota
	OpStateUp
)

func (s OpState) String() string {
	if s == OpStateUp {
		return "up"
	}
	return "down"
}

// ScanState tracks where the interface is in the scan lifecycle.
type ScanState int32

const (
	StateIdle     ScanState = iota // No interface, or interface down
	StateReady                     // Interface up, no scan outstanding
	StateScanning                  // Scan submitted, awaiting completion
)

func (s ScanState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateReady:
		return "Ready"
	case StateScanning:
		return "Scanning"
	}
	return "Unknown"
}

// AtomicState wraps atomic operations for ScanState.
type AtomicState struct {
	v int32
}

func (a *AtomicState) Set(s ScanState) {
	atomic.StoreInt32(&a.v, int32(s))
}

func (a *AtomicState) Get() ScanState {
	return ScanState(atomic.LoadInt32(&a.v))
}

func (a *AtomicState) CompareAndSwap(old, new ScanState) bool {
	return atomic.CompareAndSwapInt32(&a.v, int32(old), int32(new))
}

// InvalidVIFIndex marks an interface that has not been created yet.
const InvalidVIFIndex = -1

// DefaultInterfaceName is the station interface created at init.
const DefaultInterfaceName = "wlan0"

// VIF is the host-side view of the single station interface.
type VIF struct {
	Index       int              `json:"index"`
	Name        string           `json:"name"`
	OpState     OpState          `json:"op_state"`
	MAC         net.HardwareAddr `json:"mac"`
	State       ScanState        `json:"scan_state"`
	ScanDone    bool             `json:"scan_done"`
	ResultCount int              `json:"result_count"`
	MaxBSSCount int              `json:"max_bss_count"`
}

// NewVIF returns an interface record that is not yet backed by the driver.
func NewVIF(name string) (*VIF, error) {
	if !IsValidInterface(name) {
		return nil, ErrInvalidInterfaceName
	}
	return &VIF{
		Index:   InvalidVIFIndex,
		Name:    name,
		OpState: OpStateDown,
		State:   StateIdle,
	}, nil
}

// Valid reports whether the driver has assigned an index.
func (v VIF) Valid() bool {
	return v.Index >= 0
}
