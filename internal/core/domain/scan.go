package domain

import (
	"net"
	"time"
)

const (
	// MaxSSIDLen is the longest SSID carried in filters and results.
	MaxSSIDLen = 32
	// MaxBSSCount is the largest accepted result cap.
	MaxBSSCount = 65535
	// DefaultSSIDFilterMax is the SSID filter capacity when none is configured.
	DefaultSSIDFilterMax = 1
	// DefaultChannelMax is the manual channel list capacity when none is configured.
	DefaultChannelMax = 1
)

// ScanType selects active probing or passive listening.
type ScanType string

const (
	ScanActive  ScanType = "active"
	ScanPassive ScanType = "passive"
)

// SSIDFilters is a bounded list of SSIDs to restrict a scan to.
type SSIDFilters struct {
	items    []string
	capacity int
}

// NewSSIDFilters returns an empty filter list with the given capacity.
func NewSSIDFilters(capacity int) *SSIDFilters {
	if capacity < 0 {
		capacity = 0
	}
	return &SSIDFilters{items: make([]string, 0, capacity), capacity: capacity}
}

// Add appends a filter into the first free slot.
func (f *SSIDFilters) Add(ssid string) error {
	if len(ssid) > MaxSSIDLen {
		return ErrSSIDTooLong
	}
	if len(f.items) >= f.capacity {
		return ErrCapacityExceeded
	}
	f.items = append(f.items, ssid)
	return nil
}

func (f *SSIDFilters) Len() int {
	if f == nil {
		return 0
	}
	return len(f.items)
}

func (f *SSIDFilters) Cap() int { return f.capacity }

// List returns a copy of the filters.
func (f *SSIDFilters) List() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.items))
	copy(out, f.items)
	return out
}

// ScanParams is the caller's scan request. It must not change while a scan
// is outstanding.
type ScanParams struct {
	Type         ScanType
	Bands        BandMask
	DwellActive  int // milliseconds
	DwellPassive int // milliseconds
	SSIDs        *SSIDFilters
	MaxBSSCount  int
	Channels     *ChannelList
}

// ScanRequest is what the controller hands to the driver transport.
type ScanRequest struct {
	Passive           bool
	Bands             BandMask
	DwellActive       int
	DwellPassive      int
	SSIDs             []string
	Frequencies       []int
	SkipLocalAdminMAC bool
}

// ScanResult is one discovered network, normalized for callers.
type ScanResult struct {
	SSID     string           `json:"ssid"`
	Band     WiFiBand         `json:"band"`
	Channel  int              `json:"channel"`
	Security SecurityType     `json:"security"`
	MFP      MFPMode          `json:"mfp"`
	RSSI     int              `json:"rssi"`
	BSSID    net.HardwareAddr `json:"bssid"`
}

// ResultCallback receives scan results. A nil result marks end of scan.
type ResultCallback func(res *ScanResult)

// RawScanResult is a result record as produced by the driver.
type RawScanResult struct {
	SSID       []byte
	Band       WiFiBand
	Channel    int
	Security   DriverSecurity
	MFPFlags   uint8
	SignalType SignalType
	Signal     int
	BSSID      [6]byte
}

// SessionStatus is the outcome of a recorded scan session.
type SessionStatus string

const (
	SessionRunning SessionStatus = "running"
	SessionDone    SessionStatus = "done"
	SessionTimeout SessionStatus = "timeout"
	SessionFailed  SessionStatus = "failed"
)

// ScanSession is the history record of one scan.
type ScanSession struct {
	ID          string        `json:"id"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	ChannelSpec string        `json:"channel_spec,omitempty"`
	BandSpec    string        `json:"band_spec,omitempty"`
	MaxBSSCount int           `json:"max_bss_count"`
	Status      SessionStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
	ResultCount int           `json:"result_count"`
	Results     []ScanResult  `json:"results,omitempty"`
}
