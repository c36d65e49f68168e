// Package mapper translates driver-native codes in raw scan records into the
// public scan result vocabulary. Every function is total: codes it does not
// recognize map to an explicit unknown value.
package mapper

import (
	"net"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// MapSecurity converts a driver security code.
func MapSecurity(code domain.DriverSecurity) domain.SecurityType {
	switch code {
	case domain.DrvSecurityOpen:
		return domain.SecurityNone
	case domain.DrvSecurityWEP:
		return domain.SecurityWEP
	case domain.DrvSecurityWPA:
		return domain.SecurityWPAPSK
	case domain.DrvSecurityWPA2:
		return domain.SecurityPSK
	case domain.DrvSecurityWPA2SHA256:
		return domain.SecurityPSKSHA256
	case domain.DrvSecurityWPA3:
		return domain.SecuritySAE
	case domain.DrvSecurityWAPI:
		return domain.SecurityWAPI
	case domain.DrvSecurityEAP:
		return domain.SecurityEAP
	default:
		return domain.SecurityUnknown
	}
}

// MapMFP converts the driver MFP flag byte. Required wins over capable.
func MapMFP(flags uint8) domain.MFPMode {
	if flags == 0 {
		return domain.MFPDisable
	}
	if flags&domain.DrvMFPRequired != 0 {
		return domain.MFPRequired
	}
	if flags&domain.DrvMFPCapable != 0 {
		return domain.MFPOptional
	}
	return domain.MFPUnknown
}

// MapBandForScan returns the driver band used for channel to frequency
// conversion. 6 GHz is displayable but not selectable for scans yet.
func MapBandForScan(b domain.WiFiBand) domain.RPUBand {
	switch b {
	case domain.Band24GHz:
		return domain.RPUBand24GHz
	case domain.Band5GHz:
		return domain.RPUBand5GHz
	default:
		return domain.RPUBandInvalid
	}
}

// NormalizeSignal converts a raw signal value to dBm. Go integer division
// truncates toward zero.
func NormalizeSignal(t domain.SignalType, v int) int {
	switch t {
	case domain.SignalMBM:
		return v / 100
	case domain.SignalUnspec:
		return v
	default:
		return 0
	}
}

// Normalize builds a public result from a raw driver record. The result owns
// its byte slices.
func Normalize(raw domain.RawScanResult) domain.ScanResult {
	ssid := raw.SSID
	if len(ssid) > domain.MaxSSIDLen {
		ssid = ssid[:domain.MaxSSIDLen]
	}

	bssid := make(net.HardwareAddr, len(raw.BSSID))
	copy(bssid, raw.BSSID[:])

	return domain.ScanResult{
		SSID:     string(ssid),
		Band:     raw.Band,
		Channel:  raw.Channel,
		Security: MapSecurity(raw.Security),
		MFP:      MapMFP(raw.MFPFlags),
		RSSI:     NormalizeSignal(raw.SignalType, raw.Signal),
		BSSID:    bssid,
	}
}
