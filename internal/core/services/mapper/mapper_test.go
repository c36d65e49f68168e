package mapper

import (
	"strings"
	"testing"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapSecurity(t *testing.T) {
	tests := []struct {
		code domain.DriverSecurity
		want domain.SecurityType
	}{
		{domain.DrvSecurityOpen, domain.SecurityNone},
		{domain.DrvSecurityWEP, domain.SecurityWEP},
		{domain.DrvSecurityWPA, domain.SecurityWPAPSK},
		{domain.DrvSecurityWPA2, domain.SecurityPSK},
		{domain.DrvSecurityWPA2SHA256, domain.SecurityPSKSHA256},
		{domain.DrvSecurityWPA3, domain.SecuritySAE},
		{domain.DrvSecurityWAPI, domain.SecurityWAPI},
		{domain.DrvSecurityEAP, domain.SecurityEAP},
		{domain.DrvSecurityUnknown, domain.SecurityUnknown},
		{domain.DriverSecurity(200), domain.SecurityUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapSecurity(tt.code), "code %d", tt.code)
	}
}

func TestMapMFP(t *testing.T) {
	tests := []struct {
		name  string
		flags uint8
		want  domain.MFPMode
	}{
		{"no flag", 0, domain.MFPDisable},
		{"required", domain.DrvMFPRequired, domain.MFPRequired},
		{"required and capable", domain.DrvMFPRequired | domain.DrvMFPCapable, domain.MFPRequired},
		{"capable", domain.DrvMFPCapable, domain.MFPOptional},
		{"unknown bit", 0x80, domain.MFPUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapMFP(tt.flags))
		})
	}
}

func TestMapBandForScan(t *testing.T) {
	assert.Equal(t, domain.RPUBand24GHz, MapBandForScan(domain.Band24GHz))
	assert.Equal(t, domain.RPUBand5GHz, MapBandForScan(domain.Band5GHz))
	assert.Equal(t, domain.RPUBandInvalid, MapBandForScan(domain.Band6GHz))
	assert.Equal(t, domain.RPUBandInvalid, MapBandForScan(domain.BandUnknown))
}

func TestNormalizeSignal(t *testing.T) {
	assert.Equal(t, -45, NormalizeSignal(domain.SignalMBM, -4500))
	assert.Equal(t, -45, NormalizeSignal(domain.SignalMBM, -4599))
	assert.Equal(t, -60, NormalizeSignal(domain.SignalUnspec, -60))
	assert.Equal(t, 0, NormalizeSignal(domain.SignalNone, -60))
}

func TestNormalize(t *testing.T) {
	raw := domain.RawScanResult{
		SSID:       []byte(strings.Repeat("a", 40)),
		Band:       domain.Band5GHz,
		Channel:    36,
		Security:   domain.DrvSecurityWPA3,
		MFPFlags:   domain.DrvMFPRequired,
		SignalType: domain.SignalMBM,
		Signal:     -6712,
		BSSID:      [6]byte{0xAA, 0xBB, 0xCC, 0x00, 0x11, 0x22},
	}

	res := Normalize(raw)

	assert.Len(t, res.SSID, domain.MaxSSIDLen)
	assert.Equal(t, domain.Band5GHz, res.Band)
	assert.Equal(t, 36, res.Channel)
	assert.Equal(t, domain.SecuritySAE, res.Security)
	assert.Equal(t, domain.MFPRequired, res.MFP)
	assert.Equal(t, -67, res.RSSI)
	assert.Equal(t, "aa:bb:cc:00:11:22", res.BSSID.String())

	// The result must not alias the raw record.
	raw.BSSID[0] = 0x00
	assert.Equal(t, byte(0xAA), res.BSSID[0])
}
