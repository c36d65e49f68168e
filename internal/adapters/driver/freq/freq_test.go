package freq

import (
	"testing"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestChanToFreq(t *testing.T) {
	tests := []struct {
		band domain.RPUBand
		ch   int
		want int
	}{
		{domain.RPUBand24GHz, 1, 2412},
		{domain.RPUBand24GHz, 6, 2437},
		{domain.RPUBand24GHz, 13, 2472},
		{domain.RPUBand24GHz, 14, 2484},
		{domain.RPUBand24GHz, 15, Invalid},
		{domain.RPUBand24GHz, 0, Invalid},
		{domain.RPUBand5GHz, 36, 5180},
		{domain.RPUBand5GHz, 165, 5825},
		{domain.RPUBand5GHz, 177, 5885},
		{domain.RPUBand5GHz, 38, Invalid},
		{domain.RPUBandInvalid, 1, Invalid},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ChanToFreq(tt.band, tt.ch), "band %d channel %d", tt.band, tt.ch)
	}
}

func TestFreqToChannel(t *testing.T) {
	tests := []struct {
		mhz      int
		wantBand domain.WiFiBand
		wantCh   int
	}{
		{2412, domain.Band24GHz, 1},
		{2484, domain.Band24GHz, 14},
		{5180, domain.Band5GHz, 36},
		{5825, domain.Band5GHz, 165},
		{5935, domain.Band6GHz, 2},
		{5955, domain.Band6GHz, 1},
		{6115, domain.Band6GHz, 33},
		{900, domain.BandUnknown, 0},
	}

	for _, tt := range tests {
		band, ch := FreqToChannel(tt.mhz)
		assert.Equal(t, tt.wantBand, band, "freq %d", tt.mhz)
		assert.Equal(t, tt.wantCh, ch, "freq %d", tt.mhz)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, ch := range domain.Channels5GHz {
		band, got := FreqToChannel(ChanToFreq(domain.RPUBand5GHz, ch))
		assert.Equal(t, domain.Band5GHz, band)
		assert.Equal(t, ch, got)
	}
	for ch := domain.MinChannel24; ch <= domain.MaxChannel24; ch++ {
		band, got := FreqToChannel(ChanToFreq(domain.RPUBand24GHz, ch))
		assert.Equal(t, domain.Band24GHz, band)
		assert.Equal(t, ch, got)
	}
}

func TestSelects(t *testing.T) {
	raw := domain.RawScanResult{SSID: []byte("Home"), Band: domain.Band5GHz, Channel: 36}

	assert.True(t, Selects(domain.ScanRequest{}, raw))
	assert.True(t, Selects(domain.ScanRequest{Bands: domain.Band5GHz.Bit()}, raw))
	assert.False(t, Selects(domain.ScanRequest{Bands: domain.Band24GHz.Bit()}, raw))
	assert.True(t, Selects(domain.ScanRequest{Bands: domain.Band24GHz.Bit(), Frequencies: []int{5180}}, raw))
	assert.False(t, Selects(domain.ScanRequest{Frequencies: []int{5200}}, raw))
	assert.True(t, Selects(domain.ScanRequest{SSIDs: []string{"Office", "Home"}}, raw))
	assert.False(t, Selects(domain.ScanRequest{SSIDs: []string{"Office"}}, raw))
}
