// Package freq converts between channel numbers and centre frequencies.
package freq

import "github.com/lcalzada-xor/wscan/internal/core/domain"

// Invalid is returned for channels or frequencies outside every band.
const Invalid = -1

// ChanToFreq returns the centre frequency in MHz of a scan channel, or
// Invalid when the channel is not legal for the band.
func ChanToFreq(band domain.RPUBand, ch int) int {
	switch band {
	case domain.RPUBand24GHz:
		if !domain.IsValidChannel(domain.Band24GHz, ch) {
			return Invalid
		}
		if ch == 14 {
			return 2484
		}
		return 2407 + ch*5
	case domain.RPUBand5GHz:
		if !domain.IsValidChannel(domain.Band5GHz, ch) {
			return Invalid
		}
		return 5000 + ch*5
	}
	return Invalid
}

// FreqToChannel converts a frequency (MHz) to its band and channel number.
func FreqToChannel(mhz int) (domain.WiFiBand, int) {
	// 2.4 GHz band (channels 1-14)
	if mhz >= 2412 && mhz <= 2484 {
		if mhz == 2484 {
			return domain.Band24GHz, 14
		}
		return domain.Band24GHz, (mhz - 2407) / 5
	}

	// 5 GHz band
	if mhz >= 5160 && mhz <= 5885 {
		return domain.Band5GHz, (mhz - 5000) / 5
	}

	// 6 GHz band, channel 2 sits below the regular raster
	if mhz == 5935 {
		return domain.Band6GHz, 2
	}
	if mhz >= 5955 && mhz <= 7115 {
		return domain.Band6GHz, (mhz - 5950) / 5
	}

	return domain.BandUnknown, 0
}
