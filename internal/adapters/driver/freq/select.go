package freq

import "github.com/lcalzada-xor/wscan/internal/core/domain"

// Selects reports whether a BSS falls inside a scan request. Manual
// frequencies override the band mask; SSID filters must match exactly.
func Selects(req domain.ScanRequest, raw domain.RawScanResult) bool {
	if len(req.Frequencies) > 0 {
		found := false
		for _, f := range req.Frequencies {
			if band, ch := FreqToChannel(f); band == raw.Band && ch == raw.Channel {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	} else if req.Bands != 0 && !req.Bands.Has(raw.Band) {
		return false
	}

	if len(req.SSIDs) == 0 {
		return true
	}
	for _, s := range req.SSIDs {
		if s == string(raw.SSID) {
			return true
		}
	}
	return false
}
