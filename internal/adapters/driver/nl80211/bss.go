package nl80211

import (
	"github.com/mdlayher/wifi"

	"github.com/lcalzada-xor/wscan/internal/adapters/driver/freq"
	"github.com/lcalzada-xor/wscan/internal/adapters/driver/ie"
	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// ieee80211OUI is the 00-0F-AC suite selector prefix.
const ieee80211OUI = 0x000FAC

// bssToRaw converts a kernel BSS entry. The dump carries no signal level.
func bssToRaw(b *wifi.BSS) (domain.RawScanResult, bool) {
	band, ch := freq.FreqToChannel(b.Frequency)
	if band == domain.BandUnknown || len(b.BSSID) != 6 {
		return domain.RawScanResult{}, false
	}

	raw := domain.RawScanResult{
		SSID:       []byte(b.SSID),
		Band:       band,
		Channel:    ch,
		SignalType: domain.SignalNone,
	}
	copy(raw.BSSID[:], b.BSSID)
	raw.Security, raw.MFPFlags = rsnSecurity(b.RSN)
	return raw, true
}

// rsnSecurity classifies a decoded RSN element. Networks without one are
// reported open; the dump does not expose the privacy bit needed to tell
// WEP apart.
func rsnSecurity(rsn wifi.RSNInfo) (domain.DriverSecurity, uint8) {
	if rsn.Version == 0 && len(rsn.AKMs) == 0 {
		return domain.DrvSecurityOpen, 0
	}

	info := ie.RSNInfo{
		Version: rsn.Version,
		Capabilities: ie.RSNCapabilities{
			MFPRequired: rsn.Capabilities&0x0040 != 0,
			MFPCapable:  rsn.Capabilities&0x0080 != 0,
		},
	}
	for _, akm := range rsn.AKMs {
		sel := uint32(akm)
		if sel>>8 != ieee80211OUI {
			continue
		}
		info.AKMSuites = append(info.AKMSuites, uint8(sel))
	}
	return info.Security(), info.Capabilities.MFPFlags()
}
