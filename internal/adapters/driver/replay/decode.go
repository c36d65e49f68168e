package replay

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/lcalzada-xor/wscan/internal/adapters/driver/freq"
	"github.com/lcalzada-xor/wscan/internal/adapters/driver/ie"
	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// capPrivacy is the privacy bit of the capability information field.
const capPrivacy = 0x0010

// decodeBSS turns a beacon or probe response into a raw scan record.
func decodeBSS(packet gopacket.Packet) (domain.RawScanResult, bool) {
	dot11Layer := packet.Layer(layers.LayerTypeDot11)
	if dot11Layer == nil {
		return domain.RawScanResult{}, false
	}
	dot11, ok := dot11Layer.(*layers.Dot11)
	if !ok {
		return domain.RawScanResult{}, false
	}

	var ieData []byte
	var capInfo uint16
	switch dot11.Type {
	case layers.Dot11TypeMgmtBeacon:
		beacon, ok := packet.Layer(layers.LayerTypeDot11MgmtBeacon).(*layers.Dot11MgmtBeacon)
		if !ok {
			return domain.RawScanResult{}, false
		}
		ieData = beacon.LayerPayload()
		capInfo = beacon.Flags
	case layers.Dot11TypeMgmtProbeResp:
		resp, ok := packet.Layer(layers.LayerTypeDot11MgmtProbeResp).(*layers.Dot11MgmtProbeResp)
		if !ok {
			return domain.RawScanResult{}, false
		}
		ieData = resp.LayerPayload()
		capInfo = resp.Flags
	default:
		return domain.RawScanResult{}, false
	}
	if len(dot11.Address3) != 6 {
		return domain.RawScanResult{}, false
	}

	raw := domain.RawScanResult{
		SSID:       ie.ParseSSID(ieData),
		SignalType: domain.SignalNone,
	}
	copy(raw.BSSID[:], dot11.Address3)
	raw.Security, raw.MFPFlags = ie.Classify(ieData, capInfo&capPrivacy != 0)

	var rtFreq int
	if rt, ok := packet.Layer(layers.LayerTypeRadioTap).(*layers.RadioTap); ok {
		if rt.Present.DBMAntennaSignal() {
			raw.SignalType = domain.SignalMBM
			raw.Signal = int(rt.DBMAntennaSignal) * 100
		}
		if rt.Present.Channel() {
			rtFreq = int(rt.ChannelFrequency)
		}
	}

	raw.Band, raw.Channel = locate(ieData, rtFreq)
	if raw.Band == domain.BandUnknown {
		return domain.RawScanResult{}, false
	}
	return raw, true
}

// locate prefers the radio's tuned frequency and falls back to the DS
// parameter set, which only 2.4 GHz networks are guaranteed to carry.
func locate(ieData []byte, rtFreq int) (domain.WiFiBand, int) {
	if rtFreq > 0 {
		if band, ch := freq.FreqToChannel(rtFreq); band != domain.BandUnknown {
			return band, ch
		}
	}
	ch, err := ie.ParseChannel(ieData)
	if err != nil {
		return domain.BandUnknown, 0
	}
	switch {
	case domain.IsValidChannel(domain.Band24GHz, ch):
		return domain.Band24GHz, ch
	case domain.IsValidChannel(domain.Band5GHz, ch):
		return domain.Band5GHz, ch
	}
	return domain.BandUnknown, 0
}
