package sim

import (
	"math/rand"

	"github.com/lcalzada-xor/wscan/internal/adapters/driver/freq"
	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// Common SSIDs for realistic simulated data
var commonSSIDs = []string{
	"HomeNetwork", "NETGEAR-5G", "Starbucks WiFi", "TP-Link_2.4GHz",
	"Linksys", "ATT-WiFi", "Xfinity", "Google Fiber",
	"Office-Network", "Guest-WiFi", "MyWiFi", "Home-2.4G",
	"DIRECT-Printer", "AndroidAP", "CoffeeShop_Free", "Airport_WiFi",
	"Hotel-Guest", "Apartment_5G",
}

// Vendor OUI prefixes (first 3 bytes of MAC)
var vendorPrefixes = [][3]byte{
	{0x00, 0x17, 0xF2}, // Apple
	{0x00, 0x12, 0xFB}, // Samsung
	{0x00, 0x1E, 0xBD}, // Cisco
	{0x50, 0xC7, 0xBF}, // TP-Link
	{0xA0, 0x63, 0x91}, // Netgear
	{0x00, 0x14, 0xBF}, // Linksys
	{0xF4, 0xF5, 0xD8}, // Google
	{0x34, 0xCE, 0x00}, // Xiaomi
	{0x00, 0x1F, 0xC6}, // Asus
	{0x00, 0x17, 0x9A}, // D-Link
}

var channels24GHz = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}

// Security codes, weighted towards WPA2
var (
	securityCodes = []domain.DriverSecurity{
		domain.DrvSecurityWPA2, domain.DrvSecurityWPA3, domain.DrvSecurityWPA2SHA256,
		domain.DrvSecurityOpen, domain.DrvSecurityWEP, domain.DrvSecurityWPA, domain.DrvSecurityEAP,
	}
	securityWeights = []float32{0.5, 0.15, 0.05, 0.12, 0.03, 0.05, 0.1}
)

// generator produces raw scan records for a driver request.
type generator struct {
	rand *rand.Rand
}

func newGenerator(seed int64) *generator {
	return &generator{rand: rand.New(rand.NewSource(seed))}
}

// records builds count access points visible under req. Manual frequencies
// take precedence over the band mask. SSID filters rename a share of the
// generated networks and drop the rest.
func (g *generator) records(req domain.ScanRequest, count int) []domain.RawScanResult {
	out := make([]domain.RawScanResult, 0, count)
	for i := 0; i < count; i++ {
		band, ch, ok := g.channel(req)
		if !ok {
			return out
		}

		ssid := commonSSIDs[g.rand.Intn(len(commonSSIDs))]
		if len(req.SSIDs) > 0 {
			if g.rand.Float32() < 0.5 {
				continue
			}
			ssid = req.SSIDs[g.rand.Intn(len(req.SSIDs))]
		}
		if g.rand.Float32() < 0.1 {
			ssid = "" // hidden
		}

		out = append(out, g.record(ssid, band, ch))
	}
	return out
}

func (g *generator) record(ssid string, band domain.WiFiBand, ch int) domain.RawScanResult {
	sec := g.security()
	raw := domain.RawScanResult{
		SSID:     []byte(ssid),
		Band:     band,
		Channel:  ch,
		Security: sec,
		BSSID:    g.bssid(),
	}

	switch sec {
	case domain.DrvSecurityWPA3:
		raw.MFPFlags = domain.DrvMFPRequired | domain.DrvMFPCapable
	case domain.DrvSecurityWPA2, domain.DrvSecurityWPA2SHA256:
		if g.rand.Float32() < 0.4 {
			raw.MFPFlags = domain.DrvMFPCapable
		}
	}

	rssi := -30 - g.rand.Intn(60) // -30 to -89 dBm
	if g.rand.Float32() < 0.9 {
		raw.SignalType = domain.SignalMBM
		raw.Signal = rssi * 100
	} else {
		raw.SignalType = domain.SignalUnspec
		raw.Signal = rssi
	}
	return raw
}

func (g *generator) channel(req domain.ScanRequest) (domain.WiFiBand, int, bool) {
	if len(req.Frequencies) > 0 {
		band, ch := freq.FreqToChannel(req.Frequencies[g.rand.Intn(len(req.Frequencies))])
		return band, ch, band != domain.BandUnknown
	}

	bands := req.Bands.Bands()
	if len(bands) == 0 {
		return domain.BandUnknown, 0, false
	}
	band := bands[g.rand.Intn(len(bands))]
	switch band {
	case domain.Band24GHz:
		return band, channels24GHz[g.rand.Intn(len(channels24GHz))], true
	case domain.Band5GHz:
		return band, domain.Channels5GHz[g.rand.Intn(len(domain.Channels5GHz))], true
	default:
		return band, 1 + 4*g.rand.Intn(59), true
	}
}

func (g *generator) bssid() [6]byte {
	p := vendorPrefixes[g.rand.Intn(len(vendorPrefixes))]
	return [6]byte{p[0], p[1], p[2], byte(g.rand.Intn(256)), byte(g.rand.Intn(256)), byte(g.rand.Intn(256))}
}

func (g *generator) security() domain.DriverSecurity {
	total := float32(0)
	for _, w := range securityWeights {
		total += w
	}

	r := g.rand.Float32() * total
	cumulative := float32(0)
	for i, w := range securityWeights {
		cumulative += w
		if r <= cumulative {
			return securityCodes[i]
		}
	}
	return securityCodes[0]
}

// stationMAC returns a locally administered unicast address.
func (g *generator) stationMAC() []byte {
	mac := make([]byte, 6)
	g.rand.Read(mac)
	mac[0] = (mac[0] | 0x02) &^ 0x01
	return mac
}
