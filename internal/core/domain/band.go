package domain

import "strings"

// WiFiBand represents a typed string for frequency bands.
type WiFiBand string

const (
	Band24GHz   WiFiBand = "2.4GHz"
	Band5GHz    WiFiBand = "5GHz"
	Band6GHz    WiFiBand = "6GHz"
	BandUnknown WiFiBand = "UNKNOWN"
)

// Band tokens used by the channel and band list mini-language.
const (
	BandToken24 = "2"
	BandToken5  = "5"
	BandToken6  = "6"
)

// BandFromToken maps a mini-language token to a band.
func BandFromToken(tok string) (WiFiBand, bool) {
	switch tok {
	case BandToken24:
		return Band24GHz, true
	case BandToken5:
		return Band5GHz, true
	case BandToken6:
		return Band6GHz, true
	}
	return BandUnknown, false
}

// ParseBand accepts either the display name or the token.
func ParseBand(s string) WiFiBand {
	switch strings.TrimSpace(s) {
	case string(Band24GHz), BandToken24:
		return Band24GHz
	case string(Band5GHz), BandToken5:
		return Band5GHz
	case string(Band6GHz), BandToken6:
		return Band6GHz
	}
	return BandUnknown
}

func (b WiFiBand) String() string {
	switch b {
	case Band24GHz, Band5GHz, Band6GHz:
		return string(b)
	}
	return string(BandUnknown)
}

// Bit returns the band's position in a BandMask, or 0 for unknown bands.
func (b WiFiBand) Bit() BandMask {
	switch b {
	case Band24GHz:
		return 1 << 0
	case Band5GHz:
		return 1 << 1
	case Band6GHz:
		return 1 << 2
	}
	return 0
}

// BandMask is a bitmap of bands.
type BandMask uint8

// AllBandsMask selects every band.
const AllBandsMask BandMask = 1<<0 | 1<<1 | 1<<2

// AllBands lists bands in bit order.
var AllBands = []WiFiBand{Band24GHz, Band5GHz, Band6GHz}

func (m BandMask) Has(b WiFiBand) bool {
	bit := b.Bit()
	return bit != 0 && m&bit != 0
}

func (m BandMask) With(b WiFiBand) BandMask {
	return m | b.Bit()
}

// Bands returns the bands set in the mask.
func (m BandMask) Bands() []WiFiBand {
	var out []WiFiBand
	for _, b := range AllBands {
		if m.Has(b) {
			out = append(out, b)
		}
	}
	return out
}

func (m BandMask) String() string {
	bands := m.Bands()
	if len(bands) == 0 {
		return "none"
	}
	parts := make([]string, len(bands))
	for i, b := range bands {
		parts[i] = b.String()
	}
	return strings.Join(parts, ",")
}

// SupportedBands is the set of bands the radio can scan. 5 GHz is dropped
// on 2.4 GHz only parts.
func SupportedBands(twoFourOnly bool) BandMask {
	m := Band24GHz.Bit()
	if !twoFourOnly {
		m |= Band5GHz.Bit()
	}
	return m
}

// RPUBand is the driver's band encoding for frequency conversion.
type RPUBand int

const (
	RPUBand24GHz RPUBand = iota
	RPUBand5GHz
	RPUBandInvalid
)
