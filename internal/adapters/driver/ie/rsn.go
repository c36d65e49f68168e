package ie

import (
	"fmt"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// AKM suite selectors (00-0F-AC:n)
const (
	AKM8021X       = 1
	AKMPSK         = 2
	AKMFT8021X     = 3
	AKMFTPSK       = 4
	AKM8021XSHA256 = 5
	AKMPSKSHA256   = 6
	AKMSAE         = 8
	AKMFTSAE       = 9
	AKMOWE         = 18
)

// RSNInfo represents the parsed RSN Information Element
type RSNInfo struct {
	Version      uint16
	AKMSuites    []uint8
	Capabilities RSNCapabilities
}

// RSNCapabilities represents the protection bits of the RSN capabilities field
type RSNCapabilities struct {
	MFPRequired bool
	MFPCapable  bool
}

// ParseRSN parses IE 48 (RSN Information Element)
func ParseRSN(data []byte) (*RSNInfo, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: RSN IE too short", ErrMalformedIE)
	}

	rsn := &RSNInfo{}
	offset := 0

	rsn.Version = uint16(data[offset]) | uint16(data[offset+1])<<8
	offset += 2

	// Group Cipher Suite (4 bytes: OUI + Type)
	if offset+4 <= len(data) {
		offset += 4
	}

	// Pairwise Cipher Suite Count + List
	if offset+2 <= len(data) {
		count := int(data[offset]) | int(data[offset+1])<<8
		offset += 2 + 4*count
	}

	// AKM Suite Count + List
	if offset+2 <= len(data) {
		count := int(data[offset]) | int(data[offset+1])<<8
		offset += 2
		for i := 0; i < count && offset+4 <= len(data); i++ {
			rsn.AKMSuites = append(rsn.AKMSuites, data[offset+3])
			offset += 4
		}
	}

	// RSN Capabilities (2 bytes)
	if offset+2 <= len(data) {
		caps := uint16(data[offset]) | uint16(data[offset+1])<<8
		rsn.Capabilities = RSNCapabilities{
			MFPRequired: (caps & 0x0040) != 0,
			MFPCapable:  (caps & 0x0080) != 0,
		}
	}

	return rsn, nil
}

// MFPFlags converts the capabilities into driver MFP flag bits.
func (c RSNCapabilities) MFPFlags() uint8 {
	var flags uint8
	if c.MFPRequired {
		flags |= domain.DrvMFPRequired
	}
	if c.MFPCapable {
		flags |= domain.DrvMFPCapable
	}
	return flags
}

// Security classifies the strongest AKM advertised in the element.
func (r *RSNInfo) Security() domain.DriverSecurity {
	best := domain.DrvSecurityUnknown
	rank := 0
	for _, akm := range r.AKMSuites {
		sec, score := akmSecurity(akm)
		if score > rank {
			best, rank = sec, score
		}
	}
	return best
}

func akmSecurity(akm uint8) (domain.DriverSecurity, int) {
	switch akm {
	case AKMSAE, AKMFTSAE:
		return domain.DrvSecurityWPA3, 4
	case AKMPSKSHA256:
		return domain.DrvSecurityWPA2SHA256, 3
	case AKMPSK, AKMFTPSK:
		return domain.DrvSecurityWPA2, 2
	case AKM8021X, AKMFT8021X, AKM8021XSHA256:
		return domain.DrvSecurityEAP, 1
	default:
		return domain.DrvSecurityUnknown, 0
	}
}

// Classify derives the driver security code and MFP flags of a BSS from its
// IEs and the privacy bit of its capability field.
func Classify(data []byte, privacy bool) (domain.DriverSecurity, uint8) {
	if val := FindIE(data, TagRSN); val != nil {
		rsn, err := ParseRSN(val)
		if err != nil {
			return domain.DrvSecurityUnknown, 0
		}
		return rsn.Security(), rsn.Capabilities.MFPFlags()
	}
	if HasWPA(data) {
		return domain.DrvSecurityWPA, 0
	}
	if FindIE(data, TagWAPI) != nil {
		return domain.DrvSecurityWAPI, 0
	}
	if privacy {
		return domain.DrvSecurityWEP, 0
	}
	return domain.DrvSecurityOpen, 0
}
