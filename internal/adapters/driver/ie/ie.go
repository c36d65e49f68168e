// Package ie walks 802.11 information elements carried in beacons and
// probe responses.
package ie

import (
	"bytes"
	"errors"
)

// Common IE Tags
const (
	TagSSID           = 0
	TagDSParameterSet = 3
	TagRSN            = 48
	TagWAPI           = 68
	TagVendorSpecific = 221 // 0xDD
)

// Errors
var (
	ErrMalformedIE = errors.New("malformed information element")
	ErrIENotFound  = errors.New("information element not found")
)

// wpaOUI prefixes the legacy WPA vendor element (00-50-F2, type 1).
var wpaOUI = []byte{0x00, 0x50, 0xF2, 0x01}

// IterateIEs calls the provided callback for each valid IE found in the data.
// It stops if it encounters a malformed IE (length exceeds remaining data).
func IterateIEs(data []byte, callback func(id int, data []byte)) {
	offset := 0
	limit := len(data)

	for offset < limit {
		// Needs at least 2 bytes (ID and Length)
		if offset+2 > limit {
			break
		}

		id := int(data[offset])
		length := int(data[offset+1])
		offset += 2

		if offset+length > limit {
			break
		}

		callback(id, data[offset:offset+length])
		offset += length
	}
}

// FindIE returns the data of the first IE with the given ID.
// Returns nil if not found.
func FindIE(data []byte, targetID int) []byte {
	var result []byte
	IterateIEs(data, func(id int, val []byte) {
		if result == nil && id == targetID {
			result = val
		}
	})
	return result
}

// ParseSSID returns the raw SSID octets. Hidden networks, which advertise
// an empty or all-zero SSID, yield nil.
func ParseSSID(data []byte) []byte {
	val := FindIE(data, TagSSID)
	for _, b := range val {
		if b != 0x00 {
			return append([]byte(nil), val...)
		}
	}
	return nil
}

// ParseChannel extracts the channel from the DS Parameter Set (Tag 3).
func ParseChannel(data []byte) (int, error) {
	val := FindIE(data, TagDSParameterSet)
	if len(val) >= 1 {
		return int(val[0]), nil
	}
	return 0, ErrIENotFound
}

// HasWPA reports whether a legacy WPA vendor element is present.
func HasWPA(data []byte) bool {
	found := false
	IterateIEs(data, func(id int, val []byte) {
		if id == TagVendorSpecific && len(val) >= 4 && bytes.Equal(val[:4], wpaOUI) {
			found = true
		}
	})
	return found
}
