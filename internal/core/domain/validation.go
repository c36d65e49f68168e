package domain

import (
	"fmt"
	"net"
	"regexp"
)

// Validation Helpers

var (
	macRegex       = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)
	interfaceRegex = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)
)

// IsValidMAC checks if the string is a valid MAC address
func IsValidMAC(mac string) bool {
	return macRegex.MatchString(mac)
}

// IsValidInterface checks if the string is a safe interface name (alphanumeric + - _)
func IsValidInterface(iface string) bool {
	// IFNAMSIZ is 16
	if len(iface) == 0 || len(iface) > 16 {
		return false
	}
	return interfaceRegex.MatchString(iface)
}

// ValidateStationMAC rejects addresses a station interface cannot use:
// wrong length, all zeros, broadcast or multicast.
func ValidateStationMAC(mac net.HardwareAddr) error {
	if len(mac) != 6 {
		return ErrInvalidMAC
	}
	zero := true
	for _, b := range mac {
		if b != 0 {
			zero = false
			break
		}
	}
	if zero {
		return ErrInvalidMAC
	}
	// Broadcast has the group bit set too.
	if mac[0]&0x01 != 0 {
		return ErrInvalidMAC
	}
	return nil
}

// IsLocallyAdministered reports whether the U/L bit is set.
func IsLocallyAdministered(mac net.HardwareAddr) bool {
	return len(mac) > 0 && mac[0]&0x02 != 0
}

// FormatMAC renders a MAC as upper-case colon separated hex.
func FormatMAC(mac []byte) string {
	if len(mac) != 6 {
		return ""
	}
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}
