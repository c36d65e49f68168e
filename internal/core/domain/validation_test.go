package domain

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidMAC(t *testing.T) {
	tests := []struct {
		mac   string
		valid bool
	}{
		{"AA:BB:CC:DD:EE:FF", true},
		{"aa:bb:cc:dd:ee:ff", true},
		{"00:11:22:33:44:55", true},
		{"invalid", false},
		{"AA:BB:CC:DD:EE", false},
		{"AA:BB:CC:DD:EE:FF:GG", false},
		{"", false},
	}

	for _, tt := range tests {
		if IsValidMAC(tt.mac) != tt.valid {
			t.Errorf("IsValidMAC(%s) = %v; want %v", tt.mac, IsValidMAC(tt.mac), tt.valid)
		}
	}
}

func TestIsValidInterface(t *testing.T) {
	tests := []struct {
		iface string
		valid bool
	}{
		{"wlan0", true},
		{"wlp3s0", true},
		{"eth0.100", false},
		{"very_long_interface_name_that_should_fail", false},
		{"; rm -rf /", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidInterface(tt.iface), tt.iface)
	}
}

func TestValidateStationMAC(t *testing.T) {
	tests := []struct {
		name    string
		mac     net.HardwareAddr
		wantErr bool
	}{
		{"unicast", net.HardwareAddr{0xF4, 0xCE, 0x36, 0x00, 0x10, 0x01}, false},
		{"locally administered", net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}, false},
		{"zero", net.HardwareAddr{0, 0, 0, 0, 0, 0}, true},
		{"broadcast", net.HardwareAddr{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, true},
		{"multicast", net.HardwareAddr{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01}, true},
		{"short", net.HardwareAddr{0x00, 0x11}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStationMAC(tt.mac)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMAC)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatMAC(t *testing.T) {
	assert.Equal(t, "0A:1B:2C:3D:4E:5F", FormatMAC([]byte{0x0a, 0x1b, 0x2c, 0x3d, 0x4e, 0x5f}))
	assert.Equal(t, "", FormatMAC([]byte{1, 2, 3}))
}
