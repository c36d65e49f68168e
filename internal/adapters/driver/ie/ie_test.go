package ie

import (
	"testing"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rsnIE builds an RSN element body with CCMP and the given AKMs and caps.
func rsnIE(caps uint16, akms ...byte) []byte {
	body := []byte{
		0x01, 0x00, // version
		0x00, 0x0F, 0xAC, 0x04, // group CCMP
		0x01, 0x00, 0x00, 0x0F, 0xAC, 0x04, // one pairwise CCMP
		byte(len(akms)), 0x00,
	}
	for _, a := range akms {
		body = append(body, 0x00, 0x0F, 0xAC, a)
	}
	return append(body, byte(caps), byte(caps>>8))
}

func elem(id int, body []byte) []byte {
	return append([]byte{byte(id), byte(len(body))}, body...)
}

func TestIterateIEs_Truncated(t *testing.T) {
	data := append(elem(TagSSID, []byte("Home")), 0x03, 0x05, 0x01)
	var ids []int
	IterateIEs(data, func(id int, _ []byte) { ids = append(ids, id) })
	assert.Equal(t, []int{TagSSID}, ids)
}

func TestParseSSID(t *testing.T) {
	assert.Equal(t, []byte("Home"), ParseSSID(elem(TagSSID, []byte("Home"))))
	assert.Nil(t, ParseSSID(elem(TagSSID, nil)))
	assert.Nil(t, ParseSSID(elem(TagSSID, []byte{0, 0, 0})))
	assert.Nil(t, ParseSSID(elem(TagDSParameterSet, []byte{6})))
}

func TestParseChannel(t *testing.T) {
	ch, err := ParseChannel(append(elem(TagSSID, []byte("x")), elem(TagDSParameterSet, []byte{11})...))
	require.NoError(t, err)
	assert.Equal(t, 11, ch)

	_, err = ParseChannel(elem(TagSSID, []byte("x")))
	assert.ErrorIs(t, err, ErrIENotFound)
}

func TestParseRSN(t *testing.T) {
	rsn, err := ParseRSN(rsnIE(0x00C0, AKMPSK, AKMSAE))
	require.NoError(t, err)
	assert.Equal(t, uint16(1), rsn.Version)
	assert.Equal(t, []uint8{AKMPSK, AKMSAE}, rsn.AKMSuites)
	assert.True(t, rsn.Capabilities.MFPRequired)
	assert.True(t, rsn.Capabilities.MFPCapable)

	_, err = ParseRSN([]byte{0x01})
	assert.ErrorIs(t, err, ErrMalformedIE)
}

func TestClassify(t *testing.T) {
	wpa := elem(TagVendorSpecific, []byte{0x00, 0x50, 0xF2, 0x01, 0x01, 0x00})

	tests := []struct {
		name    string
		data    []byte
		privacy bool
		wantSec domain.DriverSecurity
		wantMFP uint8
	}{
		{"open", elem(TagSSID, []byte("cafe")), false, domain.DrvSecurityOpen, 0},
		{"wep", elem(TagSSID, []byte("old")), true, domain.DrvSecurityWEP, 0},
		{"wpa", wpa, true, domain.DrvSecurityWPA, 0},
		{"wpa2 psk", elem(TagRSN, rsnIE(0, AKMPSK)), true, domain.DrvSecurityWPA2, 0},
		{"wpa2 psk mfp capable", elem(TagRSN, rsnIE(0x0080, AKMPSK)), true, domain.DrvSecurityWPA2, domain.DrvMFPCapable},
		{"psk sha256", elem(TagRSN, rsnIE(0x0080, AKMPSKSHA256)), true, domain.DrvSecurityWPA2SHA256, domain.DrvMFPCapable},
		{"wpa3 transition", elem(TagRSN, rsnIE(0x0080, AKMPSK, AKMSAE)), true, domain.DrvSecurityWPA3, domain.DrvMFPCapable},
		{"wpa3 only", elem(TagRSN, rsnIE(0x00C0, AKMSAE)), true, domain.DrvSecurityWPA3, domain.DrvMFPRequired | domain.DrvMFPCapable},
		{"enterprise", elem(TagRSN, rsnIE(0, AKM8021X)), true, domain.DrvSecurityEAP, 0},
		{"owe", elem(TagRSN, rsnIE(0x00C0, AKMOWE)), true, domain.DrvSecurityUnknown, domain.DrvMFPRequired | domain.DrvMFPCapable},
		{"wapi", elem(TagWAPI, []byte{0x01, 0x00}), true, domain.DrvSecurityWAPI, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec, mfp := Classify(tt.data, tt.privacy)
			assert.Equal(t, tt.wantSec, sec)
			assert.Equal(t, tt.wantMFP, mfp)
		})
	}
}
