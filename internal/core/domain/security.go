package domain

// SecurityType is the public security vocabulary for scan results.
type SecurityType string

const (
	SecurityNone      SecurityType = "OPEN"
	SecurityWEP       SecurityType = "WEP"
	SecurityWPAPSK    SecurityType = "WPA-PSK"
	SecurityPSK       SecurityType = "WPA2-PSK"
	SecurityPSKSHA256 SecurityType = "WPA2-PSK-SHA256"
	SecuritySAE       SecurityType = "WPA3-SAE"
	SecurityWAPI      SecurityType = "WAPI"
	SecurityEAP       SecurityType = "EAP"
	SecurityUnknown   SecurityType = "UNKNOWN"
)

func (s SecurityType) String() string {
	switch s {
	case SecurityNone, SecurityWEP, SecurityWPAPSK, SecurityPSK, SecurityPSKSHA256,
		SecuritySAE, SecurityWAPI, SecurityEAP:
		return string(s)
	}
	return string(SecurityUnknown)
}

// MFPMode is the 802.11w management frame protection setting.
type MFPMode string

const (
	MFPDisable  MFPMode = "Disable"
	MFPOptional MFPMode = "Optional"
	MFPRequired MFPMode = "Required"
	MFPUnknown  MFPMode = "UNKNOWN"
)

func (m MFPMode) String() string {
	switch m {
	case MFPDisable, MFPOptional, MFPRequired:
		return string(m)
	}
	return string(MFPUnknown)
}

// DriverSecurity is the security code reported by the driver in raw results.
type DriverSecurity uint8

const (
	DrvSecurityOpen DriverSecurity = iota
	DrvSecurityWEP
	DrvSecurityWPA
	DrvSecurityWPA2
	DrvSecurityWPA2SHA256
	DrvSecurityWPA3
	DrvSecurityWAPI
	DrvSecurityEAP
	DrvSecurityUnknown
)

// Driver MFP flag bits.
const (
	DrvMFPRequired uint8 = 1 << 0
	DrvMFPCapable  uint8 = 1 << 1
)

// SignalType tells how a raw record encodes signal strength.
type SignalType uint8

const (
	SignalNone   SignalType = 1 + iota // No signal reported
	SignalMBM                          // Hundredths of dBm
	SignalUnspec                       // Raw, unspecified units
)
