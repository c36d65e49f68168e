package storage

import (
	"net"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// toModel converts a domain session to its database model.
func toModel(s domain.ScanSession) SessionModel {
	m := SessionModel{
		ID:          s.ID,
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
		ChannelSpec: s.ChannelSpec,
		BandSpec:    s.BandSpec,
		MaxBSSCount: s.MaxBSSCount,
		Status:      string(s.Status),
		Error:       s.Error,
		ResultCount: len(s.Results),
	}
	for i, r := range s.Results {
		m.Results = append(m.Results, ResultModel{
			SessionID: s.ID,
			Seq:       i,
			SSID:      r.SSID,
			Band:      string(r.Band),
			Channel:   r.Channel,
			Security:  string(r.Security),
			MFP:       string(r.MFP),
			RSSI:      r.RSSI,
			BSSID:     domain.FormatMAC(r.BSSID),
		})
	}
	return m
}

// toDomain converts a database model to a domain session. Results are
// only present when they were preloaded.
func toDomain(m SessionModel) domain.ScanSession {
	s := domain.ScanSession{
		ID:          m.ID,
		StartedAt:   m.StartedAt,
		FinishedAt:  m.FinishedAt,
		ChannelSpec: m.ChannelSpec,
		BandSpec:    m.BandSpec,
		MaxBSSCount: m.MaxBSSCount,
		Status:      domain.SessionStatus(m.Status),
		Error:       m.Error,
		ResultCount: m.ResultCount,
	}
	for _, r := range m.Results {
		// Stored addresses were produced by FormatMAC, parse errors leave it nil.
		bssid, _ := net.ParseMAC(r.BSSID)
		s.Results = append(s.Results, domain.ScanResult{
			SSID:     r.SSID,
			Band:     domain.ParseBand(r.Band),
			Channel:  r.Channel,
			Security: domain.SecurityType(r.Security),
			MFP:      domain.MFPMode(r.MFP),
			RSSI:     r.RSSI,
			BSSID:    bssid,
		})
	}
	return s
}
