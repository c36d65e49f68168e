package session

import (
	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/services/chanspec"
)

// Request is the textual form of a scan request as received from the CLI
// or the HTTP API.
type Request struct {
	Channels     string   `json:"channels,omitempty"`
	Bands        string   `json:"bands,omitempty"`
	SSIDs        []string `json:"ssids,omitempty"`
	MaxBSS       int      `json:"max_bss,omitempty"`
	Passive      bool     `json:"passive,omitempty"`
	DwellActive  int      `json:"dwell_active,omitempty"`
	DwellPassive int      `json:"dwell_passive,omitempty"`
}

// Params parses the request. channelMax and ssidMax bound the manual
// channel list and the SSID filter list.
func (r Request) Params(channelMax, ssidMax int) (*domain.ScanParams, error) {
	params := &domain.ScanParams{
		Type:         domain.ScanActive,
		DwellActive:  r.DwellActive,
		DwellPassive: r.DwellPassive,
		MaxBSSCount:  r.MaxBSS,
	}
	if r.Passive {
		params.Type = domain.ScanPassive
	}

	if r.Bands != "" {
		mask, err := chanspec.ParseBandList(r.Bands)
		if err != nil {
			return nil, err
		}
		params.Bands = mask
	}

	if r.Channels != "" {
		list, err := chanspec.ParseChannelSpec(r.Channels, channelMax)
		if err != nil {
			return nil, err
		}
		params.Channels = list
	}

	if len(r.SSIDs) > 0 {
		params.SSIDs = domain.NewSSIDFilters(ssidMax)
		for _, ssid := range r.SSIDs {
			if err := chanspec.ParseSSIDFilter(params.SSIDs, ssid); err != nil {
				return nil, err
			}
		}
	}
	return params, nil
}
