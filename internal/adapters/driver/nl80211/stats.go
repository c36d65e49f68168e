package nl80211

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mdlayher/wifi"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// Stats combines the transport's scan counters with the kernel's station
// and channel survey information. A station that is not associated has no
// lmac counters.
func (t *Transport) Stats(_ context.Context, idx int) (domain.Counters, error) {
	t.mu.Lock()
	ifi, err := t.lookup(idx)
	var extra domain.Counters
	if err == nil {
		extra = domain.Counters{"phy.frequency_mhz": int64(ifi.Frequency)}
	}
	scans := t.scans[idx]
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}

	stations, err := t.client.StationInfo(ifi)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("station info: %w", err)
	case len(stations) > 0:
		stationCounters(extra, stations[0])
	}

	surveys, err := t.client.SurveyInfo(ifi)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("survey info: %w", err)
	default:
		surveyCounters(extra, surveys)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return scans.Counters(extra), nil
}

func stationCounters(c domain.Counters, s *wifi.StationInfo) {
	c["lmac.rx_packets"] = int64(s.ReceivedPackets)
	c["lmac.tx_packets"] = int64(s.TransmittedPackets)
	c["lmac.rx_bytes"] = int64(s.ReceivedBytes)
	c["lmac.tx_bytes"] = int64(s.TransmittedBytes)
	c["lmac.tx_retries"] = int64(s.TransmitRetries)
	c["lmac.tx_failed"] = int64(s.TransmitFailed)
	c["lmac.beacon_loss"] = int64(s.BeaconLoss)
	c["phy.signal_dbm"] = int64(s.Signal)
	c["phy.signal_avg_dbm"] = int64(s.SignalAverage)
}

func surveyCounters(c domain.Counters, surveys []*wifi.SurveyInfo) {
	var scanTime int64
	for _, s := range surveys {
		scanTime += s.ChannelTimeScan.Milliseconds()
		if !s.InUse {
			continue
		}
		c["phy.noise_dbm"] = int64(s.Noise)
		c["phy.channel_time_ms"] = s.ChannelTime.Milliseconds()
		c["phy.channel_busy_ms"] = s.ChannelTimeBusy.Milliseconds()
		c["phy.channel_rx_ms"] = s.ChannelTimeRx.Milliseconds()
		c["phy.channel_tx_ms"] = s.ChannelTimeTx.Milliseconds()
	}
	c["phy.channels_surveyed"] = int64(len(surveys))
	c["phy.scan_time_ms"] = scanTime
}
