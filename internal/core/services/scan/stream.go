package scan

import (
	"context"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/services/mapper"
	"github.com/lcalzada-xor/wscan/internal/telemetry"
)

// OnScanStarted is called by the transport when the radio begins scanning.
func (c *Controller) OnScanStarted(idx int) {
	c.logger.Debug("scan started event", "index", idx)
}

// OnScanDone requests the display results of the finished scan. If they
// cannot be fetched the scan is closed without results.
func (c *Controller) OnScanDone(idx int, aborted bool) {
	if !c.expecting(idx) {
		c.logger.Debug("ignoring scan done event", "index", idx)
		return
	}
	if aborted {
		c.logger.Warn("scan aborted by driver, fetching partial results", "index", idx)
	}

	ctx, span := c.tracer.Start(context.Background(), "FetchResults")
	defer span.End()

	if err := c.transport.FetchResults(ctx, idx); err != nil {
		span.RecordError(err)
		c.logger.Error("failed to fetch scan results", "index", idx, "error", err)
		c.finish(nil)
	}
}

// OnScanResults forwards a batch of raw results to the registered callback
// in arrival order, honoring the result cap. When more is false the scan
// completes and the callback receives the nil sentinel exactly once.
func (c *Controller) OnScanResults(idx int, batch []domain.RawScanResult, more bool) {
	c.mu.Lock()
	if idx != c.vif.Index || c.state.Get() != domain.StateScanning {
		c.mu.Unlock()
		c.logger.Debug("ignoring scan results", "index", idx, "count", len(batch))
		return
	}

	limit := c.vif.MaxBSSCount
	if limit == 0 {
		limit = c.opts.DefaultMaxBSS
	}

	out := make([]domain.ScanResult, 0, len(batch))
	for _, raw := range batch {
		if limit > 0 && c.vif.ResultCount >= limit {
			break
		}
		out = append(out, mapper.Normalize(raw))
		c.vif.ResultCount++
	}
	cb := c.cb
	id := c.scanID
	c.mu.Unlock()

	if dropped := len(batch) - len(out); dropped > 0 {
		telemetry.ResultsCapped.WithLabelValues(c.opts.InterfaceName).Add(float64(dropped))
	}

	forwarded := 0
	c.emitMu.Lock()
	for i := range out {
		if !c.current(id) {
			break
		}
		cb(&out[i])
		forwarded++
	}
	c.emitMu.Unlock()
	telemetry.ResultsForwarded.WithLabelValues(c.opts.InterfaceName).Add(float64(forwarded))

	if !more {
		c.finish(cb)
	}
}

// finish marks the scan complete and emits the sentinel. cb is the callback
// captured by the caller, or nil to use the registered one.
func (c *Controller) finish(cb domain.ResultCallback) {
	c.mu.Lock()
	if c.state.Get() != domain.StateScanning {
		c.mu.Unlock()
		return
	}
	if cb == nil {
		cb = c.cb
	}
	count := c.vif.ResultCount
	c.cb = nil
	c.scanID++
	c.scanDone.Store(true)
	c.state.Set(domain.StateReady)
	c.mu.Unlock()

	telemetry.ScansCompleted.WithLabelValues(c.opts.InterfaceName).Inc()
	c.logger.Info("scan complete", "results", count)

	if cb != nil {
		c.emitMu.Lock()
		cb(nil)
		c.emitMu.Unlock()
	}
}

// current reports whether id still names the active scan.
func (c *Controller) current(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scanID == id
}

func (c *Controller) expecting(idx int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return idx == c.vif.Index && c.state.Get() == domain.StateScanning
}
