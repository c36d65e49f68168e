// Package counters keeps the host side scan counters shared by the driver
// transports. Callers provide their own locking.
package counters

import "github.com/lcalzada-xor/wscan/internal/core/domain"

// Scan counts scan commands and the events they produced.
type Scan struct {
	Submitted int64
	Completed int64
	Aborted   int64
	Results   int64
	Batches   int64
}

// Done records the completion of a scan.
func (s *Scan) Done(aborted bool) {
	s.Completed++
	if aborted {
		s.Aborted++
	}
}

// Delivered records one result event.
func (s *Scan) Delivered(n int) {
	s.Batches++
	s.Results += int64(n)
}

// Counters exports the values under the umac group and merges extra into
// the result.
func (s Scan) Counters(extra domain.Counters) domain.Counters {
	out := domain.Counters{
		"umac.scans_submitted":  s.Submitted,
		"umac.scans_completed":  s.Completed,
		"umac.scans_aborted":    s.Aborted,
		"umac.results_reported": s.Results,
		"umac.result_events":    s.Batches,
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
