package domain

import (
	"fmt"
	"strings"
)

// StatsKind selects a group of radio counters.
type StatsKind string

const (
	StatsUMAC StatsKind = "umac"
	StatsLMAC StatsKind = "lmac"
	StatsPHY  StatsKind = "phy"
	StatsAll  StatsKind = "all"
)

var ErrUnknownStatsKind = fmt.Errorf("%w: unknown stats type", ErrInvalidArgument)

// ParseStatsKind accepts umac, lmac, phy or all. Empty means all.
func ParseStatsKind(s string) (StatsKind, error) {
	switch k := StatsKind(strings.ToLower(s)); k {
	case "":
		return StatsAll, nil
	case StatsUMAC, StatsLMAC, StatsPHY, StatsAll:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatsKind, s)
}

// Counters are keyed "<kind>.<name>", e.g. "umac.scans_submitted".
type Counters map[string]int64

// Select returns the counters belonging to kind.
func (c Counters) Select(kind StatsKind) Counters {
	out := make(Counters, len(c))
	prefix := string(kind) + "."
	for k, v := range c {
		if kind == StatsAll || strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out
}

// RadioStats is a counter snapshot of one interface.
type RadioStats struct {
	Interface string    `json:"interface"`
	Kind      StatsKind `json:"kind"`
	Counters  Counters  `json:"counters"`
}
