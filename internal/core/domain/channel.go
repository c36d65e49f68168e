package domain

import "fmt"

// Channel limits per band.
const (
	MinChannel24 = 1
	MaxChannel24 = 14
	MaxChannel6  = 233
)

// Channels5GHz is the legal 5 GHz channel set, in table order.
var Channels5GHz = []int{
	32, 36, 40, 44, 48, 52, 56, 60, 64, 68, 96, 100, 104, 108, 112, 116,
	120, 124, 128, 132, 136, 140, 144, 149, 153, 157, 159, 161, 163, 165,
	167, 169, 171, 173, 175, 177,
}

var index5GHz = func() map[int]int {
	m := make(map[int]int, len(Channels5GHz))
	for i, ch := range Channels5GHz {
		m[ch] = i
	}
	return m
}()

// IsValidChannel checks a channel number against the band's legal set.
func IsValidChannel(band WiFiBand, ch int) bool {
	switch band {
	case Band24GHz:
		return ch >= MinChannel24 && ch <= MaxChannel24
	case Band5GHz:
		_, ok := index5GHz[ch]
		return ok
	case Band6GHz:
		if ch == 2 {
			return true
		}
		return ch >= 1 && ch <= MaxChannel6 && (ch-1)%4 == 0
	}
	return false
}

// Index5GHz returns the table position of a 5 GHz channel.
func Index5GHz(ch int) (int, bool) {
	i, ok := index5GHz[ch]
	return i, ok
}

// BandChannel is one entry of a channel list.
type BandChannel struct {
	Band    WiFiBand `json:"band"`
	Channel int      `json:"channel"`
}

func (bc BandChannel) String() string {
	return fmt.Sprintf("%d (%s)", bc.Channel, bc.Band)
}

// ChannelList is a bounded, ordered list of channel entries.
type ChannelList struct {
	entries  []BandChannel
	capacity int
}

// NewChannelList returns an empty list that holds at most capacity entries.
func NewChannelList(capacity int) *ChannelList {
	if capacity < 0 {
		capacity = 0
	}
	return &ChannelList{
		entries:  make([]BandChannel, 0, capacity),
		capacity: capacity,
	}
}

// Append adds an entry, failing once the list is full.
func (l *ChannelList) Append(bc BandChannel) error {
	if len(l.entries) >= l.capacity {
		return ErrCapacityExceeded
	}
	l.entries = append(l.entries, bc)
	return nil
}

func (l *ChannelList) Len() int { return len(l.entries) }

func (l *ChannelList) Cap() int { return l.capacity }

func (l *ChannelList) Remaining() int { return l.capacity - len(l.entries) }

// Entries returns a copy of the list contents.
func (l *ChannelList) Entries() []BandChannel {
	if l == nil {
		return nil
	}
	out := make([]BandChannel, len(l.entries))
	copy(out, l.entries)
	return out
}
