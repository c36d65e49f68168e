// Package chanspec parses the channel spec mini-language:
//
//	band:chan[,chan|chan-chan]*[_band:chan...]*
//
// e.g. "2:1,6,11_5:36-48". Band tokens are "2", "5" and "6".
package chanspec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

const (
	maxBandTokenLen = 3
	maxChanTokenLen = 4
	maxBandListLen  = 8
)

// ParseChannelSpec parses text into a channel list holding at most capacity
// entries. On error the list is nil.
func ParseChannelSpec(text string, capacity int) (*domain.ChannelList, error) {
	if text == "" {
		return nil, domain.ErrEmptySpec
	}

	list := domain.NewChannelList(capacity)
	p := &parser{text: text, list: list}
	if err := p.run(); err != nil {
		return nil, err
	}
	return list, nil
}

type parser struct {
	text string
	pos  int
	list *domain.ChannelList

	validBand bool
	validChan bool
}

func (p *parser) run() error {
	for p.pos < len(p.text) {
		colon := strings.IndexByte(p.text[p.pos:], ':')
		if colon < 0 {
			return fmt.Errorf("%w: %q", domain.ErrUnknownBand, p.text[p.pos:])
		}

		band, err := bandToken(p.text[p.pos : p.pos+colon])
		if err != nil {
			return err
		}
		p.pos += colon + 1
		p.validBand = true

		more, err := p.channels(band)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	// Degenerate ranges such as "6-6" add nothing; an empty list would
	// lift the channel restriction entirely.
	if !p.validBand || !p.validChan || p.list.Len() == 0 {
		return domain.ErrNoChannels
	}
	return nil
}

// channels consumes one band group. It reports whether another group
// follows.
func (p *parser) channels(band domain.WiFiBand) (bool, error) {
	rangeStart := 0
	for {
		end := p.pos
		for end < len(p.text) && !isSeparator(p.text[end]) {
			end++
		}

		ch, err := channelToken(p.text[p.pos:end])
		if err != nil {
			return false, err
		}

		var sep byte
		if end < len(p.text) {
			sep = p.text[end]
		}

		if rangeStart != 0 {
			if err := expandRange(p.list, band, rangeStart, ch); err != nil {
				return false, err
			}
			rangeStart = 0
		} else {
			if !domain.IsValidChannel(band, ch) {
				return false, fmt.Errorf("%w: %d in %s", domain.ErrIllegalChannel, ch, band)
			}
			if sep != '-' {
				if err := p.list.Append(domain.BandChannel{Band: band, Channel: ch}); err != nil {
					return false, err
				}
			}
		}
		if sep == '-' {
			rangeStart = ch
		}

		p.validChan = true
		p.pos = end + 1

		switch sep {
		case 0:
			if rangeStart != 0 {
				return false, fmt.Errorf("%w: open range", domain.ErrMalformedChannel)
			}
			return false, nil
		case '_':
			if rangeStart != 0 {
				return false, fmt.Errorf("%w: open range", domain.ErrMalformedChannel)
			}
			if p.pos >= len(p.text) {
				return false, domain.ErrNoChannels
			}
			return true, nil
		}
	}
}

func isSeparator(c byte) bool {
	return c == ',' || c == '_' || c == '-'
}

func bandToken(tok string) (domain.WiFiBand, error) {
	if len(tok) == 0 || len(tok) > maxBandTokenLen {
		return domain.BandUnknown, fmt.Errorf("%w: %q", domain.ErrUnknownBand, tok)
	}
	band, ok := domain.BandFromToken(tok)
	if !ok {
		return domain.BandUnknown, fmt.Errorf("%w: %q", domain.ErrUnknownBand, tok)
	}
	return band, nil
}

func channelToken(tok string) (int, error) {
	if len(tok) == 0 || len(tok) > maxChanTokenLen {
		return 0, fmt.Errorf("%w: %q", domain.ErrMalformedChannel, tok)
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, fmt.Errorf("%w: %q", domain.ErrMalformedChannel, tok)
		}
	}
	ch, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrMalformedChannel, tok)
	}
	return ch, nil
}

// expandRange appends the channels after start up to and including end.
func expandRange(list *domain.ChannelList, band domain.WiFiBand, start, end int) error {
	if !domain.IsValidChannel(band, start) {
		return fmt.Errorf("%w: %d in %s", domain.ErrIllegalChannel, start, band)
	}
	if !domain.IsValidChannel(band, end) {
		return fmt.Errorf("%w: %d in %s", domain.ErrIllegalChannel, end, band)
	}
	if end < start {
		return fmt.Errorf("%w: %d-%d", domain.ErrReversedRange, start, end)
	}

	chans := rangeChannels(band, start, end)
	if len(chans) > list.Remaining() {
		return fmt.Errorf("%w: %d channels, %d free", domain.ErrCapacityExceeded, len(chans), list.Remaining())
	}
	for _, ch := range chans {
		if err := list.Append(domain.BandChannel{Band: band, Channel: ch}); err != nil {
			return err
		}
	}
	return nil
}

func rangeChannels(band domain.WiFiBand, start, end int) []int {
	if start == end {
		return nil
	}
	var out []int
	switch band {
	case domain.Band24GHz:
		for ch := start + 1; ch <= end; ch++ {
			out = append(out, ch)
		}
	case domain.Band5GHz:
		i, _ := domain.Index5GHz(start)
		for _, ch := range domain.Channels5GHz[i+1:] {
			out = append(out, ch)
			if ch == end {
				break
			}
		}
	case domain.Band6GHz:
		for ch := next6GHz(start); ch <= end; ch = next6GHz(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// next6GHz steps through the 6 GHz numbering: 1, 2, 5, 9, 13, ...
func next6GHz(ch int) int {
	switch ch {
	case 1:
		return 2
	case 2:
		return 5
	default:
		return ch + 4
	}
}

// ParseBandList parses a comma separated band list such as "2,5".
func ParseBandList(text string) (domain.BandMask, error) {
	if text == "" || len(text) > maxBandListLen {
		return 0, fmt.Errorf("%w: band list %q", domain.ErrInvalidArgument, text)
	}

	var mask domain.BandMask
	for _, tok := range strings.Split(text, ",") {
		if tok == "" {
			continue
		}
		band, ok := domain.BandFromToken(tok)
		if !ok {
			return 0, fmt.Errorf("%w: %q", domain.ErrUnknownBand, tok)
		}
		mask = mask.With(band)
	}
	if mask == 0 {
		return 0, fmt.Errorf("%w: band list %q", domain.ErrInvalidArgument, text)
	}
	return mask, nil
}

// ParseSSIDFilter adds one SSID to the first free filter slot.
func ParseSSIDFilter(filters *domain.SSIDFilters, ssid string) error {
	if filters == nil {
		return fmt.Errorf("%w: nil filter list", domain.ErrInvalidArgument)
	}
	return filters.Add(ssid)
}
