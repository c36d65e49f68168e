package domain

import (
	"errors"
	"fmt"
)

// Error categories returned by scan operations.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrBusy            = errors.New("scan already in progress")
	ErrIO              = errors.New("driver i/o failure")
)

// Domain Errors for network interfaces.
var (
	ErrInvalidInterfaceName = errors.New("invalid interface name")
	ErrInvalidMAC           = errors.New("invalid MAC address")
)

// ErrSessionNotFound is returned by history lookups.
var ErrSessionNotFound = errors.New("scan session not found")

// Validation failures. All of them are invalid-argument errors.
var (
	ErrEmptySpec        = fmt.Errorf("%w: empty channel spec", ErrInvalidArgument)
	ErrUnknownBand      = fmt.Errorf("%w: unknown band", ErrInvalidArgument)
	ErrMalformedChannel = fmt.Errorf("%w: malformed channel", ErrInvalidArgument)
	ErrIllegalChannel   = fmt.Errorf("%w: channel not legal for band", ErrInvalidArgument)
	ErrReversedRange    = fmt.Errorf("%w: range end before start", ErrInvalidArgument)
	ErrCapacityExceeded = fmt.Errorf("%w: capacity exceeded", ErrInvalidArgument)
	ErrNoChannels       = fmt.Errorf("%w: no band or channel", ErrInvalidArgument)
	ErrSSIDTooLong      = fmt.Errorf("%w: ssid longer than %d bytes", ErrInvalidArgument, MaxSSIDLen)
	ErrUnsupportedBand  = fmt.Errorf("%w: unsupported band", ErrInvalidArgument)
	ErrInvalidDwell     = fmt.Errorf("%w: negative dwell time", ErrInvalidArgument)
	ErrInvalidMaxBSS    = fmt.Errorf("%w: max bss count out of range", ErrInvalidArgument)
	ErrNilCallback      = fmt.Errorf("%w: nil result callback", ErrInvalidArgument)
	ErrNotReady         = fmt.Errorf("%w: interface not up", ErrInvalidArgument)
)
