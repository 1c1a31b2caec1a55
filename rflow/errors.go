package rflow

import (
	"errors"
	"fmt"
)

// ErrProtocolViolation marks a broken demand/signal contract at a boundary.
// A conforming producer or consumer never causes it.
var ErrProtocolViolation = errors.New("rflow: protocol violation")

// Sentinel errors for stream boundaries.
var (
	ErrCancelled          = errors.New("rflow: stream cancelled")
	ErrAlreadySubscribed  = fmt.Errorf("%w: producer accepts a single subscription", ErrProtocolViolation)
	ErrNonPositiveRequest = fmt.Errorf("%w: demand must be positive", ErrProtocolViolation)
	ErrDemandExceeded     = fmt.Errorf("%w: element delivered without demand", ErrProtocolViolation)
	ErrElementType        = errors.New("rflow: unexpected element type")
)
