package protocol

import "errors"

// Sentinel errors for session and registry operations.
var (
	ErrSessionClosed = errors.New("session closed")
	ErrUnknownDialer = errors.New("unknown dialer")
)
