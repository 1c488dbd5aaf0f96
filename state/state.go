// Package state holds the process-wide connection state record. Exactly one
// Store exists per gateway; the connection supervisor is its sole writer and
// every other component reads point-in-time snapshots.
package state

import (
	"slices"
	"sync"
)

// Status is the coarse connection status exposed to callers.
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusQRPending    Status = "qr_pending"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Snapshot is a read-only copy of the connection state. PairingToken is
// non-nil exactly when Status is StatusQRPending. RawPhase carries the
// protocol library's own connection-phase string, unedited. Terminal marks a
// disconnect that will not be retried until the process restarts.
type Snapshot struct {
	Status       Status `json:"status"`
	PairingToken []byte `json:"pairing_token,omitempty"`
	RawPhase     string `json:"raw_phase,omitempty"`
	Terminal     bool   `json:"terminal,omitempty"`
}

// Store is the mutable holder behind Snapshot. The record is overwritten in
// place on every transition, never duplicated, so readers always observe the
// latest value. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStore creates a Store in the initializing state.
func NewStore() *Store {
	return &Store{
		snap: Snapshot{Status: StatusInitializing},
	}
}

// Snapshot returns a defensive copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	snap.PairingToken = slices.Clone(s.snap.PairingToken)
	return snap
}

// SetInitializing records that a new session is being created. Clears any
// pairing token.
func (s *Store) SetInitializing(phase string) {
	s.set(StatusInitializing, nil, phase)
}

// SetPairing records an issued pairing challenge. The token is copied. An
// empty challenge is ignored: qr_pending always carries a token.
func (s *Store) SetPairing(token []byte, phase string) {
	if len(token) == 0 {
		return
	}
	s.set(StatusQRPending, slices.Clone(token), phase)
}

// SetConnected records an opened session. Clears any pairing token.
func (s *Store) SetConnected(phase string) {
	s.set(StatusConnected, nil, phase)
}

// SetDisconnected records a closed session. Clears any pairing token.
func (s *Store) SetDisconnected(phase string) {
	s.set(StatusDisconnected, nil, phase)
}

// SetTerminal records a disconnect that will not be retried: an explicit
// logout or an exhausted reconnect budget. Clears any pairing token.
func (s *Store) SetTerminal(phase string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = Snapshot{
		Status:   StatusDisconnected,
		RawPhase: phase,
		Terminal: true,
	}
}

func (s *Store) set(status Status, token []byte, phase string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = Snapshot{
		Status:       status,
		PairingToken: token,
		RawPhase:     phase,
	}
}
