package state_test

import (
	"bytes"
	"testing"

	"github.com/wadash/wadash/state"
)

func TestNewStore_Initializing(t *testing.T) {
	s := state.NewStore()

	snap := s.Snapshot()
	if snap.Status != state.StatusInitializing {
		t.Errorf("got status %q, want %q", snap.Status, state.StatusInitializing)
	}
	if snap.PairingToken != nil {
		t.Errorf("new store should have no pairing token, got %q", snap.PairingToken)
	}
}

func TestStore_TokenPresentOnlyWhilePairing(t *testing.T) {
	s := state.NewStore()

	s.SetPairing([]byte("token-1"), "pairing")
	snap := s.Snapshot()
	if snap.Status != state.StatusQRPending {
		t.Fatalf("got status %q, want %q", snap.Status, state.StatusQRPending)
	}
	if !bytes.Equal(snap.PairingToken, []byte("token-1")) {
		t.Errorf("got token %q, want %q", snap.PairingToken, "token-1")
	}

	transitions := []struct {
		name  string
		apply func()
		want  state.Status
	}{
		{"connected", func() { s.SetConnected("open") }, state.StatusConnected},
		{"disconnected", func() { s.SetDisconnected("close") }, state.StatusDisconnected},
		{"initializing", func() { s.SetInitializing("connecting") }, state.StatusInitializing},
	}

	for _, tt := range transitions {
		t.Run(tt.name, func(t *testing.T) {
			s.SetPairing([]byte("tok"), "pairing")
			tt.apply()

			snap := s.Snapshot()
			if snap.Status != tt.want {
				t.Errorf("got status %q, want %q", snap.Status, tt.want)
			}
			if snap.PairingToken != nil {
				t.Errorf("status %q must not carry a pairing token", tt.want)
			}
		})
	}
}

func TestStore_EmptyPairingTokenIgnored(t *testing.T) {
	s := state.NewStore()

	s.SetPairing(nil, "pairing")
	if snap := s.Snapshot(); snap.Status != state.StatusInitializing {
		t.Errorf("nil token transitioned state: %+v", snap)
	}

	s.SetConnected("open")
	s.SetPairing([]byte{}, "pairing")
	snap := s.Snapshot()
	if snap.Status != state.StatusConnected || snap.PairingToken != nil {
		t.Errorf("empty token transitioned state: %+v", snap)
	}
}

func TestStore_Terminal(t *testing.T) {
	s := state.NewStore()

	s.SetPairing([]byte("tok"), "pairing")
	s.SetTerminal("logged_out")

	snap := s.Snapshot()
	if snap.Status != state.StatusDisconnected || !snap.Terminal {
		t.Errorf("got %+v, want terminal disconnected", snap)
	}
	if snap.PairingToken != nil {
		t.Errorf("terminal state must not carry a pairing token: %q", snap.PairingToken)
	}
	if snap.RawPhase != "logged_out" {
		t.Errorf("got raw phase %q, want %q", snap.RawPhase, "logged_out")
	}

	s.SetInitializing("connecting")
	if snap := s.Snapshot(); snap.Terminal {
		t.Error("terminal flag survived a fresh initialization")
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := state.NewStore()
	token := []byte("original")
	s.SetPairing(token, "pairing")

	snap := s.Snapshot()
	snap.PairingToken[0] = 'X'
	token[1] = 'Y'

	fresh := s.Snapshot()
	if !bytes.Equal(fresh.PairingToken, []byte("original")) {
		t.Errorf("store token mutated through snapshot or caller slice: %q", fresh.PairingToken)
	}
}

func TestStore_RawPhase(t *testing.T) {
	s := state.NewStore()

	s.SetConnected("open")
	if got := s.Snapshot().RawPhase; got != "open" {
		t.Errorf("got raw phase %q, want %q", got, "open")
	}

	s.SetDisconnected("close")
	if got := s.Snapshot().RawPhase; got != "close" {
		t.Errorf("got raw phase %q, want %q", got, "close")
	}
}
