package protocol

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const loopbackEventBuffer = 64

// LoopbackDialer creates in-memory sessions that never leave the process.
// It backs tests and dry-run deployments: a dialed session pairs instantly
// (issuing a pairing challenge first when no credential state is supplied),
// accepts every send, and echoes the account's own sends back on the event
// stream the way the real network does.
type LoopbackDialer struct {
	mu   sync.Mutex
	last *LoopbackSession
}

// NewLoopbackDialer creates a LoopbackDialer.
func NewLoopbackDialer() *LoopbackDialer {
	return &LoopbackDialer{}
}

func (d *LoopbackDialer) Dial(_ context.Context, creds CredentialState) (Session, error) {
	s := &LoopbackSession{
		events: make(chan Event, loopbackEventBuffer),
	}

	if len(creds) == 0 {
		s.events <- PairingChallenge{
			Token: []byte(uuid.NewString()),
			Phase: "pairing",
		}
		s.events <- CredentialsRotated{State: CredentialState("loopback")}
	}
	s.events <- Opened{Phase: "open"}

	d.mu.Lock()
	d.last = s
	d.mu.Unlock()

	return s, nil
}

// LastSession returns the most recently dialed session, or nil.
func (d *LoopbackDialer) LastSession() *LoopbackSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// SentText records one SendText call made against a loopback session.
type SentText struct {
	Address string
	Text    string
}

// LoopbackSession is the Session implementation returned by LoopbackDialer.
type LoopbackSession struct {
	mu     sync.Mutex
	events chan Event
	closed bool
	sent   []SentText
}

func (s *LoopbackSession) Events() <-chan Event {
	return s.events
}

func (s *LoopbackSession) SendText(_ context.Context, address, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.sent = append(s.sent, SentText{Address: address, Text: text})
	s.events <- Message{
		Chat:      address,
		FromMe:    true,
		Body:      text,
		Timestamp: time.Now(),
	}
	return nil
}

func (s *LoopbackSession) ExistsOnNetwork(_ context.Context, _ string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}
	return true, nil
}

func (s *LoopbackSession) GroupMetadata(_ context.Context, address string) (GroupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return GroupInfo{}, ErrSessionClosed
	}
	return GroupInfo{Address: address, Subject: LocalPart(address)}, nil
}

func (s *LoopbackSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}

// Deliver injects an event into the session's stream, simulating traffic
// from the network.
func (s *LoopbackSession) Deliver(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.events <- ev
	return nil
}

// Sent returns a copy of all SendText calls recorded so far.
func (s *LoopbackSession) Sent() []SentText {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SentText, len(s.sent))
	copy(out, s.sent)
	return out
}

// LocalPart returns the address with its domain suffix stripped: the bare
// phone number of a direct address or the bare identifier of a group.
func LocalPart(address string) string {
	if i := strings.IndexByte(address, '@'); i >= 0 {
		return address[:i]
	}
	return address
}
