// Package supervisor owns the lifecycle of the single protocol-session
// handle. It dials sessions from persisted credential state, consumes each
// session's event stream, keeps the connection state record consistent,
// republishes status and pairing changes to subscribers, and redials on
// recoverable closures with bounded exponential backoff.
//
// The supervisor is the sole writer of the state store and the only entity
// permitted to replace the session handle. Each replacement bumps a
// generation counter so in-flight callers can detect that they raced a
// reconnect instead of silently using a stale handle.
package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wadash/wadash/core/protocol"
	"github.com/wadash/wadash/creds"
	"github.com/wadash/wadash/directory"
	"github.com/wadash/wadash/feed"
	"github.com/wadash/wadash/observability"
	"github.com/wadash/wadash/state"
)

// Status texts published to subscribers on lifecycle transitions.
const (
	StatusConnecting       = "Connecting to the messaging network..."
	StatusScanPairing      = "Scan the QR code to connect."
	StatusConnected        = "Messaging session connected."
	StatusReconnecting     = "Connection lost. Reconnecting..."
	StatusLoggedOut        = "Logged out by the network. Remove the stored credentials and restart to pair again."
	StatusRetriesExhausted = "Reconnect attempts exhausted. Restart the service to reconnect."
)

// MessageSink receives message events from the live session. The session is
// passed alongside so the sink can reply through the same handle the event
// arrived on.
type MessageSink interface {
	HandleMessage(ctx context.Context, sess protocol.Session, ev protocol.Message)
}

// Deps are the collaborators the supervisor drives. Dialer, Credentials,
// State, and Feed are required; Directory, Messages, and Observer may be nil.
type Deps struct {
	Dialer      protocol.Dialer
	Credentials creds.Store
	State       *state.Store
	Directory   *directory.Cache
	Feed        *feed.Feed
	Messages    MessageSink
	Observer    observability.Observer
}

// Supervisor runs the connection lifecycle state machine:
// initializing → qr_pending → connected, with any of {qr_pending, connected}
// → disconnected. A recoverable disconnect re-enters initializing; an
// explicit logout (or an exhausted retry budget) is terminal until the
// credential store is reset externally.
type Supervisor struct {
	cfg  Config
	deps Deps

	mu         sync.RWMutex
	session    protocol.Session
	generation uint64
}

// New creates a Supervisor. Call Run to start the lifecycle loop.
func New(cfg Config, deps Deps) *Supervisor {
	if deps.Observer == nil {
		deps.Observer = observability.NoOpObserver{}
	}
	return &Supervisor{cfg: cfg, deps: deps}
}

// Session returns the current protocol session and its generation. Returns
// ErrNoSession when no session is installed; callers must treat any send
// error from a returned handle as a transient failure, since the handle may
// have been replaced concurrently.
func (s *Supervisor) Session() (protocol.Session, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil, s.generation, ErrNoSession
	}
	return s.session, s.generation, nil
}

// Generation returns the number of session handles installed so far.
func (s *Supervisor) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Run executes the lifecycle loop until ctx is cancelled. It always returns
// ctx's error: lifecycle failures are absorbed by reconnect handling or park
// the supervisor in a terminal disconnected state, they never abort Run.
// The only exception is a credential store read failure on startup, which is
// returned immediately.
func (s *Supervisor) Run(ctx context.Context) error {
	attempt := 0
	backoff := s.cfg.initialBackoff()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.deps.State.SetInitializing("connecting")
		s.deps.Feed.PublishStatus(StatusConnecting)

		credState, err := s.deps.Credentials.Load(ctx)
		if err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}

		s.observe(ctx, EventDial, observability.LevelInfo, map[string]any{
			"paired":  len(credState) > 0,
			"attempt": attempt,
		})

		sess, err := s.deps.Dialer.Dial(ctx, credState)
		if err != nil {
			s.observe(ctx, EventDialFailed, observability.LevelWarning, map[string]any{
				"error": err.Error(),
			})
			s.deps.State.SetDisconnected("dial_failed")
			s.deps.Feed.PublishStatus(StatusReconnecting)

			attempt++
			if s.exhausted(ctx, attempt) {
				return ctx.Err()
			}
			if !s.wait(ctx, backoff, attempt) {
				return ctx.Err()
			}
			backoff = s.nextBackoff(backoff)
			continue
		}

		s.install(sess)
		opened, cause := s.consume(ctx, sess)
		s.uninstall(sess)
		sess.Close()

		if err := ctx.Err(); err != nil {
			return err
		}

		s.observe(ctx, EventClosed, observability.LevelWarning, map[string]any{
			"cause":       string(cause),
			"recoverable": cause.Recoverable(),
		})

		if opened {
			// The session was fully up; start the backoff schedule over.
			attempt = 0
			backoff = s.cfg.initialBackoff()
		}

		if !cause.Recoverable() {
			s.deps.State.SetTerminal(string(cause))
			s.deps.Feed.PublishStatus(StatusLoggedOut)
			s.observe(ctx, EventTerminal, observability.LevelError, map[string]any{
				"cause": string(cause),
			})
			<-ctx.Done()
			return ctx.Err()
		}

		s.deps.Feed.PublishStatus(StatusReconnecting)

		attempt++
		if s.exhausted(ctx, attempt) {
			return ctx.Err()
		}
		if !s.wait(ctx, backoff, attempt) {
			return ctx.Err()
		}
		backoff = s.nextBackoff(backoff)
	}
}

// consume drains one session's event stream until the session closes or ctx
// is cancelled. Reports whether the session reached the connected state and
// the closure cause.
func (s *Supervisor) consume(ctx context.Context, sess protocol.Session) (opened bool, cause protocol.CloseCause) {
	for {
		select {
		case <-ctx.Done():
			return opened, protocol.CauseStreamError

		case ev, ok := <-sess.Events():
			if !ok {
				// Stream ended without a Closed event.
				s.deps.State.SetDisconnected("stream_closed")
				return opened, protocol.CauseStreamError
			}

			switch ev := ev.(type) {
			case protocol.PairingChallenge:
				if len(ev.Token) == 0 {
					continue
				}
				s.deps.State.SetPairing(ev.Token, ev.Phase)
				s.deps.Feed.PublishPairing(ev.Token)
				s.deps.Feed.PublishStatus(StatusScanPairing)
				s.observe(ctx, EventPairing, observability.LevelInfo, nil)

			case protocol.Opened:
				opened = true
				s.deps.State.SetConnected(ev.Phase)
				s.deps.Feed.PublishPairing(nil)
				s.deps.Feed.PublishStatus(StatusConnected)
				s.observe(ctx, EventConnected, observability.LevelInfo, map[string]any{
					"generation": s.Generation(),
				})

			case protocol.Closed:
				s.deps.State.SetDisconnected(ev.Phase)
				if ev.Cause == "" {
					return opened, protocol.CauseStreamError
				}
				return opened, ev.Cause

			case protocol.CredentialsRotated:
				if err := s.deps.Credentials.Save(ctx, ev.State); err != nil {
					// Keep going: the session stays usable, the pairing just
					// won't survive a restart.
					s.observe(ctx, EventCredentialsSave, observability.LevelError, map[string]any{
						"error": err.Error(),
					})
					continue
				}
				s.observe(ctx, EventCredentialsSave, observability.LevelVerbose, nil)

			case protocol.DirectoryFull:
				if s.deps.Directory != nil {
					s.deps.Directory.ReplaceAll(ev.Contacts)
					s.observe(ctx, EventDirectorySync, observability.LevelVerbose, map[string]any{
						"full":     true,
						"contacts": len(ev.Contacts),
					})
				}

			case protocol.DirectoryIncremental:
				if s.deps.Directory != nil {
					s.deps.Directory.Merge(ev.Updates)
					s.observe(ctx, EventDirectorySync, observability.LevelVerbose, map[string]any{
						"full":     false,
						"contacts": len(ev.Updates),
					})
				}

			case protocol.Message:
				if s.deps.Messages != nil {
					s.deps.Messages.HandleMessage(ctx, sess, ev)
				}
			}
		}
	}
}

func (s *Supervisor) install(sess protocol.Session) {
	s.mu.Lock()
	s.session = sess
	s.generation++
	s.mu.Unlock()
}

func (s *Supervisor) uninstall(sess protocol.Session) {
	s.mu.Lock()
	if s.session == sess {
		s.session = nil
	}
	s.mu.Unlock()
}

// exhausted checks the retry budget; when spent it publishes the terminal
// status and parks until ctx is cancelled.
func (s *Supervisor) exhausted(ctx context.Context, attempt int) bool {
	if s.cfg.MaxRetries <= 0 || attempt <= s.cfg.MaxRetries {
		return false
	}

	s.deps.State.SetTerminal("retries_exhausted")
	s.deps.Feed.PublishStatus(StatusRetriesExhausted)
	s.observe(ctx, EventTerminal, observability.LevelError, map[string]any{
		"cause":    "retries_exhausted",
		"attempts": attempt - 1,
	})
	<-ctx.Done()
	return true
}

func (s *Supervisor) wait(ctx context.Context, d time.Duration, attempt int) bool {
	s.observe(ctx, EventReconnectWait, observability.LevelVerbose, map[string]any{
		"backoff_ms": d.Milliseconds(),
		"attempt":    attempt,
	})

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Supervisor) nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if ceiling := s.cfg.maxBackoff(); next > ceiling {
		return ceiling
	}
	return next
}

func (s *Supervisor) observe(ctx context.Context, t observability.EventType, level observability.Level, data map[string]any) {
	s.deps.Observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "supervisor.Run",
		Data:      data,
	})
}
