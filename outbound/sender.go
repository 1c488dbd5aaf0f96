// Package outbound resolves loose recipient identifiers to canonical
// network addresses and performs validated sends through the current
// protocol session.
//
// Resolution order, first match wins: an identifier that already carries a
// canonical suffix, a cached group subject, a cached contact display name,
// and finally phone-number normalization. Resolution reads a point-in-time
// view of the directory cache without locking across steps; a send racing a
// reconnect surfaces as a failed result, never a crash.
package outbound

import (
	"context"
	"fmt"
	"time"

	"github.com/wadash/wadash/core/protocol"
	"github.com/wadash/wadash/directory"
	"github.com/wadash/wadash/observability"
	"github.com/wadash/wadash/state"
)

// Outbound event types.
const (
	EventSendStart    observability.EventType = "outbound.send.start"
	EventSendComplete observability.EventType = "outbound.send.complete"
)

// SessionSource yields the current protocol session handle and its
// generation. The connection supervisor implements this.
type SessionSource interface {
	Session() (protocol.Session, uint64, error)
}

// Sender is the send pipeline. Safe for concurrent use.
type Sender struct {
	state    *state.Store
	sessions SessionSource
	dir      *directory.Cache
	plan     NumberPlan
	obs      observability.Observer
}

// NewSender creates a Sender.
func NewSender(st *state.Store, sessions SessionSource, dir *directory.Cache, plan NumberPlan, obs observability.Observer) *Sender {
	if obs == nil {
		obs = observability.NoOpObserver{}
	}
	return &Sender{
		state:    st,
		sessions: sessions,
		dir:      dir,
		plan:     plan,
		obs:      obs,
	}
}

// Send resolves the identifier and transmits text to it. It fails fast when
// the session is not connected; it never queues, retries, or propagates a
// raw protocol error.
func (s *Sender) Send(ctx context.Context, identifier, text string) SendResult {
	s.observe(ctx, EventSendStart, observability.LevelVerbose, map[string]any{
		"identifier": identifier,
	})

	if status := s.state.Snapshot().Status; status != state.StatusConnected {
		return s.finish(ctx, SendResult{
			Message: "not connected to the messaging network",
			Code:    FailNotConnected,
		})
	}

	address := s.resolve(identifier)
	if address == "" {
		return s.finish(ctx, SendResult{
			Message: fmt.Sprintf("no recipient found for %q", identifier),
			Code:    FailRecipientNotFound,
		})
	}

	sess, _, err := s.sessions.Session()
	if err != nil {
		return s.finish(ctx, SendResult{
			Message: "not connected to the messaging network",
			Code:    FailNotConnected,
		})
	}

	if !s.plan.IsGroup(address) {
		exists, err := sess.ExistsOnNetwork(ctx, address)
		if err != nil {
			return s.finish(ctx, SendResult{
				Message:         fmt.Sprintf("failed to verify %q: %v", identifier, err),
				ResolvedAddress: address,
				Code:            FailTransmission,
			})
		}
		if !exists {
			return s.finish(ctx, SendResult{
				Message:         fmt.Sprintf("%q is not registered on the network", identifier),
				ResolvedAddress: address,
				Code:            FailNotRegistered,
			})
		}
	}

	if err := sess.SendText(ctx, address, text); err != nil {
		return s.finish(ctx, SendResult{
			Message:         fmt.Sprintf("failed to send message: %v", err),
			ResolvedAddress: address,
			Code:            FailTransmission,
		})
	}

	return s.finish(ctx, SendResult{
		Success:         true,
		Message:         fmt.Sprintf("message sent to %s", identifier),
		ResolvedAddress: address,
	})
}

// resolve maps an identifier to a canonical address, or "" when nothing
// usable can be derived from it.
func (s *Sender) resolve(identifier string) string {
	if s.plan.IsCanonical(identifier) {
		return identifier
	}

	if group, ok := s.dir.GroupBySubject(identifier); ok {
		return group.Address
	}

	if contact, ok := s.dir.ContactByName(identifier); ok {
		return contact.Address
	}

	return s.plan.NormalizeNumber(identifier)
}

func (s *Sender) finish(ctx context.Context, result SendResult) SendResult {
	level := observability.LevelInfo
	if !result.Success {
		level = observability.LevelWarning
	}
	s.observe(ctx, EventSendComplete, level, map[string]any{
		"success":  result.Success,
		"resolved": result.ResolvedAddress,
		"code":     string(result.Code),
	})
	return result
}

func (s *Sender) observe(ctx context.Context, t observability.EventType, level observability.Level, data map[string]any) {
	s.obs.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "outbound.Send",
		Data:      data,
	})
}
