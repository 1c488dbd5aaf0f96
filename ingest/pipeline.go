// Package ingest converts raw protocol message events into enriched,
// display-ready messages and publishes them to the feed. Enrichment is
// best-effort: a failed group-metadata fetch or a missing contact degrades
// to the bare network address, never to a dropped message.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wadash/wadash/core/protocol"
	"github.com/wadash/wadash/directory"
	"github.com/wadash/wadash/feed"
	"github.com/wadash/wadash/observability"
)

// Ingest event types.
const (
	EventMessage         observability.EventType = "ingest.message"
	EventGroupFetchError observability.EventType = "ingest.group.fetch_error"
	EventAutoReply       observability.EventType = "ingest.autoreply"
)

// AutoReply configures the automatic response to inbound messages whose
// text case-insensitively equals Trigger. An empty Trigger disables the
// feature.
type AutoReply struct {
	Trigger string `json:"trigger,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

// Merge applies non-empty values from source into a.
func (a *AutoReply) Merge(source *AutoReply) {
	if source.Trigger != "" {
		a.Trigger = source.Trigger
	}
	if source.Reply != "" {
		a.Reply = source.Reply
	}
}

// Pipeline enriches message events using the directory cache and publishes
// the result. Safe for concurrent use.
type Pipeline struct {
	dir         *directory.Cache
	feed        *feed.Feed
	obs         observability.Observer
	groupSuffix string
	autoReply   AutoReply
}

// New creates a Pipeline. groupSuffix is the canonical group-domain suffix
// used to distinguish group chats from direct ones.
func New(dir *directory.Cache, fd *feed.Feed, obs observability.Observer, groupSuffix string, autoReply AutoReply) *Pipeline {
	if obs == nil {
		obs = observability.NoOpObserver{}
	}
	return &Pipeline{
		dir:         dir,
		feed:        fd,
		obs:         obs,
		groupSuffix: groupSuffix,
		autoReply:   autoReply,
	}
}

// HandleMessage enriches one message event and publishes it. When the event
// is inbound and matches the auto-reply trigger, one reply is sent through
// the same session the event arrived on.
func (p *Pipeline) HandleMessage(ctx context.Context, sess protocol.Session, ev protocol.Message) {
	text := ev.Body
	if text == "" {
		text = ev.ExtendedBody
	}

	direction := feed.DirectionIn
	if ev.FromMe {
		direction = feed.DirectionOut
	}

	var label string
	if strings.HasSuffix(ev.Chat, p.groupSuffix) {
		label = p.groupLabel(ctx, sess, ev)
	} else {
		label = p.directLabel(ev)
	}

	timestamp := ev.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	p.obs.OnEvent(ctx, observability.Event{
		Type:      EventMessage,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "ingest.HandleMessage",
		Data: map[string]any{
			"label":     label,
			"direction": string(direction),
		},
	})

	p.feed.PublishMessage(feed.Message{
		Label:     label,
		Text:      text,
		Timestamp: timestamp,
		Direction: direction,
	})

	if !ev.FromMe && p.autoReply.Trigger != "" &&
		strings.EqualFold(strings.TrimSpace(text), p.autoReply.Trigger) {
		if err := sess.SendText(ctx, ev.Chat, p.autoReply.Reply); err != nil {
			p.obs.OnEvent(ctx, observability.Event{
				Type:      EventAutoReply,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    "ingest.HandleMessage",
				Data:      map[string]any{"error": err.Error()},
			})
			return
		}
		p.obs.OnEvent(ctx, observability.Event{
			Type:      EventAutoReply,
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "ingest.HandleMessage",
			Data:      map[string]any{"chat": ev.Chat},
		})
	}
}

// groupLabel builds "Me -> Group <subject> (<id>)" for outbound events and
// "Group <subject> (<id>) > <participant>" for inbound ones.
func (p *Pipeline) groupLabel(ctx context.Context, sess protocol.Session, ev protocol.Message) string {
	groupID := protocol.LocalPart(ev.Chat)
	subject := p.groupSubject(ctx, sess, ev.Chat)

	if ev.FromMe {
		return fmt.Sprintf("Me -> Group %s (%s)", subject, groupID)
	}

	participant := p.participantLabel(ev)
	return fmt.Sprintf("Group %s (%s) > %s", subject, groupID, participant)
}

// groupSubject returns the cached subject, fetching and caching metadata on
// first sight. Falls back to the bare group identifier.
func (p *Pipeline) groupSubject(ctx context.Context, sess protocol.Session, address string) string {
	if group, ok := p.dir.Group(address); ok && group.Subject != "" {
		return group.Subject
	}

	info, err := sess.GroupMetadata(ctx, address)
	if err != nil {
		p.obs.OnEvent(ctx, observability.Event{
			Type:      EventGroupFetchError,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "ingest.HandleMessage",
			Data:      map[string]any{"address": address, "error": err.Error()},
		})
		return protocol.LocalPart(address)
	}

	p.dir.CacheGroup(info)
	if info.Subject == "" {
		return protocol.LocalPart(address)
	}
	return info.Subject
}

func (p *Pipeline) participantLabel(ev protocol.Message) string {
	if contact, ok := p.dir.Contact(ev.Participant); ok {
		if contact.DisplayName != "" {
			return contact.DisplayName
		}
		if contact.PushName != "" {
			return contact.PushName
		}
	}
	if ev.PushName != "" {
		return ev.PushName
	}
	return protocol.LocalPart(ev.Participant)
}

// directLabel builds "Me -> <name> (<number>)" for outbound events and
// "<name> (<number>)" for inbound ones.
func (p *Pipeline) directLabel(ev protocol.Message) string {
	number := protocol.LocalPart(ev.Chat)

	name := number
	if contact, ok := p.dir.Contact(ev.Chat); ok && (contact.DisplayName != "" || contact.PushName != "") {
		if contact.DisplayName != "" {
			name = contact.DisplayName
		} else {
			name = contact.PushName
		}
	} else if !ev.FromMe && ev.PushName != "" {
		name = ev.PushName
	}

	if ev.FromMe {
		return fmt.Sprintf("Me -> %s (%s)", name, number)
	}
	return fmt.Sprintf("%s (%s)", name, number)
}
