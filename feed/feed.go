// Package feed fans status, pairing, and message updates out to subscribers.
// It is the gateway's only push surface: the web layer forwards updates
// verbatim to connected dashboard clients.
//
// Delivery preserves publish order per subscriber. A slow subscriber whose
// buffer fills loses updates rather than blocking the publisher; drops are
// counted and logged.
package feed

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const defaultBufferSize = 100

// Subscription is one subscriber's view of the feed. Updates arrive on the
// channel returned by Updates until the subscription is cancelled or the
// feed is closed.
type Subscription struct {
	id string
	ch chan Update
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Updates returns the subscriber's receive channel.
func (s *Subscription) Updates() <-chan Update {
	return s.ch
}

// Feed is the fan-out hub. Safe for concurrent use.
type Feed struct {
	mu      sync.RWMutex
	subs    map[string]*Subscription
	closed  bool
	buffer  int
	logger  *slog.Logger
	metrics *Metrics
}

// New creates a Feed with the given per-subscriber buffer size. A size of 0
// or less selects the default.
func New(bufferSize int, logger *slog.Logger) *Feed {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		subs:    make(map[string]*Subscription),
		buffer:  bufferSize,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

// Subscribe registers a new subscriber. The returned subscription receives
// every update published after this call. Returns nil if the feed is closed.
func (f *Feed) Subscribe() *Subscription {
	sub := &Subscription{
		id: uuid.Must(uuid.NewV7()).String(),
		ch: make(chan Update, f.buffer),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.subs[sub.id] = sub
	f.metrics.RecordSubscriber(1)

	f.logger.Debug("feed subscriber added", slog.String("subscription_id", sub.id))
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Unknown IDs are
// ignored.
func (f *Feed) Unsubscribe(id string) {
	f.mu.Lock()
	sub, exists := f.subs[id]
	if exists {
		delete(f.subs, id)
	}
	f.mu.Unlock()

	if !exists {
		return
	}
	close(sub.ch)
	f.metrics.RecordSubscriber(-1)

	f.logger.Debug("feed subscriber removed", slog.String("subscription_id", id))
}

// PublishStatus fans a human-readable status text out to all subscribers.
func (f *Feed) PublishStatus(text string) {
	f.publish(Update{Kind: KindStatus, Status: text})
}

// PublishPairing fans a pairing token out to all subscribers. A nil token
// tells consumers the pairing challenge is cleared.
func (f *Feed) PublishPairing(token []byte) {
	f.publish(Update{Kind: KindPairing, Pairing: token})
}

// PublishMessage fans an enriched message out to all subscribers.
func (f *Feed) PublishMessage(msg Message) {
	f.publish(Update{Kind: KindMessage, Message: &msg})
}

// Metrics returns a snapshot of feed counters.
func (f *Feed) Metrics() MetricsSnapshot {
	return f.metrics.Snapshot()
}

// Close shuts the feed down, closing every subscriber channel. Publishing
// after Close is a no-op.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for id, sub := range f.subs {
		close(sub.ch)
		delete(f.subs, id)
	}
}

func (f *Feed) publish(update Update) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return
	}

	f.metrics.RecordPublished(1)
	for _, sub := range f.subs {
		select {
		case sub.ch <- update:
		default:
			f.metrics.RecordDropped(1)
			f.logger.Warn("feed update dropped for slow subscriber",
				slog.String("subscription_id", sub.id),
				slog.String("kind", string(update.Kind)),
			)
		}
	}
}
