package feed

import "sync/atomic"

// MetricsSnapshot is a point-in-time view of feed counters.
type MetricsSnapshot struct {
	Subscribers int64
	Published   int64
	Dropped     int64
}

// Metrics tracks feed activity with atomic counters.
type Metrics struct {
	subscribers atomic.Int64
	published   atomic.Int64
	dropped     atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordSubscriber(delta int) {
	m.subscribers.Add(int64(delta))
}

func (m *Metrics) RecordPublished(delta int) {
	m.published.Add(int64(delta))
}

func (m *Metrics) RecordDropped(delta int) {
	m.dropped.Add(int64(delta))
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Subscribers: m.subscribers.Load(),
		Published:   m.published.Load(),
		Dropped:     m.dropped.Load(),
	}
}
