// Package observability provides event-based observability for the gateway
// subsystems. Severity values align with OpenTelemetry SeverityNumbers so
// events pass to OTel collectors without translation; the default sink is
// log/slog.
package observability

import (
	"context"
	"time"
)

// EventType identifies the kind of event. Each subsystem defines its own
// constants using this type (e.g., "supervisor.connected",
// "outbound.send.complete").
type EventType string

// Event is an observability event emitted by a subsystem.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events from subsystems for logging, tracing, or metrics.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// NoOpObserver discards all events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
