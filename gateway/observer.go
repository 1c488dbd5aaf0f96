package gateway

import "github.com/wadash/wadash/observability"

// Gateway lifecycle event types.
const (
	EventStart observability.EventType = "gateway.start"
	EventStop  observability.EventType = "gateway.stop"
)
