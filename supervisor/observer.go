package supervisor

import "github.com/wadash/wadash/observability"

// Supervisor event types emitted during the session lifecycle.
const (
	EventDial            observability.EventType = "supervisor.dial"
	EventDialFailed      observability.EventType = "supervisor.dial.failed"
	EventPairing         observability.EventType = "supervisor.pairing"
	EventConnected       observability.EventType = "supervisor.connected"
	EventClosed          observability.EventType = "supervisor.closed"
	EventReconnectWait   observability.EventType = "supervisor.reconnect.wait"
	EventTerminal        observability.EventType = "supervisor.terminal"
	EventCredentialsSave observability.EventType = "supervisor.credentials.save"
	EventDirectorySync   observability.EventType = "supervisor.directory.sync"
)
