// Package protocol defines the contracts the gateway consumes from the
// external messaging-protocol library: session creation, the asynchronous
// event stream, and the send/query primitives. The wire protocol itself —
// handshake, encryption, multi-device session format — is owned entirely by
// the library behind these interfaces.
//
// Implementations register themselves by name via RegisterDialer so that
// deployments can select a transport from configuration. An in-memory
// "loopback" dialer is pre-registered for tests and dry-run serving.
package protocol

import "context"

// CredentialState is the opaque persisted credential blob the protocol
// library needs to resume an authorized session. The gateway stores and
// forwards it without inspecting its contents. A nil state means no prior
// pairing exists and the library will issue a pairing challenge.
type CredentialState []byte

// Dialer creates protocol sessions from persisted credential state.
type Dialer interface {
	Dial(ctx context.Context, creds CredentialState) (Session, error)
}

// Session is one live connection to the messaging network. A session emits
// lifecycle, directory, and message events on its event stream until it
// closes; after a Closed event (or channel close) the handle is dead and a
// replacement must be dialed.
//
// Send and query methods may be called concurrently with event consumption.
// Once the session has closed they return ErrSessionClosed.
type Session interface {
	// Events returns the session's event stream. The channel is closed when
	// the session terminates.
	Events() <-chan Event

	// SendText delivers a text message to a canonical network address.
	SendText(ctx context.Context, address, text string) error

	// ExistsOnNetwork reports whether a direct-message address is registered
	// on the network.
	ExistsOnNetwork(ctx context.Context, address string) (bool, error)

	// GroupMetadata fetches metadata for a group address.
	GroupMetadata(ctx context.Context, address string) (GroupInfo, error)

	// Close tears the session down. Safe to call more than once.
	Close() error
}

// Contact is a directory entry delivered by sync events. DisplayName is the
// address-book name, PushName the self-reported name seen on incoming
// messages. Either may be empty.
type Contact struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name,omitempty"`
	PushName    string `json:"push_name,omitempty"`
}

// GroupInfo is the metadata the library exposes for a group destination.
type GroupInfo struct {
	Address string `json:"address"`
	Subject string `json:"subject"`
}
