package protocol

import "time"

// Event is a notification emitted on a session's event stream. Concrete
// types: PairingChallenge, Opened, Closed, CredentialsRotated,
// DirectoryFull, DirectoryIncremental, Message.
type Event interface {
	isEvent()
}

// PairingChallenge carries a one-time pairing token that must be presented
// to the end user (typically rendered as a scannable code) to authorize a
// new session.
type PairingChallenge struct {
	Token []byte
	Phase string // raw connection phase reported by the library
}

// Opened signals that the session is authorized and connected.
type Opened struct {
	Phase string
}

// Closed signals that the session has terminated. No further events follow.
type Closed struct {
	Cause CloseCause
	Phase string
}

// CredentialsRotated is emitted whenever the library refreshes its
// credential material. Consumers persist the new state without inspecting it.
type CredentialsRotated struct {
	State CredentialState
}

// DirectoryFull delivers the complete set of known contacts, replacing any
// previously synced state.
type DirectoryFull struct {
	Contacts []Contact
}

// DirectoryIncremental delivers partial contact updates to be merged into
// previously synced state.
type DirectoryIncremental struct {
	Updates []Contact
}

// Message is one inbound or outbound message observed on the session.
type Message struct {
	// Chat is the canonical address of the conversation: the counterpart for
	// a direct message, the group address for a group message.
	Chat string

	// Participant is the sender's address within a group. Empty for direct
	// messages and for outbound group messages.
	Participant string

	// PushName is the sender's self-reported display name, if any.
	PushName string

	// FromMe marks messages sent from the account's own devices.
	FromMe bool

	// Body is the plain text body. ExtendedBody carries the text of
	// extended or quoted messages when Body is empty.
	Body         string
	ExtendedBody string

	Timestamp time.Time
}

func (PairingChallenge) isEvent()     {}
func (Opened) isEvent()               {}
func (Closed) isEvent()               {}
func (CredentialsRotated) isEvent()   {}
func (DirectoryFull) isEvent()        {}
func (DirectoryIncremental) isEvent() {}
func (Message) isEvent()              {}

// CloseCause classifies why a session terminated.
type CloseCause string

const (
	// CauseLoggedOut means the account was explicitly logged out upstream.
	// The local credential state is no longer valid and reconnecting with it
	// cannot succeed.
	CauseLoggedOut CloseCause = "logged_out"

	// CauseNetworkDrop covers transport-level failures.
	CauseNetworkDrop CloseCause = "network_drop"

	// CauseStreamError covers protocol stream failures and unclassified
	// closures.
	CauseStreamError CloseCause = "stream_error"
)

// Recoverable reports whether redialing with the existing credential state
// can restore the session. Only an explicit logout is unrecoverable.
func (c CloseCause) Recoverable() bool {
	return c != CauseLoggedOut
}
