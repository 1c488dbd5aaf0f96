package outbound

// FailureCode classifies why a send failed. Empty on success.
type FailureCode string

const (
	// FailNotConnected: the session is not in the connected state. No
	// network call was made.
	FailNotConnected FailureCode = "not_connected"

	// FailRecipientNotFound: the identifier could not be resolved to a
	// usable address.
	FailRecipientNotFound FailureCode = "recipient_not_found"

	// FailNotRegistered: the resolved direct address does not exist on the
	// network.
	FailNotRegistered FailureCode = "not_registered"

	// FailTransmission: the underlying send or existence check errored.
	FailTransmission FailureCode = "transmission_failed"
)

// SendResult is the normalized outcome of a Send call. Message is always
// populated with a human-readable description; raw underlying errors are
// never passed through unwrapped.
type SendResult struct {
	Success         bool        `json:"success"`
	Message         string      `json:"message"`
	ResolvedAddress string      `json:"resolved_address,omitempty"`
	Code            FailureCode `json:"code,omitempty"`
}
