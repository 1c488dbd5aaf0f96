// Package creds persists the protocol library's opaque credential state.
// The gateway never inspects the blob: it loads it when dialing, saves it
// whenever the library rotates credentials, and resets it when an operator
// discards a logged-out pairing.
package creds

import (
	"context"

	"github.com/wadash/wadash/core/protocol"
)

// Store persists one account's credential state.
type Store interface {
	// Load returns the persisted state, or nil when no pairing exists yet.
	Load(ctx context.Context) (protocol.CredentialState, error)
	// Save overwrites the persisted state.
	Save(ctx context.Context, state protocol.CredentialState) error
	// Reset discards the persisted state. Resetting an empty store is a no-op.
	Reset(ctx context.Context) error
}
