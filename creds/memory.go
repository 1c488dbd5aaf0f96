package creds

import (
	"context"
	"slices"
	"sync"

	"github.com/wadash/wadash/core/protocol"
)

type memoryStore struct {
	mu    sync.Mutex
	state protocol.CredentialState
}

// NewMemoryStore creates a Store that holds the credential blob in memory.
// Used by tests and loopback deployments where nothing survives a restart.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Load(_ context.Context) (protocol.CredentialState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state), nil
}

func (s *memoryStore) Save(_ context.Context, state protocol.CredentialState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = slices.Clone(state)
	return nil
}

func (s *memoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
	return nil
}
