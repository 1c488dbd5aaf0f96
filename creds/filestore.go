package creds

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wadash/wadash/core/protocol"
)

const credentialFile = "credentials.bin"

type fileStore struct {
	root string
}

// NewFileStore creates a Store that keeps the credential blob in a single
// file under root. Writes go through a temp file plus rename so a crash
// mid-save never leaves a truncated blob behind.
func NewFileStore(root string) Store {
	return &fileStore{root: root}
}

func (s *fileStore) path() string {
	return filepath.Join(s.root, credentialFile)
}

func (s *fileStore) Load(_ context.Context) (protocol.CredentialState, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return protocol.CredentialState(data), nil
}

func (s *fileStore) Save(_ context.Context, state protocol.CredentialState) error {
	if err := os.MkdirAll(s.root, 0o700); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(state); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if err := os.Rename(tmpName, s.path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

func (s *fileStore) Reset(_ context.Context) error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reset failed: %w", err)
	}
	return nil
}
