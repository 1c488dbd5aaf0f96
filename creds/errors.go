package creds

import "errors"

// Sentinel errors for store operations.
var (
	ErrLoadFailed = errors.New("credential load failed")
	ErrSaveFailed = errors.New("credential save failed")
)
