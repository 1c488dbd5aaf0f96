package account

import "errors"

var (
	// ErrUsernameTaken indicates an account with the username already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials indicates the username is unknown or the
	// password does not match. The two cases are deliberately
	// indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
