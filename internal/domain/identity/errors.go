package identity

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a password
	// mismatch. The two cases are deliberately indistinguishable to the
	// caller so account existence cannot be probed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers malformed, expired and badly signed tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrIdentityNotFound indicates a valid token referencing a user that
	// no longer exists.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrInvalidInput indicates invalid input for identity operations.
	ErrInvalidInput = errors.New("invalid identity input")
)
