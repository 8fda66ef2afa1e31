package domain

import "errors"

var (
	// ErrNotFound is a confirmed "no row" signal from the backend.
	// It never triggers fallback substitution.
	ErrNotFound = errors.New("not found")

	// ErrInvalidUserRef marks a constraint violation on the order's
	// user reference: a foreign-key violation or a malformed identifier.
	ErrInvalidUserRef = errors.New("invalid user reference")

	// ErrQuotaExceeded is returned by the session store when a write
	// would exceed its capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)
