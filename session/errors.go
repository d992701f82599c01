package session

import "errors"

var (
	// ErrSessionNotFound indicates no session exists for the user.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrSessionExpired indicates the session outlived its idle TTL and
	// has been removed.
	ErrSessionExpired = errors.New("session: expired")

	// ErrNilSession indicates a nil session was passed to Put.
	ErrNilSession = errors.New("session: nil session")

	// ErrEmptyUserID indicates the session carries no user id.
	ErrEmptyUserID = errors.New("session: empty user id")
)
