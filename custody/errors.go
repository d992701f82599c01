package custody

import "errors"

var (
	// ErrKeyNotFound indicates no custodial key exists for the identity.
	// Returned by read-only lookups, which never provision keys.
	ErrKeyNotFound = errors.New("custody: no key for identity")

	// ErrEmptyIdentity indicates the identity string is empty.
	ErrEmptyIdentity = errors.New("custody: identity must not be empty")

	// ErrBackendUnavailable indicates the secrets store could not be reached
	// or returned a malformed response.
	ErrBackendUnavailable = errors.New("custody: secrets backend unavailable")

	// ErrInvalidEnvelope indicates a signature envelope is malformed or
	// carries an unknown scheme.
	ErrInvalidEnvelope = errors.New("custody: invalid signature envelope")

	// ErrInvalidPublicKey indicates the backend returned a public key that
	// is not a valid 32-byte ed25519 key.
	ErrInvalidPublicKey = errors.New("custody: invalid ed25519 public key")

	// ErrSigningFailed indicates the backend signing operation failed.
	ErrSigningFailed = errors.New("custody: signing failed")
)
