package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the 25-word phrase fails checksum
	// validation or does not decode to a key.
	ErrInvalidMnemonic = errors.New("wallet: invalid mnemonic")

	// ErrInvalidKey indicates the private key material is empty or the
	// wrong length.
	ErrInvalidKey = errors.New("wallet: invalid private key")

	// ErrDecryptionFailed indicates wrong password or corrupted wallet data.
	ErrDecryptionFailed = errors.New("wallet: key decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates key checksum verification failed after
	// decryption.
	ErrChecksumMismatch = errors.New("wallet: key checksum mismatch")
)
