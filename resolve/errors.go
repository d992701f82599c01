package resolve

import "errors"

var (
	// ErrMalformedRecipient indicates the input is neither a valid ledger
	// address nor a valid phone number.
	ErrMalformedRecipient = errors.New("resolve: malformed recipient")

	// ErrInvalidAddress indicates the input fails the ledger's address
	// grammar (length, base32 alphabet, or checksum).
	ErrInvalidAddress = errors.New("resolve: invalid ledger address")

	// ErrInvalidPhoneNumber indicates the phone number normalizes to an
	// implausible digit count for an international number.
	ErrInvalidPhoneNumber = errors.New("resolve: invalid phone number")

	// ErrResolutionFailed indicates the custody service could not
	// provision or return the destination wallet.
	ErrResolutionFailed = errors.New("resolve: recipient resolution failed")
)
