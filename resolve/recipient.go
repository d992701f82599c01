// Package resolve classifies and normalizes destination identifiers.
// A recipient is either a ledger address or a phone number; the parser
// runs once at the boundary and everything downstream works from the
// tagged result.
package resolve

import (
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// RecipientKind tags the outcome of recipient classification.
type RecipientKind int

const (
	// KindMalformed marks input that is neither an address nor a phone number.
	KindMalformed RecipientKind = iota
	// KindAddress marks a syntactically valid ledger address.
	KindAddress
	// KindPhoneNumber marks a normalized international phone number.
	KindPhoneNumber
)

// Plausible digit counts for a fully-qualified international number.
// The lower bound rejects short or local numbers that would otherwise be
// misread as international; the upper bound is the E.164 maximum.
const (
	MinPhoneDigits = 8
	MaxPhoneDigits = 15
)

// Recipient is a classified destination identifier.
type Recipient struct {
	Kind RecipientKind

	// Address holds the validated ledger address when Kind is KindAddress.
	Address string
	// PhoneNumber holds the normalized "+<digits>" form when Kind is
	// KindPhoneNumber.
	PhoneNumber string
}

// ParseRecipient classifies input by structure: a leading '+' marks a
// phone number, anything else is treated as a ledger address and
// validated against the address grammar. Malformed input yields a
// Recipient with KindMalformed and a non-nil error describing why.
func ParseRecipient(input string) (Recipient, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Recipient{}, fmt.Errorf("%w: empty input", ErrMalformedRecipient)
	}

	if strings.HasPrefix(trimmed, "+") {
		normalized, err := normalizePhone(trimmed)
		if err != nil {
			return Recipient{}, err
		}
		return Recipient{Kind: KindPhoneNumber, PhoneNumber: normalized}, nil
	}

	addr, err := types.DecodeAddress(trimmed)
	if err != nil {
		return Recipient{}, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, trimmed, err)
	}
	return Recipient{Kind: KindAddress, Address: addr.String()}, nil
}

// normalizePhone strips formatting characters from a '+'-prefixed number
// and validates the remaining digit count.
func normalizePhone(input string) (string, error) {
	var digits strings.Builder
	for _, r := range input[1:] {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ', r == '-', r == '.', r == '(', r == ')':
			// formatting characters
		default:
			return "", fmt.Errorf("%w: unexpected character %q", ErrInvalidPhoneNumber, r)
		}
	}

	n := digits.Len()
	if n < MinPhoneDigits {
		return "", fmt.Errorf("%w: %d digits is too short for an international number", ErrInvalidPhoneNumber, n)
	}
	if n > MaxPhoneDigits {
		return "", fmt.Errorf("%w: %d digits exceeds the E.164 maximum", ErrInvalidPhoneNumber, n)
	}
	return "+" + digits.String(), nil
}
