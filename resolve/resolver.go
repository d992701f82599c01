package resolve

import (
	"context"
	"fmt"

	"github.com/algointent/libalgointent-go/custody"
)

// KeyProvider is the slice of the custody service the resolver needs.
type KeyProvider interface {
	CreateOrGet(ctx context.Context, identity string) (*custody.KeyRecord, error)
}

// Resolver turns a destination identifier into a ledger address.
// Addresses pass straight through; phone numbers resolve to the
// destination's custodial wallet, which is provisioned lazily on first
// resolution.
type Resolver struct {
	keys KeyProvider
}

// NewResolver creates a Resolver backed by the given custody service.
func NewResolver(keys KeyProvider) *Resolver {
	return &Resolver{keys: keys}
}

// Resolve parses input and returns the destination's ledger address.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	recipient, err := ParseRecipient(input)
	if err != nil {
		return "", err
	}

	switch recipient.Kind {
	case KindAddress:
		return recipient.Address, nil
	case KindPhoneNumber:
		record, err := r.keys.CreateOrGet(ctx, recipient.PhoneNumber)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrResolutionFailed, recipient.PhoneNumber, err)
		}
		return record.Address, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrMalformedRecipient, input)
	}
}
