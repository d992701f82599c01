// Package signer turns unsigned transactions into signed ones. It offers
// one capability interface with two implementations: a custodial path
// that signs through the remote custody service behind an approval gate,
// and a local path for self-held keys. Consumers depend only on the
// capability and never branch on signer kind.
package signer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// txidPrefix is the ledger's domain separator for transaction signing:
// the bytes actually signed are "TX" || msgpack(txn), not the encoded
// transaction itself.
var txidPrefix = []byte("TX")

// TransactionSigner signs the group members at the given indices and
// returns the encoded signed transactions in the same order as indices.
type TransactionSigner interface {
	Sign(ctx context.Context, group []types.Transaction, indices []int) ([][]byte, error)
}

// CanonicalSignBytes returns the ledger-defined bytes to sign for txn.
func CanonicalSignBytes(txn types.Transaction) []byte {
	encoded := msgpack.Encode(&txn)
	raw := make([]byte, 0, len(txidPrefix)+len(encoded))
	raw = append(raw, txidPrefix...)
	return append(raw, encoded...)
}

// DecodeTransaction normalizes a transaction blob to an in-memory
// transaction. It accepts both plain msgpack and the "TX"-prefixed
// canonical signing form, so callers can hand over whichever
// representation they hold.
func DecodeTransaction(raw []byte) (types.Transaction, error) {
	if len(raw) == 0 {
		return types.Transaction{}, fmt.Errorf("%w: empty bytes", ErrInvalidTransaction)
	}
	if bytes.HasPrefix(raw, txidPrefix) {
		raw = raw[len(txidPrefix):]
	}
	var txn types.Transaction
	if err := msgpack.Decode(raw, &txn); err != nil {
		return types.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	return txn, nil
}

// DecodeGroup normalizes a list of transaction blobs, preserving order.
func DecodeGroup(blobs [][]byte) ([]types.Transaction, error) {
	group := make([]types.Transaction, len(blobs))
	for i, raw := range blobs {
		txn, err := DecodeTransaction(raw)
		if err != nil {
			return nil, fmt.Errorf("signer: blob %d: %w", i, err)
		}
		group[i] = txn
	}
	return group, nil
}

// checkIndices validates that every signing index is inside the group.
func checkIndices(group []types.Transaction, indices []int) error {
	if len(group) == 0 {
		return ErrEmptyGroup
	}
	for _, i := range indices {
		if i < 0 || i >= len(group) {
			return fmt.Errorf("%w: index %d, group size %d", ErrIndexOutOfRange, i, len(group))
		}
	}
	return nil
}

// LocalSigner signs with a self-held key that is available in-process.
// It bypasses the custody service and the approval gate entirely; the
// holder of a local wallet has already authorized by unlocking it.
type LocalSigner struct {
	account crypto.Account
}

// NewLocalSigner wraps an in-process account.
func NewLocalSigner(account crypto.Account) *LocalSigner {
	return &LocalSigner{account: account}
}

// Address returns the signing account's ledger address.
func (s *LocalSigner) Address() string {
	return s.account.Address.String()
}

// Sign signs the group members at indices with the local private key.
func (s *LocalSigner) Sign(_ context.Context, group []types.Transaction, indices []int) ([][]byte, error) {
	if err := checkIndices(group, indices); err != nil {
		return nil, err
	}

	signed := make([][]byte, 0, len(indices))
	for _, i := range indices {
		_, stx, err := crypto.SignTransaction(s.account.PrivateKey, group[i])
		if err != nil {
			return nil, fmt.Errorf("signer: transaction %d: %w", i, err)
		}
		signed = append(signed, stx)
	}
	return signed, nil
}
