package signer

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/algointent/libalgointent-go/custody"
)

// CustodialSigner signs through the remote custody service on behalf of
// one identity. Every signing request is preceded by an approval gate
// round-trip: the decoded transaction set is presented to the identity's
// holder and signing only proceeds on an explicit approval.
type CustodialSigner struct {
	identity string
	record   *custody.KeyRecord
	service  *custody.Service
	gate     *ApprovalGate
}

// NewCustodialSigner builds a signer for identity, provisioning the
// custodial key on first use.
func NewCustodialSigner(ctx context.Context, service *custody.Service, gate *ApprovalGate, identity string) (*CustodialSigner, error) {
	record, err := service.CreateOrGet(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &CustodialSigner{
		identity: identity,
		record:   record,
		service:  service,
		gate:     gate,
	}, nil
}

// Address returns the identity's custodial ledger address.
func (s *CustodialSigner) Address() string {
	return s.record.Address
}

// Sign presents the transactions at indices to the holder, blocks for the
// approval decision, then requests one remote signature per transaction
// and reassembles the signed blobs in index order.
//
// A rejection (or timeout, or supersession) returns before any custody
// signing call is made. Each returned signature is verified against the
// identity's public key before being attached.
func (s *CustodialSigner) Sign(ctx context.Context, group []types.Transaction, indices []int) ([][]byte, error) {
	if err := checkIndices(group, indices); err != nil {
		return nil, err
	}

	// 1. Approval gate: block until the holder decides.
	subset := make([]types.Transaction, 0, len(indices))
	for _, i := range indices {
		subset = append(subset, group[i])
	}
	pending, err := s.gate.Submit(s.identity, subset)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Wait(ctx, pending); err != nil {
		return nil, err
	}

	// 2. One remote signature per transaction, in index order.
	signed := make([][]byte, 0, len(indices))
	for _, i := range indices {
		stx, err := s.signOne(ctx, group[i])
		if err != nil {
			return nil, fmt.Errorf("signer: transaction %d: %w", i, err)
		}
		signed = append(signed, stx)
	}
	return signed, nil
}

// signOne signs a single transaction through the custody service and
// attaches the signature to a SignedTxn envelope.
func (s *CustodialSigner) signOne(ctx context.Context, txn types.Transaction) ([]byte, error) {
	payload := CanonicalSignBytes(txn)

	envelope, err := s.service.Sign(ctx, s.identity, payload)
	if err != nil {
		return nil, err
	}
	raw, err := custody.ParseSignatureEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	if !ed25519.Verify(s.record.PublicKey, payload, raw) {
		return nil, ErrSignatureMismatch
	}

	var sig types.Signature
	copy(sig[:], raw)
	stx := types.SignedTxn{
		Sig: sig,
		Txn: txn,
	}
	// When the custodial key is not the transaction sender (e.g. a
	// rekeyed account), record the authorizing address.
	signerAddr, err := types.DecodeAddress(s.record.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	if txn.Sender != signerAddr {
		stx.AuthAddr = signerAddr
	}

	return msgpack.Encode(&stx), nil
}
