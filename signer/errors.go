package signer

import "errors"

var (
	// ErrApprovalRejected indicates the identity's holder declined the
	// presented transaction set. No signing request was or will be issued.
	ErrApprovalRejected = errors.New("signer: approval rejected by holder")

	// ErrApprovalTimeout indicates no decision arrived within the gate's
	// timeout.
	ErrApprovalTimeout = errors.New("signer: approval timed out")

	// ErrApprovalSuperseded indicates a newer signing request for the same
	// identity voided this one.
	ErrApprovalSuperseded = errors.New("signer: approval superseded by newer request")

	// ErrUnknownToken indicates the approval token does not match any
	// pending request (already decided, expired, or never issued).
	ErrUnknownToken = errors.New("signer: unknown approval token")

	// ErrIndexOutOfRange indicates a signing index is outside the group.
	ErrIndexOutOfRange = errors.New("signer: index out of range")

	// ErrEmptyGroup indicates the transaction group is empty.
	ErrEmptyGroup = errors.New("signer: empty transaction group")

	// ErrInvalidTransaction indicates transaction bytes could not be decoded.
	ErrInvalidTransaction = errors.New("signer: invalid transaction encoding")

	// ErrSignatureMismatch indicates the custody service returned a
	// signature that does not verify against the identity's public key.
	ErrSignatureMismatch = errors.New("signer: signature does not verify")
)
