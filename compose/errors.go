package compose

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOperations indicates an empty operation list.
	ErrNoOperations = errors.New("compose: no operations")

	// ErrInvalidSender indicates the sender address is malformed.
	ErrInvalidSender = errors.New("compose: invalid sender address")

	// ErrInvalidAmount indicates a zero, negative, or non-finite amount.
	ErrInvalidAmount = errors.New("compose: amount must be positive")

	// ErrMissingParameter indicates a required operation field is absent.
	ErrMissingParameter = errors.New("compose: missing required parameter")

	// ErrInsufficientBalance indicates the sender cannot cover the
	// requested amount.
	ErrInsufficientBalance = errors.New("compose: insufficient balance")

	// ErrSenderNotOptedIn indicates the sender holds no position in the
	// asset being sent. Reported separately from insufficient balance.
	ErrSenderNotOptedIn = errors.New("compose: sender not opted in to asset")

	// ErrRecipientNotOptedIn indicates the destination account cannot
	// receive the asset yet.
	ErrRecipientNotOptedIn = errors.New("compose: recipient not opted in to asset")

	// ErrOutcomeUnknown indicates a transport failure during submission:
	// the group may or may not have been accepted by the network.
	ErrOutcomeUnknown = errors.New("compose: submission outcome unknown")
)

// Stage identifies where in the composer's state machine a failure
// occurred. Failures at any stage before StageSubmitting guarantee that
// zero network-mutating calls were made.
type Stage int

const (
	StageValidating Stage = iota
	StageBuilding
	StageSigning
	StageSubmitting
)

// String returns the lowercase stage name.
func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StageBuilding:
		return "building"
	case StageSigning:
		return "signing"
	case StageSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// StageError reports which stage and which specific condition failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("compose: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// stageErr wraps err with its originating stage.
func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
