package ledger

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the node.
	ErrConnectionFailed = errors.New("ledger: connection failed")

	// ErrNotOptedIn indicates the account has not opted in to the asset.
	ErrNotOptedIn = errors.New("ledger: account not opted in to asset")

	// ErrAssetNotFound indicates the requested asset does not exist.
	ErrAssetNotFound = errors.New("ledger: asset not found")

	// ErrSubmitRejected indicates the node rejected the submitted group.
	ErrSubmitRejected = errors.New("ledger: group submission rejected")

	// ErrConfirmationTimeout indicates the transaction was not confirmed
	// within the requested number of rounds.
	ErrConfirmationTimeout = errors.New("ledger: confirmation wait exceeded")

	// ErrEmptyGroup indicates SubmitGroup was called with no transactions.
	ErrEmptyGroup = errors.New("ledger: empty transaction group")
)
