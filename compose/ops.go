// Package compose validates, builds, signs, and submits a list of ledger
// operations as one atomic group. The ledger's group-commit rule is the
// sole atomicity mechanism: every member commits or none do, so the
// composer never needs application-level rollback.
package compose

import (
	"fmt"
	"math"
	"strconv"
)

// OpType identifies the kind of operation in a request.
type OpType int

const (
	// OpPayment sends algos to a recipient.
	OpPayment OpType = iota
	// OpAssetTransfer sends units of an asset to a recipient.
	OpAssetTransfer
	// OpOptIn registers the sender's interest in an asset.
	OpOptIn
	// OpOptOut removes the sender's position, closing the remainder to
	// another account.
	OpOptOut
	// OpNFTTransfer sends a single-unit asset to a recipient.
	OpNFTTransfer
	// OpNFTCreate mints a new unit-indivisible asset owned by the sender.
	OpNFTCreate
)

// Operation is one typed operation record, as produced by the upstream
// intent layer. Amounts are human-denominated decimals (algos or asset
// units); the composer scales them to base units during validation.
type Operation struct {
	Type OpType `json:"type"`

	// Recipient is a destination identifier: a ledger address or a
	// '+'-prefixed phone number. Used by payments and transfers.
	Recipient string `json:"recipient,omitempty"`

	// Amount in decimal units. Ignored by OpOptIn and OpOptOut; for
	// OpNFTTransfer it defaults to 1 when the asset is unit-indivisible.
	Amount float64 `json:"amount,omitempty"`

	// AssetID identifies the asset for every type except OpPayment.
	AssetID uint64 `json:"asset_id,omitempty"`

	// CloseTo receives the remaining asset balance on OpOptOut.
	CloseTo string `json:"close_to,omitempty"`

	// AssetName names the minted asset on OpNFTCreate. Required;
	// truncated to the ledger's 32-character limit.
	AssetName string `json:"asset_name,omitempty"`

	// UnitName is the minted asset's unit ticker on OpNFTCreate.
	// Truncated to the ledger's 8-character limit.
	UnitName string `json:"unit_name,omitempty"`

	// AssetURL optionally points at the minted asset's metadata.
	AssetURL string `json:"asset_url,omitempty"`

	// Note is attached to the mint transaction as its note field.
	Note string `json:"note,omitempty"`

	// Total is the minted supply on OpNFTCreate; zero defaults to 1.
	Total uint64 `json:"total,omitempty"`
}

// microAlgosPerAlgo is the ledger's base-unit scale for payments.
const microAlgosPerAlgo = 6

// minFeeMicroAlgos is the network's minimum per-transaction fee.
const minFeeMicroAlgos = 1000

// Ledger limits on asset naming fields.
const (
	maxAssetNameLen = 32
	maxUnitNameLen  = 8
)

// scaleAmount converts a decimal amount to base units given the asset's
// decimals. Rejects non-positive and non-finite values.
func scaleAmount(amount float64, decimals uint32) (uint64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidAmount, amount)
	}
	scaled := math.Round(amount * math.Pow10(int(decimals)))
	// math.MaxUint64 rounds to 2^64 as a float64, so the bound must be
	// exclusive to keep the uint64 conversion in range.
	if scaled < 1 || scaled >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: %v does not scale to a whole base unit", ErrInvalidAmount, amount)
	}
	return uint64(scaled), nil
}

// formatAmount renders a decimal amount without trailing zeros.
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// truncate clips s to at most n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// shortAddress abbreviates a 58-character address for human-readable
// summaries: first four characters, ellipsis, last four.
func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:4] + "…" + addr[len(addr)-4:]
}
