// Package ledger provides the Algorand node client used by the composer.
// All reads are on-demand; nothing is cached across requests.
package ledger

import (
	"context"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Service is the primary interface for ledger interaction. The composer
// and the recipient resolver depend only on this interface, never on the
// concrete algod client.
type Service interface {
	// SuggestedParams returns the current fee and validity-window
	// parameters for building transactions.
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)

	// AccountSnapshot returns the balance and asset holdings of an account.
	AccountSnapshot(ctx context.Context, address string) (*AccountSnapshot, error)

	// AssetInfo returns the on-chain parameters of an asset.
	AssetInfo(ctx context.Context, assetID uint64) (*AssetInfo, error)

	// AccountAssetHolding returns the amount of an asset held by an account.
	// Returns ErrNotOptedIn if the account has not opted in to the asset.
	AccountAssetHolding(ctx context.Context, address string, assetID uint64) (uint64, error)

	// SubmitGroup submits a fully signed transaction group as one network
	// call and returns the transaction id of the first group member.
	SubmitGroup(ctx context.Context, signed [][]byte) (string, error)

	// WaitForConfirmation blocks until txid is confirmed or maxRounds
	// rounds have elapsed. It returns the asset index created by the
	// transaction, or zero when it created none.
	WaitForConfirmation(ctx context.Context, txid string, maxRounds uint64) (uint64, error)
}

// AccountSnapshot holds an account's balance and asset holdings at the
// time of the read. Snapshots are fetched per request and never reused.
type AccountSnapshot struct {
	Address string         `json:"address"`
	Balance uint64         `json:"balance"` // microalgos
	Assets  []AssetHolding `json:"assets"`
}

// AssetHolding is one asset position within an account.
type AssetHolding struct {
	AssetID uint64 `json:"asset_id"`
	Amount  uint64 `json:"amount"` // base units
}

// Holding returns the held amount of assetID and whether the account has
// opted in to it.
func (s *AccountSnapshot) Holding(assetID uint64) (uint64, bool) {
	for _, h := range s.Assets {
		if h.AssetID == assetID {
			return h.Amount, true
		}
	}
	return 0, false
}

// AssetInfo holds the asset parameters the composer needs for validation
// and amount scaling.
type AssetInfo struct {
	AssetID  uint64 `json:"asset_id"`
	Decimals uint32 `json:"decimals"`
	UnitName string `json:"unit_name"`
	Name     string `json:"name"`
	Total    uint64 `json:"total"`
}
