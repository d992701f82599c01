package ledger

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Client implements Service on top of an algod REST client.
type Client struct {
	algod *algod.Client
}

// NewClient creates a Service backed by the algod node at url.
// token may be empty for public endpoints.
func NewClient(url, token string) (*Client, error) {
	ac, err := algod.MakeClient(url, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return &Client{algod: ac}, nil
}

// SuggestedParams returns the node's suggested transaction parameters.
func (c *Client) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	sp, err := c.algod.SuggestedParams().Do(ctx)
	if err != nil {
		return types.SuggestedParams{}, fmt.Errorf("%w: suggested params: %w", ErrConnectionFailed, err)
	}
	return sp, nil
}

// AccountSnapshot fetches the account's balance and asset holdings.
func (c *Client) AccountSnapshot(ctx context.Context, address string) (*AccountSnapshot, error) {
	info, err := c.algod.AccountInformation(address).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: account %s: %w", ErrConnectionFailed, address, err)
	}

	snap := &AccountSnapshot{
		Address: address,
		Balance: info.Amount,
		Assets:  make([]AssetHolding, 0, len(info.Assets)),
	}
	for _, h := range info.Assets {
		snap.Assets = append(snap.Assets, AssetHolding{
			AssetID: h.AssetId,
			Amount:  h.Amount,
		})
	}
	return snap, nil
}

// AssetInfo fetches the on-chain parameters of an asset.
func (c *Client) AssetInfo(ctx context.Context, assetID uint64) (*AssetInfo, error) {
	asset, err := c.algod.GetAssetByID(assetID).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: asset %d: %w", ErrAssetNotFound, assetID, err)
	}
	return &AssetInfo{
		AssetID:  asset.Index,
		Decimals: uint32(asset.Params.Decimals),
		UnitName: asset.Params.UnitName,
		Name:     asset.Params.Name,
		Total:    asset.Params.Total,
	}, nil
}

// AccountAssetHolding reports the held amount of assetID. Opt-in status is
// derived from the account snapshot rather than the per-asset endpoint, so
// absence surfaces as ErrNotOptedIn instead of a transport-shaped 404.
func (c *Client) AccountAssetHolding(ctx context.Context, address string, assetID uint64) (uint64, error) {
	snap, err := c.AccountSnapshot(ctx, address)
	if err != nil {
		return 0, err
	}
	amount, ok := snap.Holding(assetID)
	if !ok {
		return 0, fmt.Errorf("%w: account %s, asset %d", ErrNotOptedIn, address, assetID)
	}
	return amount, nil
}

// SubmitGroup concatenates the signed transaction blobs and submits them
// as one atomic group. Returns the txid reported by the node, which is the
// id of the first transaction in the group.
func (c *Client) SubmitGroup(ctx context.Context, signed [][]byte) (string, error) {
	if len(signed) == 0 {
		return "", ErrEmptyGroup
	}

	var raw []byte
	for _, stx := range signed {
		raw = append(raw, stx...)
	}

	txid, err := c.algod.SendRawTransaction(raw).Do(ctx)
	if err != nil {
		// A transport failure leaves the outcome unknown: the node may or
		// may not have accepted the group. Callers must not blindly retry.
		if isTransportError(err) {
			return "", fmt.Errorf("%w: %w", ErrConnectionFailed, err)
		}
		return "", fmt.Errorf("%w: %w", ErrSubmitRejected, err)
	}
	return txid, nil
}

// isTransportError reports whether err is a network or deadline failure
// rather than a node-level rejection.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// WaitForConfirmation blocks until txid is confirmed or maxRounds elapse.
// The confirmed transaction body carries the index of any asset the
// transaction created, which mint callers need to report back.
func (c *Client) WaitForConfirmation(ctx context.Context, txid string, maxRounds uint64) (uint64, error) {
	info, err := transaction.WaitForConfirmation(c.algod, txid, maxRounds, ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrConfirmationTimeout, txid, err)
	}
	return info.AssetIndex, nil
}
