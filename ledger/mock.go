package ledger

import (
	"context"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// MockService is a test double for Service. All function fields must be
// set before the corresponding method is called.
type MockService struct {
	SuggestedParamsFn     func(ctx context.Context) (types.SuggestedParams, error)
	AccountSnapshotFn     func(ctx context.Context, address string) (*AccountSnapshot, error)
	AssetInfoFn           func(ctx context.Context, assetID uint64) (*AssetInfo, error)
	AccountAssetHoldingFn func(ctx context.Context, address string, assetID uint64) (uint64, error)
	SubmitGroupFn         func(ctx context.Context, signed [][]byte) (string, error)
	WaitForConfirmationFn func(ctx context.Context, txid string, maxRounds uint64) (uint64, error)
}

func (m *MockService) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	return m.SuggestedParamsFn(ctx)
}
func (m *MockService) AccountSnapshot(ctx context.Context, address string) (*AccountSnapshot, error) {
	return m.AccountSnapshotFn(ctx, address)
}
func (m *MockService) AssetInfo(ctx context.Context, assetID uint64) (*AssetInfo, error) {
	return m.AssetInfoFn(ctx, assetID)
}
func (m *MockService) AccountAssetHolding(ctx context.Context, address string, assetID uint64) (uint64, error) {
	return m.AccountAssetHoldingFn(ctx, address, assetID)
}
func (m *MockService) SubmitGroup(ctx context.Context, signed [][]byte) (string, error) {
	return m.SubmitGroupFn(ctx, signed)
}
func (m *MockService) WaitForConfirmation(ctx context.Context, txid string, maxRounds uint64) (uint64, error) {
	return m.WaitForConfirmationFn(ctx, txid, maxRounds)
}
