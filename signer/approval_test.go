package signer

import (
	"context"
	"testing"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- ApprovalGate tests ---

func TestGate_ApproveResolvesWait(t *testing.T) {
	gate := NewApprovalGate(time.Second)

	pending, err := gate.Submit("+15551234567", []types.Transaction{{}})
	require.NoError(t, err)
	require.NotEmpty(t, pending.Token)

	require.NoError(t, gate.Decide(pending.Token, true))
	assert.NoError(t, gate.Wait(context.Background(), pending))
}

func TestGate_RejectResolvesWait(t *testing.T) {
	gate := NewApprovalGate(time.Second)

	pending, err := gate.Submit("+15551234567", nil)
	require.NoError(t, err)

	require.NoError(t, gate.Decide(pending.Token, false))
	assert.ErrorIs(t, gate.Wait(context.Background(), pending), ErrApprovalRejected)
}

func TestGate_Timeout(t *testing.T) {
	gate := NewApprovalGate(20 * time.Millisecond)

	pending, err := gate.Submit("+15551234567", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, gate.Wait(context.Background(), pending), ErrApprovalTimeout)

	// The slot is freed; a late decision is rejected.
	assert.ErrorIs(t, gate.Decide(pending.Token, true), ErrUnknownToken)
}

func TestGate_SupersedeVoidsPrior(t *testing.T) {
	gate := NewApprovalGate(time.Second)

	first, err := gate.Submit("+15551234567", nil)
	require.NoError(t, err)
	second, err := gate.Submit("+15551234567", nil)
	require.NoError(t, err)

	// The first request is voided and its token no longer decides anything.
	assert.ErrorIs(t, gate.Wait(context.Background(), first), ErrApprovalSuperseded)
	assert.ErrorIs(t, gate.Decide(first.Token, true), ErrUnknownToken)

	// The second request is live.
	require.NoError(t, gate.Decide(second.Token, true))
	assert.NoError(t, gate.Wait(context.Background(), second))
}

func TestGate_IndependentIdentities(t *testing.T) {
	gate := NewApprovalGate(time.Second)

	a, err := gate.Submit("+15551234567", nil)
	require.NoError(t, err)
	b, err := gate.Submit("+447700900123", nil)
	require.NoError(t, err)

	// Submitting for one identity does not touch the other's slot.
	require.NoError(t, gate.Decide(a.Token, true))
	require.NoError(t, gate.Decide(b.Token, false))
}

func TestGate_ContextCancellation(t *testing.T) {
	gate := NewApprovalGate(time.Minute)

	pending, err := gate.Submit("+15551234567", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, gate.Wait(ctx, pending), ErrApprovalRejected)
}

func TestGate_DecideUnknownToken(t *testing.T) {
	gate := NewApprovalGate(time.Second)
	assert.ErrorIs(t, gate.Decide("deadbeef", true), ErrUnknownToken)
}

func TestGate_OnRequestHook(t *testing.T) {
	gate := NewApprovalGate(time.Second)

	var seen *PendingApproval
	gate.OnRequest = func(p *PendingApproval) { seen = p }

	txns := []types.Transaction{{}}
	pending, err := gate.Submit("+15551234567", txns)
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, pending.Token, seen.Token)
	assert.Len(t, seen.Transactions, 1)
}
