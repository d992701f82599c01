package signer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// decision is the terminal state of a pending approval.
type decision int

const (
	decisionApproved decision = iota
	decisionRejected
	decisionSuperseded
)

// PendingApproval is one outstanding signing request awaiting the
// identity holder's decision. It is bound to the decoded transaction set
// it was created for; a decision through its token covers exactly that set.
type PendingApproval struct {
	Token        string
	Identity     string
	Transactions []types.Transaction

	done chan decision
}

// ApprovalGate is a single-slot mailbox for signing approvals. Each
// identity has at most one pending request: submitting a new one
// supersedes and voids the prior. Unresolved requests expire after the
// gate's timeout.
type ApprovalGate struct {
	// OnRequest, when set, is invoked with each new pending request so
	// the embedding layer can present the transaction set to the holder.
	// Called synchronously from Submit; implementations should hand off
	// quickly.
	OnRequest func(*PendingApproval)

	timeout time.Duration

	mu         sync.Mutex
	byIdentity map[string]*PendingApproval
	byToken    map[string]*PendingApproval
}

// NewApprovalGate creates a gate whose pending requests expire after
// timeout.
func NewApprovalGate(timeout time.Duration) *ApprovalGate {
	return &ApprovalGate{
		timeout:    timeout,
		byIdentity: make(map[string]*PendingApproval),
		byToken:    make(map[string]*PendingApproval),
	}
}

// Submit registers a new pending request for identity, superseding any
// prior pending request for the same identity.
func (g *ApprovalGate) Submit(identity string, txns []types.Transaction) (*PendingApproval, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	pending := &PendingApproval{
		Token:        token,
		Identity:     identity,
		Transactions: txns,
		done:         make(chan decision, 1),
	}

	g.mu.Lock()
	if prior, ok := g.byIdentity[identity]; ok {
		prior.done <- decisionSuperseded
		delete(g.byToken, prior.Token)
	}
	g.byIdentity[identity] = pending
	g.byToken[token] = pending
	g.mu.Unlock()

	if g.OnRequest != nil {
		g.OnRequest(pending)
	}
	return pending, nil
}

// Decide resolves the pending request identified by token. Returns
// ErrUnknownToken if the token is not pending (already decided, expired,
// or superseded).
func (g *ApprovalGate) Decide(token string, approved bool) error {
	g.mu.Lock()
	pending, ok := g.byToken[token]
	if ok {
		g.remove(pending)
	}
	g.mu.Unlock()

	if !ok {
		return ErrUnknownToken
	}
	if approved {
		pending.done <- decisionApproved
	} else {
		pending.done <- decisionRejected
	}
	return nil
}

// Wait blocks until the request is decided, superseded, expired, or ctx
// is cancelled. A nil error means the holder approved.
func (g *ApprovalGate) Wait(ctx context.Context, pending *PendingApproval) error {
	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case d := <-pending.done:
		switch d {
		case decisionApproved:
			return nil
		case decisionRejected:
			return ErrApprovalRejected
		default:
			return ErrApprovalSuperseded
		}
	case <-timer.C:
		g.expire(pending)
		return ErrApprovalTimeout
	case <-ctx.Done():
		g.expire(pending)
		return fmt.Errorf("%w: %w", ErrApprovalRejected, ctx.Err())
	}
}

// expire removes a pending request after timeout or cancellation, unless
// a decision raced in first.
func (g *ApprovalGate) expire(pending *PendingApproval) {
	g.mu.Lock()
	if _, ok := g.byToken[pending.Token]; ok {
		g.remove(pending)
	}
	g.mu.Unlock()
}

// remove deletes pending from both indexes. Caller holds g.mu.
func (g *ApprovalGate) remove(pending *PendingApproval) {
	delete(g.byToken, pending.Token)
	if cur, ok := g.byIdentity[pending.Identity]; ok && cur == pending {
		delete(g.byIdentity, pending.Identity)
	}
}

// newToken returns an unguessable 128-bit hex token.
func newToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("signer: token generation: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
