package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/algointent/libalgointent-go/ledger"
	"github.com/algointent/libalgointent-go/resolve"
	"github.com/algointent/libalgointent-go/signer"
)

// validityWindowRounds is the uniform validity window applied to every
// member of a group.
const validityWindowRounds = 1000

// Composer validates, builds, signs, and submits operation lists as
// atomic groups. It performs no internal retries: a failure before
// submission is safe for the caller to retry, a submission transport
// failure is not (see ErrOutcomeUnknown).
type Composer struct {
	ledger   ledger.Service
	resolver *resolve.Resolver
}

// NewComposer creates a Composer over the given ledger client and
// recipient resolver.
func NewComposer(l ledger.Service, r *resolve.Resolver) *Composer {
	return &Composer{ledger: l, resolver: r}
}

// Result reports a successfully submitted group.
type Result struct {
	// ReferenceID is the transaction id of the first group member.
	ReferenceID string `json:"reference_id"`
	// TxIDs lists every member's transaction id in operation order.
	TxIDs []string `json:"tx_ids"`
	// Description joins each operation's rendered summary.
	Description string `json:"description"`
	// AggregateFee is the total fee paid by the group, in microalgos.
	AggregateFee uint64 `json:"aggregate_fee"`
}

// plannedOp is one validated operation with its network reads resolved.
type plannedOp struct {
	op        Operation
	recipient string // resolved ledger address
	amount    uint64 // base units
	closeTo   string // resolved close-to address (opt-out)
	summary   string
}

// Execute runs the full pipeline for ops on behalf of sender, signing
// with ts. The stages are strictly ordered: Validating, Building,
// Signing, Submitting. Failure at any stage before Submitting guarantees
// zero network-mutating calls.
func (c *Composer) Execute(ctx context.Context, sender string, ops []Operation, ts signer.TransactionSigner) (*Result, error) {
	// --- Validating ---
	planned, err := c.validate(ctx, sender, ops)
	if err != nil {
		return nil, stageErr(StageValidating, err)
	}

	// --- Building ---
	txns, err := c.build(ctx, sender, planned)
	if err != nil {
		return nil, stageErr(StageBuilding, err)
	}

	txids := make([]string, len(txns))
	var aggregateFee uint64
	for i := range txns {
		txids[i] = crypto.GetTxID(txns[i])
		aggregateFee += uint64(txns[i].Fee)
	}

	// --- Signing ---
	indices := make([]int, len(txns))
	for i := range indices {
		indices[i] = i
	}
	signed, err := ts.Sign(ctx, txns, indices)
	if err != nil {
		return nil, stageErr(StageSigning, err)
	}

	// --- Submitting ---
	if _, err := c.ledger.SubmitGroup(ctx, signed); err != nil {
		if errors.Is(err, ledger.ErrConnectionFailed) {
			return nil, stageErr(StageSubmitting, fmt.Errorf("%w: %w", ErrOutcomeUnknown, err))
		}
		return nil, stageErr(StageSubmitting, err)
	}

	summaries := make([]string, len(planned))
	for i, p := range planned {
		summaries[i] = p.summary
	}
	return &Result{
		ReferenceID:  txids[0],
		TxIDs:        txids,
		Description:  strings.Join(summaries, ", "),
		AggregateFee: aggregateFee,
	}, nil
}

// WaitForConfirmation blocks until the group's reference transaction is
// confirmed or maxRounds rounds have elapsed. When the group minted an
// asset, the returned index identifies it; otherwise it is zero.
func (c *Composer) WaitForConfirmation(ctx context.Context, result *Result, maxRounds uint64) (uint64, error) {
	return c.ledger.WaitForConfirmation(ctx, result.ReferenceID, maxRounds)
}

// validate runs one fail-fast pass over all operations before anything
// is built. All reads are point-in-time; nothing is cached beyond this
// request.
func (c *Composer) validate(ctx context.Context, sender string, ops []Operation) ([]plannedOp, error) {
	if len(ops) == 0 {
		return nil, ErrNoOperations
	}
	if _, err := types.DecodeAddress(sender); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSender, sender, err)
	}

	snapshot, err := c.ledger.AccountSnapshot(ctx, sender)
	if err != nil {
		return nil, err
	}

	planned := make([]plannedOp, 0, len(ops))

	// Every member owes at least the network minimum fee, so the group's
	// fee floor counts against the spendable balance from the start.
	requiredMicro := uint64(len(ops)) * minFeeMicroAlgos
	if requiredMicro > snapshot.Balance {
		return nil, fmt.Errorf("%w: available %d µALGO, group fees alone require %d µALGO",
			ErrInsufficientBalance, snapshot.Balance, requiredMicro)
	}

	// Asset spends are summed across the group so two transfers of the
	// same asset cannot each pass against the full holding.
	debits := make(map[uint64]uint64)

	for i, op := range ops {
		p, err := c.validateOp(ctx, snapshot, debits, op)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if op.Type == OpPayment {
			requiredMicro += p.amount
			if requiredMicro > snapshot.Balance {
				return nil, fmt.Errorf("%w: available %d µALGO, required %d µALGO including fees",
					ErrInsufficientBalance, snapshot.Balance, requiredMicro)
			}
		}
		planned = append(planned, p)
	}
	return planned, nil
}

// validateOp validates one operation and resolves its network reads.
func (c *Composer) validateOp(ctx context.Context, snapshot *ledger.AccountSnapshot, debits map[uint64]uint64, op Operation) (plannedOp, error) {
	switch op.Type {
	case OpPayment:
		return c.validatePayment(ctx, op)
	case OpAssetTransfer:
		return c.validateAssetTransfer(ctx, snapshot, debits, op)
	case OpOptIn:
		return c.validateOptIn(ctx, op)
	case OpOptOut:
		return c.validateOptOut(ctx, op)
	case OpNFTTransfer:
		return c.validateNFTTransfer(ctx, snapshot, debits, op)
	case OpNFTCreate:
		return validateNFTCreate(op)
	default:
		return plannedOp{}, fmt.Errorf("%w: unknown operation type %d", ErrMissingParameter, op.Type)
	}
}

func (c *Composer) validatePayment(ctx context.Context, op Operation) (plannedOp, error) {
	recipient, err := c.resolver.Resolve(ctx, op.Recipient)
	if err != nil {
		return plannedOp{}, err
	}
	micro, err := scaleAmount(op.Amount, microAlgosPerAlgo)
	if err != nil {
		return plannedOp{}, err
	}
	return plannedOp{
		op:        op,
		recipient: recipient,
		amount:    micro,
		summary:   fmt.Sprintf("sent %s ALGO to %s", formatAmount(op.Amount), shortAddress(recipient)),
	}, nil
}

func (c *Composer) validateAssetTransfer(ctx context.Context, snapshot *ledger.AccountSnapshot, debits map[uint64]uint64, op Operation) (plannedOp, error) {
	if op.AssetID == 0 {
		return plannedOp{}, fmt.Errorf("%w: asset id", ErrMissingParameter)
	}
	recipient, err := c.resolver.Resolve(ctx, op.Recipient)
	if err != nil {
		return plannedOp{}, err
	}

	info, err := c.ledger.AssetInfo(ctx, op.AssetID)
	if err != nil {
		return plannedOp{}, err
	}
	amount, err := scaleAmount(op.Amount, info.Decimals)
	if err != nil {
		return plannedOp{}, err
	}

	if err := checkSenderHolding(snapshot, debits, op.AssetID, amount); err != nil {
		return plannedOp{}, err
	}
	if err := c.checkRecipientOptedIn(ctx, recipient, op.AssetID); err != nil {
		return plannedOp{}, err
	}

	unit := info.UnitName
	var summary string
	if unit != "" {
		summary = fmt.Sprintf("sent %s %s to %s", formatAmount(op.Amount), unit, shortAddress(recipient))
	} else {
		summary = fmt.Sprintf("sent %s of asset %d to %s", formatAmount(op.Amount), op.AssetID, shortAddress(recipient))
	}
	return plannedOp{op: op, recipient: recipient, amount: amount, summary: summary}, nil
}

func (c *Composer) validateOptIn(ctx context.Context, op Operation) (plannedOp, error) {
	if op.AssetID == 0 {
		return plannedOp{}, fmt.Errorf("%w: asset id", ErrMissingParameter)
	}
	// Confirms the asset exists before committing to an opt-in.
	if _, err := c.ledger.AssetInfo(ctx, op.AssetID); err != nil {
		return plannedOp{}, err
	}
	return plannedOp{
		op:      op,
		summary: fmt.Sprintf("opted in to asset %d", op.AssetID),
	}, nil
}

func (c *Composer) validateOptOut(ctx context.Context, op Operation) (plannedOp, error) {
	if op.AssetID == 0 {
		return plannedOp{}, fmt.Errorf("%w: asset id", ErrMissingParameter)
	}
	if op.CloseTo == "" {
		return plannedOp{}, fmt.Errorf("%w: close-to address", ErrMissingParameter)
	}
	closeTo, err := c.resolver.Resolve(ctx, op.CloseTo)
	if err != nil {
		return plannedOp{}, err
	}
	return plannedOp{
		op:      op,
		closeTo: closeTo,
		summary: fmt.Sprintf("opted out of asset %d", op.AssetID),
	}, nil
}

func (c *Composer) validateNFTTransfer(ctx context.Context, snapshot *ledger.AccountSnapshot, debits map[uint64]uint64, op Operation) (plannedOp, error) {
	if op.AssetID == 0 {
		return plannedOp{}, fmt.Errorf("%w: asset id", ErrMissingParameter)
	}
	recipient, err := c.resolver.Resolve(ctx, op.Recipient)
	if err != nil {
		return plannedOp{}, err
	}

	info, err := c.ledger.AssetInfo(ctx, op.AssetID)
	if err != nil {
		return plannedOp{}, err
	}

	// Unit-indivisible assets transfer one unit unless told otherwise.
	var amount uint64
	if op.Amount <= 0 {
		if info.Decimals != 0 {
			return plannedOp{}, fmt.Errorf("%w: amount for divisible asset %d", ErrMissingParameter, op.AssetID)
		}
		amount = 1
	} else {
		amount, err = scaleAmount(op.Amount, info.Decimals)
		if err != nil {
			return plannedOp{}, err
		}
	}

	if err := checkSenderHolding(snapshot, debits, op.AssetID, amount); err != nil {
		return plannedOp{}, err
	}
	if err := c.checkRecipientOptedIn(ctx, recipient, op.AssetID); err != nil {
		return plannedOp{}, err
	}

	label := info.Name
	if label == "" {
		label = fmt.Sprintf("asset %d", op.AssetID)
	}
	return plannedOp{
		op:        op,
		recipient: recipient,
		amount:    amount,
		summary:   fmt.Sprintf("sent NFT %s to %s", label, shortAddress(recipient)),
	}, nil
}

// validateNFTCreate validates a mint. The asset is unit-indivisible;
// naming fields are clipped to the ledger's limits before building.
func validateNFTCreate(op Operation) (plannedOp, error) {
	if strings.TrimSpace(op.AssetName) == "" {
		return plannedOp{}, fmt.Errorf("%w: asset name", ErrMissingParameter)
	}
	op.AssetName = truncate(op.AssetName, maxAssetNameLen)
	op.UnitName = truncate(op.UnitName, maxUnitNameLen)

	total := op.Total
	if total == 0 {
		total = 1
	}
	return plannedOp{
		op:      op,
		amount:  total,
		summary: fmt.Sprintf("created NFT %s", op.AssetName),
	}, nil
}

// checkSenderHolding verifies the sender has opted in to the asset and
// holds enough to cover this spend on top of the group's earlier spends
// of the same asset. Opt-in and balance failures are reported as
// distinct conditions.
func checkSenderHolding(snapshot *ledger.AccountSnapshot, debits map[uint64]uint64, assetID, amount uint64) error {
	held, optedIn := snapshot.Holding(assetID)
	if !optedIn {
		return fmt.Errorf("%w: you must opt in to asset %d before sending it", ErrSenderNotOptedIn, assetID)
	}
	required := debits[assetID] + amount
	if held < required {
		return fmt.Errorf("%w: asset %d: available %d, required %d", ErrInsufficientBalance, assetID, held, required)
	}
	debits[assetID] = required
	return nil
}

// checkRecipientOptedIn verifies the destination can receive the asset.
func (c *Composer) checkRecipientOptedIn(ctx context.Context, recipient string, assetID uint64) error {
	_, err := c.ledger.AccountAssetHolding(ctx, recipient, assetID)
	if errors.Is(err, ledger.ErrNotOptedIn) {
		return fmt.Errorf("%w: %s must opt in to asset %d first",
			ErrRecipientNotOptedIn, shortAddress(recipient), assetID)
	}
	return err
}

// build fetches one shared parameter set, builds one transaction per
// operation in caller order, and stamps one group id onto every member.
func (c *Composer) build(ctx context.Context, sender string, planned []plannedOp) ([]types.Transaction, error) {
	sp, err := c.ledger.SuggestedParams(ctx)
	if err != nil {
		return nil, err
	}
	// One uniform validity window for the whole group.
	sp.LastRoundValid = sp.FirstRoundValid + validityWindowRounds

	txns := make([]types.Transaction, len(planned))
	for i, p := range planned {
		txn, err := buildTxn(sender, p, sp)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		txns[i] = txn
	}

	// The group id over the ordered transaction list is the ledger's
	// all-or-none mechanism.
	gid, err := crypto.ComputeGroupID(txns)
	if err != nil {
		return nil, fmt.Errorf("compose: group id: %w", err)
	}
	for i := range txns {
		txns[i].Group = gid
	}
	return txns, nil
}

// buildTxn builds the ledger transaction for one planned operation.
func buildTxn(sender string, p plannedOp, sp types.SuggestedParams) (types.Transaction, error) {
	switch p.op.Type {
	case OpPayment:
		return transaction.MakePaymentTxn(sender, p.recipient, p.amount, nil, "", sp)
	case OpAssetTransfer, OpNFTTransfer:
		return transaction.MakeAssetTransferTxn(sender, p.recipient, p.amount, nil, sp, "", p.op.AssetID)
	case OpOptIn:
		return transaction.MakeAssetAcceptanceTxn(sender, nil, sp, p.op.AssetID)
	case OpOptOut:
		return transaction.MakeAssetTransferTxn(sender, p.closeTo, 0, nil, sp, p.closeTo, p.op.AssetID)
	case OpNFTCreate:
		// The creator holds every management role, matching how minted
		// assets are administered upstream.
		var note []byte
		if p.op.Note != "" {
			note = []byte(p.op.Note)
		}
		return transaction.MakeAssetCreateTxn(sender, note, sp, p.amount, 0, false,
			sender, sender, sender, sender, p.op.UnitName, p.op.AssetName, p.op.AssetURL, "")
	default:
		return types.Transaction{}, fmt.Errorf("%w: unknown operation type %d", ErrMissingParameter, p.op.Type)
	}
}
