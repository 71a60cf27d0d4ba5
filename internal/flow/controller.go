// Package flow drives a transaction through the six ordered settlement
// stages. Each stage is invoked explicitly by its trigger; the controller
// records the outcome but never auto-advances to the next stage.
package flow

import (
	"context"
	"fmt"
	"sync"

	"github.com/minexafrica/tradeflow-backend/internal/audit"
	"github.com/minexafrica/tradeflow-backend/internal/mirror"
	"github.com/minexafrica/tradeflow-backend/internal/providers"
	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/db/models"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/minexafrica/tradeflow-backend/pkg/errors"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/money"
	"github.com/minexafrica/tradeflow-backend/pkg/types"
)

// StageInput carries the optional per-stage parameters supplied by the
// trigger. Absent values fall back to what the transaction already knows.
type StageInput struct {
	Amount               money.Amount
	Currency             enums.Currency
	Phone                string
	Mode                 enums.ContactMode
	TestingLab           string
	TestingResultSummary *string
}

// StageResult reports one completed stage invocation.
type StageResult struct {
	Stage     enums.FlowStage `json:"stage"`
	Reference string          `json:"reference,omitempty"`
	Fallback  bool            `json:"fallback"`
}

// Controller coordinates provider calls and store commands per stage.
type Controller struct {
	store     *store.Store
	providers *providers.Registry
	audit     *audit.Log
	mirror    *mirror.Mirror
	logg      *logger.Logger

	strict bool

	// Lock entries stay for the life of the process so late retries keep
	// serializing on the same mutex; progress entries are dropped once the
	// transaction is terminal.
	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	progress map[string]int
}

// Option tweaks controller construction.
type Option func(*Controller)

// WithStrictOrder makes invoking stage N+1 before stage N a state
// conflict. Off by default; triggers normally guard ordering themselves.
func WithStrictOrder() Option {
	return func(c *Controller) { c.strict = true }
}

// NewController validates and wires the controller's dependencies.
func NewController(st *store.Store, reg *providers.Registry, log *audit.Log, mir *mirror.Mirror, logg *logger.Logger, opts ...Option) (*Controller, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("provider registry is required")
	}
	if log == nil {
		return nil, fmt.Errorf("audit log is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	c := &Controller{
		store:     st,
		providers: reg,
		audit:     log,
		mirror:    mir,
		logg:      logg,
		locks:     make(map[string]*sync.Mutex),
		progress:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run executes one stage for the transaction. Provider degradation never
// fails a stage; validation, ordering, and missing-entity problems do.
func (c *Controller) Run(ctx context.Context, transactionID string, stage enums.FlowStage, input StageInput) (StageResult, error) {
	if !stage.IsValid() {
		return StageResult{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown stage %q", stage))
	}

	lock := c.entityLock(transactionID)
	lock.Lock()
	defer lock.Unlock()

	tx, ok := c.store.GetTransaction(transactionID)
	if !ok {
		return StageResult{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("transaction %s not found", transactionID))
	}
	order, ok := c.store.GetOrder(tx.OrderID)
	if !ok {
		return StageResult{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", tx.OrderID))
	}
	if tx.Status.IsTerminal() {
		c.clearProgress(transactionID)
		return StageResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("transaction %s is %s", transactionID, tx.Status))
	}
	if c.strict {
		if done := c.recordedProgress(transactionID); stage.Position() > done+1 {
			return StageResult{}, pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("stage %s requires the preceding stage to be recorded first", stage),
			)
		}
	}

	ctx = c.logg.WithTransactionID(c.logg.WithOrderID(ctx, order.ID), transactionID)
	ctx = c.logg.WithStage(ctx, stage.String())

	var (
		res StageResult
		err error
	)
	switch stage {
	case enums.FlowStageSendQR:
		res = c.sendQR(ctx, order, tx)
	case enums.FlowStageCallBuyer:
		res = c.callBuyer(ctx, order, tx, input)
	case enums.FlowStageReserveEscrow:
		res = c.reserveEscrow(ctx, order, tx, input)
	case enums.FlowStageTesting:
		res, err = c.assignTesting(ctx, order, input)
	case enums.FlowStageLCIssued:
		res = c.issueLC(ctx, order)
	case enums.FlowStageRelease:
		res = c.release(ctx, order, tx)
	}
	if err != nil {
		return StageResult{}, err
	}

	if stage == enums.FlowStageRelease {
		c.clearProgress(transactionID)
	} else {
		c.markProgress(transactionID, stage.Position())
	}
	c.logg.Info(ctx, "stage recorded")
	return res, nil
}

func (c *Controller) sendQR(ctx context.Context, order store.Order, tx store.Transaction) StageResult {
	sent := c.providers.Notifier.Publish(ctx, providers.Notification{
		OrderID:       order.ID,
		TransactionID: tx.ID,
		Event:         "qr.sent",
		Detail:        fmt.Sprintf("Payment QR issued for %s", order.Mineral),
	})
	c.audit.Append(order.ID, audit.Entry{
		Type:    audit.EntryTypeQR,
		Label:   "Payment QR sent",
		Channel: "email",
		Detail:  sent.Reference,
	})
	return StageResult{Stage: enums.FlowStageSendQR, Reference: sent.Reference, Fallback: sent.Fallback}
}

func (c *Controller) callBuyer(ctx context.Context, order store.Order, tx store.Transaction, input StageInput) StageResult {
	mode := input.Mode
	if mode == "" {
		mode = enums.ContactModeVoice
	}

	contacted := c.providers.Telephony.Contact(ctx, order.ID, input.Phone, mode)

	c.audit.Append(order.ID, audit.Entry{
		Type:    audit.EntryTypeContact,
		Label:   "Buyer contacted",
		Channel: string(mode),
		Detail:  contacted.Reference,
	})
	if c.mirror.Enabled() {
		rec := models.ContactLog{
			OrderID:  order.ID,
			Mode:     mode,
			Fallback: contacted.Fallback,
		}
		rec.TransactionID = &tx.ID
		if input.Phone != "" {
			phone := input.Phone
			rec.Phone = &phone
		}
		if contacted.Reference != "" {
			sid := contacted.Reference
			rec.CallSID = &sid
		}
		c.mirror.RecordContact(ctx, rec)
	}
	return StageResult{Stage: enums.FlowStageCallBuyer, Reference: contacted.Reference, Fallback: contacted.Fallback}
}

func (c *Controller) reserveEscrow(ctx context.Context, order store.Order, tx store.Transaction, input StageInput) StageResult {
	amount := input.Amount
	if amount.IsZero() {
		amount = tx.FinalAmount
	}
	if amount.IsZero() {
		amount = order.AIEstimatedAmount
	}
	currency := input.Currency
	if currency == "" {
		currency = tx.Currency
	}
	currency = enums.NormalizeCurrency(string(currency))

	reserved := c.providers.Escrow.Reserve(ctx, order.ID, amount.MinorUnits(), currency)

	escrowID := reserved.Reference
	tx.EscrowID = &escrowID
	c.store.UpdateTransaction(tx)

	order.EscrowStatus = enums.EscrowStatusReserved
	order.Status = enums.OrderStatusPaymentInitiated
	c.store.UpdateOrder(order)

	c.mirror.UpsertSettlement(ctx, models.SettlementRecord{
		TransactionID: tx.ID,
		OrderID:       order.ID,
		EscrowID:      escrowID,
		Status:        enums.EscrowStatusReserved,
		AmountMinor:   amount.MinorUnits(),
		Currency:      currency,
		Fallback:      reserved.Fallback,
		Metadata:      types.JSONMap{"stage": enums.FlowStageReserveEscrow.String()},
	})
	c.audit.Append(order.ID, audit.Entry{
		Type:   audit.EntryTypeEscrow,
		Label:  "Escrow reserved",
		Detail: escrowID,
	})
	return StageResult{Stage: enums.FlowStageReserveEscrow, Reference: escrowID, Fallback: reserved.Fallback}
}

func (c *Controller) assignTesting(ctx context.Context, order store.Order, input StageInput) (StageResult, error) {
	if order.Type != enums.OrderTypeSell {
		return StageResult{}, pkgerrors.New(pkgerrors.CodeValidation, "assay testing applies to sell orders only")
	}
	lab := input.TestingLab
	if lab == "" {
		lab = "Partner assay laboratory"
	}

	booked := c.providers.TestingLab.Assign(ctx, order.ID, lab)
	c.store.SetOrderTesting(order.ID, order.Type, lab, input.TestingResultSummary)
	return StageResult{Stage: enums.FlowStageTesting, Reference: booked.Reference, Fallback: booked.Fallback}, nil
}

func (c *Controller) issueLC(ctx context.Context, order store.Order) StageResult {
	issued := c.providers.TradeFinance.IssueLC(ctx, order.ID)
	c.store.SetOrderLC(order.ID, order.Type, issued.Reference)
	return StageResult{Stage: enums.FlowStageLCIssued, Reference: issued.Reference, Fallback: issued.Fallback}
}

func (c *Controller) release(ctx context.Context, order store.Order, tx store.Transaction) StageResult {
	escrowID := ""
	if tx.EscrowID != nil {
		escrowID = *tx.EscrowID
	}

	released := c.providers.Escrow.Release(ctx, order.ID, escrowID)
	c.providers.Payouts.Disburse(ctx, tx.ID, tx.FinalAmount.MinorUnits(), tx.Currency)

	tx.Status = enums.TransactionStatusCompleted
	c.store.UpdateTransaction(tx)

	order.EscrowStatus = enums.EscrowStatusPendingRelease
	order.Status = enums.OrderStatusCompleted
	c.store.UpdateOrder(order)

	c.mirror.UpsertSettlement(ctx, models.SettlementRecord{
		TransactionID: tx.ID,
		OrderID:       order.ID,
		EscrowID:      escrowID,
		Status:        enums.EscrowStatusPendingRelease,
		AmountMinor:   tx.FinalAmount.MinorUnits(),
		Currency:      tx.Currency,
		Fallback:      released.Fallback,
		Metadata:      types.JSONMap{"stage": enums.FlowStageRelease.String(), "payout_reference": released.Reference},
	})
	c.audit.Append(order.ID, audit.Entry{
		Type:   audit.EntryTypeRelease,
		Label:  "Funds released",
		Detail: released.Reference,
	})
	c.providers.Notifier.Publish(ctx, providers.Notification{
		OrderID:       order.ID,
		TransactionID: tx.ID,
		Event:         "settlement.completed",
	})
	return StageResult{Stage: enums.FlowStageRelease, Reference: released.Reference, Fallback: released.Fallback}
}

func (c *Controller) entityLock(id string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[id] = lock
	}
	return lock
}

func (c *Controller) recordedProgress(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress[id]
}

func (c *Controller) markProgress(id string, position int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if position > c.progress[id] {
		c.progress[id] = position
	}
}

func (c *Controller) clearProgress(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.progress, id)
}
