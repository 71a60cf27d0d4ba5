// Package steps drives the short per-order pipeline that precedes or
// parallels settlement. Buy orders walk send QR, call buyer, reserve
// escrow; sell orders walk assay testing, LC issue, release. The step
// counter only ever moves forward.
package steps

import (
	"context"
	"fmt"
	"sync"

	"github.com/minexafrica/tradeflow-backend/internal/audit"
	"github.com/minexafrica/tradeflow-backend/internal/providers"
	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/minexafrica/tradeflow-backend/pkg/errors"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
)

// sellStepOffset shifts sell steps onto the shared six-step display scale.
const sellStepOffset = 3

// Progress reports the order's pipeline position after a completed stage.
type Progress struct {
	OrderID     string          `json:"order_id"`
	Stage       enums.FlowStage `json:"stage"`
	CurrentStep int             `json:"current_step"`
	DisplayStep int             `json:"display_step"`
	Reference   string          `json:"reference,omitempty"`
	Fallback    bool            `json:"fallback"`
}

// StageInput carries optional stage parameters from the trigger.
type StageInput struct {
	Phone                string
	Mode                 enums.ContactMode
	TestingLab           string
	TestingResultSummary *string
}

// Controller advances per-order step counters as stage actions complete.
type Controller struct {
	store     *store.Store
	providers *providers.Registry
	audit     *audit.Log
	logg      *logger.Logger

	// Lock entries stay for the life of the process so late retries keep
	// serializing on the same mutex.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewController validates and wires the controller's dependencies.
func NewController(st *store.Store, reg *providers.Registry, log *audit.Log, logg *logger.Logger) (*Controller, error) {
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
	return &Controller{
		store:     st,
		providers: reg,
		audit:     log,
		logg:      logg,
		locks:     make(map[string]*sync.Mutex),
	}, nil
}

// pipelineFor returns the ordered stages for an order type.
func pipelineFor(typ enums.OrderType) []enums.FlowStage {
	if typ == enums.OrderTypeSell {
		return []enums.FlowStage{enums.FlowStageTesting, enums.FlowStageLCIssued, enums.FlowStageRelease}
	}
	return []enums.FlowStage{enums.FlowStageSendQR, enums.FlowStageCallBuyer, enums.FlowStageReserveEscrow}
}

// DisplayStep maps a local step onto the shared six-step scale used by
// combined pipeline views.
func DisplayStep(typ enums.OrderType, localStep int) int {
	if typ == enums.OrderTypeSell {
		return sellStepOffset + localStep
	}
	return localStep
}

// Complete runs the stage's action for the order and advances its step
// counter. The counter never moves backwards; re-completing a stage at
// step 3 stays at 3.
func (c *Controller) Complete(ctx context.Context, orderID string, stage enums.FlowStage, input StageInput) (Progress, error) {
	if !stage.IsValid() {
		return Progress{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown stage %q", stage))
	}

	lock := c.entityLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	order, ok := c.store.GetOrder(orderID)
	if !ok {
		return Progress{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", orderID))
	}
	if !stageInPipeline(stage, order.Type) {
		return Progress{}, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("stage %s is not part of the %s pipeline", stage, order.Type),
		)
	}

	ctx = c.logg.WithStage(c.logg.WithOrderID(ctx, orderID), stage.String())

	var res providers.Result
	next := minStep(order.CurrentStep + 1)

	switch stage {
	case enums.FlowStageSendQR:
		res = c.providers.Notifier.Publish(ctx, providers.Notification{
			OrderID: order.ID,
			Event:   "qr.sent",
			Detail:  fmt.Sprintf("Payment QR issued for %s", order.Mineral),
		})
		c.audit.Append(order.ID, audit.Entry{
			Type:    audit.EntryTypeQR,
			Label:   "Payment QR sent",
			Channel: "email",
			Detail:  res.Reference,
		})
	case enums.FlowStageCallBuyer:
		mode := input.Mode
		if mode == "" {
			mode = enums.ContactModeVoice
		}
		res = c.providers.Telephony.Contact(ctx, order.ID, input.Phone, mode)
		c.audit.Append(order.ID, audit.Entry{
			Type:    audit.EntryTypeContact,
			Label:   "Buyer contacted",
			Channel: string(mode),
			Detail:  res.Reference,
		})
		// Funds already on hold mean the escrow step needs no further
		// user action; the contact closes out the pipeline.
		if order.EscrowStatus == enums.EscrowStatusReserved {
			next = store.MaxStep
		}
	case enums.FlowStageReserveEscrow:
		res = c.providers.Escrow.Reserve(ctx, order.ID, order.AIEstimatedAmount.MinorUnits(), enums.NormalizeCurrency(string(order.Currency)))
		order.EscrowStatus = enums.EscrowStatusReserved
		order.CurrentStep = next
		c.store.UpdateOrder(order)
		c.audit.Append(order.ID, audit.Entry{
			Type:   audit.EntryTypeEscrow,
			Label:  "Escrow reserved",
			Detail: res.Reference,
		})
		return c.progress(orderID, stage, res), nil
	case enums.FlowStageTesting:
		lab := input.TestingLab
		if lab == "" {
			lab = "Partner assay laboratory"
		}
		res = c.providers.TestingLab.Assign(ctx, order.ID, lab)
		c.store.SetOrderTesting(order.ID, order.Type, lab, input.TestingResultSummary)
	case enums.FlowStageLCIssued:
		res = c.providers.TradeFinance.IssueLC(ctx, order.ID)
		c.store.SetOrderLC(order.ID, order.Type, res.Reference)
	case enums.FlowStageRelease:
		res = c.providers.Escrow.Release(ctx, order.ID, "")
		order.EscrowStatus = enums.EscrowStatusPendingRelease
		order.Status = enums.OrderStatusCompleted
		order.CurrentStep = next
		c.store.UpdateOrder(order)
		c.audit.Append(order.ID, audit.Entry{
			Type:   audit.EntryTypeRelease,
			Label:  "Funds released",
			Detail: res.Reference,
		})
		return c.progress(orderID, stage, res), nil
	}

	c.store.SetOrderCurrentStep(orderID, order.Type, next)
	return c.progress(orderID, stage, res), nil
}

func (c *Controller) progress(orderID string, stage enums.FlowStage, res providers.Result) Progress {
	order, _ := c.store.GetOrder(orderID)
	return Progress{
		OrderID:     orderID,
		Stage:       stage,
		CurrentStep: order.CurrentStep,
		DisplayStep: DisplayStep(order.Type, order.CurrentStep),
		Reference:   res.Reference,
		Fallback:    res.Fallback,
	}
}

func stageInPipeline(stage enums.FlowStage, typ enums.OrderType) bool {
	for _, candidate := range pipelineFor(typ) {
		if candidate == stage {
			return true
		}
	}
	return false
}

func minStep(step int) int {
	if step > store.MaxStep {
		return store.MaxStep
	}
	return step
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
