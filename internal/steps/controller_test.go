package steps

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/minexafrica/tradeflow-backend/internal/audit"
	"github.com/minexafrica/tradeflow-backend/internal/providers"
	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/config"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/minexafrica/tradeflow-backend/pkg/errors"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/metrics"
	"github.com/minexafrica/tradeflow-backend/pkg/money"
)

func newFixture(t *testing.T) (*store.Store, *Controller) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	st := store.New()
	cfg := &config.Config{Provider: config.ProviderConfig{Timeout: time.Second}}
	reg := providers.NewRegistry(cfg, nil, logg, metrics.NewProviderMetrics(nil))
	ctl, err := NewController(st, reg, audit.NewLog(), logg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return st, ctl
}

func seedBuyOrder(st *store.Store) {
	st.PutOrder(store.Order{
		ID:                "B-ORD-1",
		Type:              enums.OrderTypeBuy,
		Status:            enums.OrderStatusAwaitingContact,
		CurrentStep:       1,
		EscrowStatus:      enums.EscrowStatusPending,
		AIEstimatedAmount: money.FromInt(1240500),
		Currency:          enums.CurrencyUSD,
	})
}

func seedSellOrder(st *store.Store) {
	st.PutOrder(store.Order{
		ID:                "S-ORD-1",
		Type:              enums.OrderTypeSell,
		Status:            enums.OrderStatusPriceConfirmed,
		CurrentStep:       1,
		EscrowStatus:      enums.EscrowStatusPending,
		AIEstimatedAmount: money.FromInt(84200000),
		Currency:          enums.CurrencyUSD,
	})
}

func TestBuyPipelineAdvancesAndClamps(t *testing.T) {
	st, ctl := newFixture(t)
	seedBuyOrder(st)
	ctx := context.Background()

	p, err := ctl.Complete(ctx, "B-ORD-1", enums.FlowStageSendQR, StageInput{})
	if err != nil {
		t.Fatalf("send qr: %v", err)
	}
	if p.CurrentStep != 2 {
		t.Fatalf("CurrentStep = %d after send qr, want 2", p.CurrentStep)
	}

	p, err = ctl.Complete(ctx, "B-ORD-1", enums.FlowStageCallBuyer, StageInput{Phone: "+27101234567"})
	if err != nil {
		t.Fatalf("call buyer: %v", err)
	}
	if p.CurrentStep != 3 {
		t.Fatalf("CurrentStep = %d after call buyer, want 3", p.CurrentStep)
	}

	p, err = ctl.Complete(ctx, "B-ORD-1", enums.FlowStageReserveEscrow, StageInput{})
	if err != nil {
		t.Fatalf("reserve escrow: %v", err)
	}
	if p.CurrentStep != 3 {
		t.Fatalf("CurrentStep = %d after reserve escrow, want clamp at 3", p.CurrentStep)
	}

	order, _ := st.GetOrder("B-ORD-1")
	if order.EscrowStatus != enums.EscrowStatusReserved {
		t.Fatalf("EscrowStatus = %s, want Reserved", order.EscrowStatus)
	}
}

func TestContactClosesPipelineWhenEscrowAlreadyReserved(t *testing.T) {
	st, ctl := newFixture(t)
	seedBuyOrder(st)
	order, _ := st.GetOrder("B-ORD-1")
	order.EscrowStatus = enums.EscrowStatusReserved
	st.UpdateOrder(order)

	p, err := ctl.Complete(context.Background(), "B-ORD-1", enums.FlowStageCallBuyer, StageInput{})
	if err != nil {
		t.Fatalf("call buyer: %v", err)
	}
	if p.CurrentStep != 3 {
		t.Fatalf("CurrentStep = %d, want jump to 3 with escrow already reserved", p.CurrentStep)
	}
}

func TestSellPipelineReportsSharedScaleSteps(t *testing.T) {
	st, ctl := newFixture(t)
	seedSellOrder(st)
	ctx := context.Background()

	p, err := ctl.Complete(ctx, "S-ORD-1", enums.FlowStageTesting, StageInput{TestingLab: "SGS Johannesburg"})
	if err != nil {
		t.Fatalf("testing: %v", err)
	}
	if p.CurrentStep != 2 || p.DisplayStep != 5 {
		t.Fatalf("steps = %d/%d, want 2/5", p.CurrentStep, p.DisplayStep)
	}

	order, _ := st.GetOrder("S-ORD-1")
	if order.TestingLab == nil || *order.TestingLab != "SGS Johannesburg" {
		t.Fatalf("TestingLab = %v, want SGS Johannesburg", order.TestingLab)
	}

	p, err = ctl.Complete(ctx, "S-ORD-1", enums.FlowStageLCIssued, StageInput{})
	if err != nil {
		t.Fatalf("lc issued: %v", err)
	}
	if p.DisplayStep != 6 {
		t.Fatalf("DisplayStep = %d, want 6", p.DisplayStep)
	}

	p, err = ctl.Complete(ctx, "S-ORD-1", enums.FlowStageRelease, StageInput{})
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if p.CurrentStep != 3 {
		t.Fatalf("CurrentStep = %d, want 3", p.CurrentStep)
	}

	order, _ = st.GetOrder("S-ORD-1")
	if order.Status != enums.OrderStatusCompleted {
		t.Fatalf("Status = %s, want Completed", order.Status)
	}
	if order.EscrowStatus != enums.EscrowStatusPendingRelease {
		t.Fatalf("EscrowStatus = %s, want Pending Release", order.EscrowStatus)
	}
}

func TestStageOutsidePipelineIsRejected(t *testing.T) {
	st, ctl := newFixture(t)
	seedBuyOrder(st)

	_, err := ctl.Complete(context.Background(), "B-ORD-1", enums.FlowStageTesting, StageInput{})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeValidation {
		t.Fatalf("error = %v, want VALIDATION_ERROR", err)
	}
}

func TestCompleteUnknownOrderFails(t *testing.T) {
	_, ctl := newFixture(t)

	_, err := ctl.Complete(context.Background(), "ghost", enums.FlowStageSendQR, StageInput{})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}

func TestStepCounterNeverDecreases(t *testing.T) {
	st, ctl := newFixture(t)
	seedBuyOrder(st)
	st.SetOrderCurrentStep("B-ORD-1", enums.OrderTypeBuy, 3)

	p, err := ctl.Complete(context.Background(), "B-ORD-1", enums.FlowStageSendQR, StageInput{})
	if err != nil {
		t.Fatalf("send qr: %v", err)
	}
	if p.CurrentStep != 3 {
		t.Fatalf("CurrentStep = %d, want 3 preserved", p.CurrentStep)
	}
}
