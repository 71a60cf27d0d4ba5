package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	"github.com/minexafrica/tradeflow-backend/pkg/config"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/metrics"
)

const capabilityEscrow = "escrow"

// EscrowAPI is the subset of payment-provider operations the escrow facade
// needs. Extracted so tests can stub the provider.
type EscrowAPI interface {
	CreateHold(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	CaptureHold(ctx context.Context, id string, params *stripe.PaymentIntentCaptureParams) (*stripe.PaymentIntent, error)
}

type stripeEscrowAPI struct{}

func (stripeEscrowAPI) CreateHold(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}

func (stripeEscrowAPI) CaptureHold(ctx context.Context, id string, params *stripe.PaymentIntentCaptureParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.Capture(id, params)
}

// Escrow reserves and releases funds through the payment provider, falling
// back to deterministic local references when the provider is absent or
// failing.
type Escrow struct {
	api     EscrowAPI
	timeout time.Duration
	logg    *logger.Logger
	metrics *metrics.ProviderMetrics
	now     func() time.Time
}

// NewEscrow builds the escrow facade. With unconfigured credentials every
// call takes the fallback path.
func NewEscrow(cfg config.EscrowConfig, provider config.ProviderConfig, logg *logger.Logger, pm *metrics.ProviderMetrics) *Escrow {
	e := &Escrow{
		timeout: provider.Timeout,
		logg:    logg,
		metrics: pm,
		now:     time.Now,
	}
	if cfg.Configured() {
		stripe.Key = strings.TrimSpace(cfg.APIKey)
		e.api = stripeEscrowAPI{}
	}
	return e
}

// FallbackEscrowID derives the deterministic reference used when no real
// provider hold could be placed.
func FallbackEscrowID(orderID string, at time.Time) string {
	return fmt.Sprintf("escrow_%s_%d", orderID, at.Unix())
}

// Reserve places a hold for the given amount and always returns a usable
// escrow reference.
func (e *Escrow) Reserve(ctx context.Context, orderID string, amountMinor int64, currency enums.Currency) Result {
	if e.api == nil {
		return e.fallback(ctx, orderID, "escrow provider not configured", nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := e.now()
	intent, err := e.api.CreateHold(callCtx, &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountMinor),
		Currency:      stripe.String(strings.ToLower(string(currency))),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Description:   stripe.String(fmt.Sprintf("Escrow hold for order %s", orderID)),
		Metadata:      map[string]string{"order_id": orderID},
	})
	e.metrics.ObserveDuration(capabilityEscrow, e.now().Sub(start))
	if err != nil {
		return e.fallback(ctx, orderID, "escrow hold failed", err)
	}

	e.metrics.IncSuccess(capabilityEscrow)
	e.logg.Info(e.logg.WithOrderID(ctx, orderID), fmt.Sprintf("escrow hold placed: %s", intent.ID))
	return delivered(intent.ID)
}

// Release captures a previously placed hold. Unknown or locally generated
// references release in degraded mode.
func (e *Escrow) Release(ctx context.Context, orderID, escrowID string) Result {
	if e.api == nil || strings.HasPrefix(escrowID, "escrow_") {
		e.metrics.IncFallback(capabilityEscrow)
		e.logg.Warn(e.logg.WithOrderID(ctx, orderID), fmt.Sprintf("escrow release recorded locally for %s", escrowID))
		return degraded(escrowID)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := e.now()
	intent, err := e.api.CaptureHold(callCtx, escrowID, &stripe.PaymentIntentCaptureParams{})
	e.metrics.ObserveDuration(capabilityEscrow, e.now().Sub(start))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			e.metrics.IncTimeout(capabilityEscrow)
		} else {
			e.metrics.IncFallback(capabilityEscrow)
		}
		e.logg.Warn(e.logg.WithOrderID(ctx, orderID), fmt.Sprintf("escrow capture failed, releasing locally: %v", err))
		return degraded(escrowID)
	}

	e.metrics.IncSuccess(capabilityEscrow)
	return delivered(intent.ID)
}

func (e *Escrow) fallback(ctx context.Context, orderID, reason string, err error) Result {
	if errors.Is(err, context.DeadlineExceeded) {
		e.metrics.IncTimeout(capabilityEscrow)
	} else {
		e.metrics.IncFallback(capabilityEscrow)
	}
	ref := FallbackEscrowID(orderID, e.now())
	scoped := e.logg.WithOrderID(ctx, orderID)
	if err != nil {
		e.logg.Warn(scoped, fmt.Sprintf("%s (%v), using fallback reference %s", reason, err, ref))
	} else {
		e.logg.Warn(scoped, fmt.Sprintf("%s, using fallback reference %s", reason, ref))
	}
	return degraded(ref)
}
