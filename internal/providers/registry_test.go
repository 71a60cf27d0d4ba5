package providers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/minexafrica/tradeflow-backend/pkg/config"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/metrics"
)

func TestNewRegistryWiresEveryCapability(t *testing.T) {
	cfg := &config.Config{Provider: config.ProviderConfig{Timeout: time.Second}}
	reg := NewRegistry(cfg, nil, testLogger(), metrics.NewProviderMetrics(nil))

	if reg.Escrow == nil || reg.Telephony == nil || reg.TestingLab == nil ||
		reg.TradeFinance == nil || reg.Payouts == nil || reg.Notifier == nil {
		t.Fatalf("registry has nil facades: %+v", reg)
	}
}

func TestNotifierWithoutClientLogsOnly(t *testing.T) {
	n := NewNotifier(nil, config.PubSubConfig{NotificationTopic: "t"}, config.ProviderConfig{Timeout: time.Second}, testLogger(), metrics.NewProviderMetrics(nil))

	res := n.Publish(context.Background(), Notification{OrderID: "S-ORD-1", Event: "escrow.reserved"})

	if !res.Success || !res.Fallback {
		t.Fatalf("Result = %+v, want degraded success", res)
	}
}

func TestIssueLCGeneratesFreshNumbers(t *testing.T) {
	tf := NewTradeFinance(testLogger(), metrics.NewProviderMetrics(nil))

	first := tf.IssueLC(context.Background(), "S-ORD-1")
	second := tf.IssueLC(context.Background(), "S-ORD-1")

	if !first.Success || !second.Success {
		t.Fatalf("results = %+v / %+v, want success", first, second)
	}
	if !strings.HasPrefix(first.Reference, "LC-") {
		t.Fatalf("Reference = %s, want LC- prefix", first.Reference)
	}
	if first.Reference == second.Reference {
		t.Fatalf("re-issue returned the same number: %s", first.Reference)
	}
}

func TestAssignReturnsBookingReference(t *testing.T) {
	lab := NewTestingLab(testLogger(), metrics.NewProviderMetrics(nil))

	res := lab.Assign(context.Background(), "S-ORD-1", "SGS Johannesburg")

	if !res.Success || res.Fallback {
		t.Fatalf("Result = %+v, want success", res)
	}
	if res.Reference != "assay_S-ORD-1" {
		t.Fatalf("Reference = %s, want assay_S-ORD-1", res.Reference)
	}
}

func TestDisburseReturnsBatchReference(t *testing.T) {
	p := NewPayouts(testLogger(), metrics.NewProviderMetrics(nil))
	p.now = func() time.Time { return time.Unix(1767225600, 0) }

	res := p.Disburse(context.Background(), "TX-1", 1240500, enums.CurrencyUSD)

	if res.Reference != "payout_TX-1_1767225600" {
		t.Fatalf("Reference = %s, want payout_TX-1_1767225600", res.Reference)
	}
}
