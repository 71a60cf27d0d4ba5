package providers

import (
	"cloud.google.com/go/pubsub/v2"

	"github.com/minexafrica/tradeflow-backend/pkg/config"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/metrics"
)

// Registry bundles every provider facade behind one handle for wiring.
type Registry struct {
	Escrow       *Escrow
	Telephony    *Telephony
	TestingLab   *TestingLab
	TradeFinance *TradeFinance
	Payouts      *Payouts
	Notifier     *Notifier
}

// NewRegistry builds all facades from config. pubsubClient may be nil for
// log-only notification delivery.
func NewRegistry(cfg *config.Config, pubsubClient *pubsub.Client, logg *logger.Logger, pm *metrics.ProviderMetrics) *Registry {
	return &Registry{
		Escrow:       NewEscrow(cfg.Escrow, cfg.Provider, logg, pm),
		Telephony:    NewTelephony(cfg.Telephony, cfg.Provider, logg, pm),
		TestingLab:   NewTestingLab(logg, pm),
		TradeFinance: NewTradeFinance(logg, pm),
		Payouts:      NewPayouts(logg, pm),
		Notifier:     NewNotifier(pubsubClient, cfg.PubSub, cfg.Provider, logg, pm),
	}
}
