package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minexafrica/tradeflow-backend/api/controllers"
	dashboardcontrollers "github.com/minexafrica/tradeflow-backend/api/controllers/dashboard"
	financialcontrollers "github.com/minexafrica/tradeflow-backend/api/controllers/financial"
	workflowcontrollers "github.com/minexafrica/tradeflow-backend/api/controllers/workflow"
	"github.com/minexafrica/tradeflow-backend/api/middleware"
	"github.com/minexafrica/tradeflow-backend/internal/audit"
	"github.com/minexafrica/tradeflow-backend/internal/flow"
	"github.com/minexafrica/tradeflow-backend/internal/mirror"
	"github.com/minexafrica/tradeflow-backend/internal/providers"
	"github.com/minexafrica/tradeflow-backend/internal/steps"
	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/config"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	pkgredis "github.com/minexafrica/tradeflow-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Optional backends
// (redis, database mirror, prometheus registry) may be nil.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    *store.Store
	Audit    *audit.Log
	Flow     *flow.Controller
	Steps    *steps.Controller
	Provider *providers.Registry
	Mirror   *mirror.Mirror
	Idem     pkgredis.IdempotencyStore
	Registry *prometheus.Registry
	Pingers  []controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Pingers...))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Legacy dashboard endpoints keep their original paths and flat
	// response shapes so existing clients stay working.
	r.Route("/api/financial", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Idem, logg))
		r.Post("/reserve-escrow", financialcontrollers.ReserveEscrow(deps.Store, deps.Provider, deps.Mirror, deps.Audit, logg))
		r.Post("/call-buyer", financialcontrollers.CallBuyer(deps.Provider, deps.Mirror, deps.Audit, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Idem, logg))

		r.Get("/transactions", dashboardcontrollers.ListTransactions(deps.Store, logg))
		r.Get("/metrics", dashboardcontrollers.Metrics(deps.Store, logg))
		r.Get("/payouts", dashboardcontrollers.ListPayouts(deps.Store, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/{orderId}", dashboardcontrollers.GetOrder(deps.Store, deps.Audit, logg))
			r.Post("/{orderId}/steps/{stage}", workflowcontrollers.CompleteOrderStep(deps.Steps, logg))
		})

		r.Route("/transactions/{transactionId}", func(r chi.Router) {
			r.Post("/stages/{stage}", workflowcontrollers.RunTransactionStage(deps.Flow, logg))
		})

		r.Route("/enquiries", func(r chi.Router) {
			r.Get("/", dashboardcontrollers.ListEnquiries(deps.Store, logg))
			r.Patch("/{enquiryId}", dashboardcontrollers.UpdateEnquiryStatus(deps.Store, logg))
		})
	})

	return r
}
