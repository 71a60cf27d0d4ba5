package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/minexafrica/tradeflow-backend/internal/audit"
	"github.com/minexafrica/tradeflow-backend/internal/flow"
	"github.com/minexafrica/tradeflow-backend/internal/mirror"
	"github.com/minexafrica/tradeflow-backend/internal/providers"
	"github.com/minexafrica/tradeflow-backend/internal/steps"
	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/config"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/metrics"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	cfg := &config.Config{Provider: config.ProviderConfig{Timeout: time.Second}}
	cfg.App.Env = "test"

	st := store.New()
	store.SeedDemo(st)
	registry := prometheus.NewRegistry()
	reg := providers.NewRegistry(cfg, nil, logg, metrics.NewProviderMetrics(registry))
	aud := audit.NewLog()
	mir := mirror.New(nil, logg)

	flowCtl, err := flow.NewController(st, reg, aud, mir, logg)
	if err != nil {
		t.Fatalf("flow.NewController: %v", err)
	}
	stepsCtl, err := steps.NewController(st, reg, aud, logg)
	if err != nil {
		t.Fatalf("steps.NewController: %v", err)
	}

	return NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		Store:    st,
		Audit:    aud,
		Flow:     flowCtl,
		Steps:    stepsCtl,
		Provider: reg,
		Mirror:   mir,
		Registry: registry,
	})
}

func TestRouterWiring(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "health live", method: http.MethodGet, path: "/health/live", want: http.StatusOK},
		{name: "health ready", method: http.MethodGet, path: "/health/ready", want: http.StatusOK},
		{name: "prometheus metrics", method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{name: "transactions list", method: http.MethodGet, path: "/api/v1/transactions", want: http.StatusOK},
		{name: "dashboard metrics", method: http.MethodGet, path: "/api/v1/metrics", want: http.StatusOK},
		{name: "order detail", method: http.MethodGet, path: "/api/v1/orders/S-ORD-1", want: http.StatusOK},
		{name: "payouts", method: http.MethodGet, path: "/api/v1/payouts", want: http.StatusOK},
		{name: "enquiries", method: http.MethodGet, path: "/api/v1/enquiries", want: http.StatusOK},
		{name: "reserve escrow", method: http.MethodPost, path: "/api/financial/reserve-escrow", body: `{"orderId":"B-ORD-1"}`, want: http.StatusOK},
		{name: "call buyer", method: http.MethodPost, path: "/api/financial/call-buyer", body: `{"orderId":"B-ORD-1"}`, want: http.StatusOK},
		{name: "transaction stage", method: http.MethodPost, path: "/api/v1/transactions/TX-1/stages/SendQR", want: http.StatusOK},
		{name: "order step", method: http.MethodPost, path: "/api/v1/orders/B-ORD-2/steps/SendQR", want: http.StatusOK},
		{name: "reserve escrow wrong method", method: http.MethodGet, path: "/api/financial/reserve-escrow", want: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nothing-here", want: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("%s %s = %d, want %d, body %s", tc.method, tc.path, rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestRouterEnquiryUpdate(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/enquiries/ENQ-2", strings.NewReader(`{"status":"In Progress"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}
