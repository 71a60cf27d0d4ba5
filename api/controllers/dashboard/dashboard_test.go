package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minexafrica/tradeflow-backend/internal/audit"
	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	store.SeedDemo(st)
	return st
}

func TestListTransactionsReturnsRows(t *testing.T) {
	st := seededStore(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)

	ListTransactions(st, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(envelope.Data) == 0 {
		t.Fatal("expected at least one transaction row")
	}
	if !strings.Contains(string(envelope.Data[0]), "orderId") {
		t.Fatalf("row missing orderId field: %s", envelope.Data[0])
	}
}

func TestMetricsIncludesCompactFigures(t *testing.T) {
	st := seededStore(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)

	Metrics(st, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, field := range []string{"escrowReserved", "pendingRelease", "settledYtd", "platformRevenue", "failedCount", "currencyExposure"} {
		if !strings.Contains(body, field) {
			t.Fatalf("metrics body missing %q: %s", field, body)
		}
	}
}

func TestGetOrderJoinsAuditAndLogistics(t *testing.T) {
	st := seededStore(t)
	aud := audit.NewLog()
	aud.Append("S-ORD-1", audit.Entry{
		Type:  audit.EntryTypeQR,
		Label: "QR payment request",
		Date:  time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC),
	})

	r := chi.NewRouter()
	r.Get("/api/v1/orders/{orderId}", GetOrder(st, aud, testLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/S-ORD-1", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var envelope struct {
		Data struct {
			Order       store.Order   `json:"order"`
			DisplayStep int           `json:"displayStep"`
			SentToUser  []audit.Entry `json:"sentToUser"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.Order.ID != "S-ORD-1" {
		t.Fatalf("order id = %q, want S-ORD-1", envelope.Data.Order.ID)
	}
	if len(envelope.Data.SentToUser) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(envelope.Data.SentToUser))
	}
}

func TestGetOrderUnknownReturns404(t *testing.T) {
	st := seededStore(t)
	r := chi.NewRouter()
	r.Get("/api/v1/orders/{orderId}", GetOrder(st, audit.NewLog(), testLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/NO-SUCH", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateEnquiryStatus(t *testing.T) {
	st := seededStore(t)
	r := chi.NewRouter()
	r.Patch("/api/v1/enquiries/{enquiryId}", UpdateEnquiryStatus(st, testLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/enquiries/ENQ-1", strings.NewReader(`{"status":"Resolved"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/enquiries/NO-SUCH", strings.NewReader(`{"status":"Resolved"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/enquiries/ENQ-1", strings.NewReader(`{"status":"Frozen"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for invalid status", rec.Code)
	}
}
