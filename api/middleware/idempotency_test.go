package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/minexafrica/tradeflow-backend/pkg/logger"
)

type fakeIdempotencyStore struct {
	values map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{values: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func idempotentRouter(store *fakeIdempotencyStore, hits *atomic.Int64) *chi.Mux {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	r := chi.NewRouter()
	r.Use(Idempotency(store, logg))
	r.Post("/api/financial/reserve-escrow", func(w http.ResponseWriter, req *http.Request) {
		n := hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"success":true,"escrowId":"escrow_%d"}`, n)
	})
	return r
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	var hits atomic.Int64
	r := idempotentRouter(store, &hits)

	send := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/financial/reserve-escrow", strings.NewReader(`{"orderId":"B-ORD-1"}`))
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	second := send()

	if hits.Load() != 1 {
		t.Fatalf("handler hits = %d, want 1", hits.Load())
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay body %q differs from original %q", second.Body.String(), first.Body.String())
	}
	if ct := second.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("replay content type = %q", ct)
	}
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	store := newFakeIdempotencyStore()
	var hits atomic.Int64
	r := idempotentRouter(store, &hits)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/financial/reserve-escrow", strings.NewReader(`{"orderId":"B-ORD-1"}`))
	req.Header.Set("Idempotency-Key", "key-1")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/financial/reserve-escrow", strings.NewReader(`{"orderId":"B-ORD-2"}`))
	req.Header.Set("Idempotency-Key", "key-1")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("reused key status = %d, want 409", rec.Code)
	}
	if hits.Load() != 1 {
		t.Fatalf("handler hits = %d, want 1", hits.Load())
	}
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	store := newFakeIdempotencyStore()
	var hits atomic.Int64
	r := idempotentRouter(store, &hits)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/financial/reserve-escrow", strings.NewReader(`{"orderId":"B-ORD-1"}`))
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}
	if hits.Load() != 2 {
		t.Fatalf("handler hits = %d, want 2 without key", hits.Load())
	}
	if len(store.values) != 0 {
		t.Fatalf("store entries = %d, want 0 without key", len(store.values))
	}
}
