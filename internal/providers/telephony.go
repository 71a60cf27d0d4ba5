package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minexafrica/tradeflow-backend/pkg/config"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/metrics"
)

const capabilityTelephony = "telephony"

// Telephony places outbound calls and sends SMS through an HTTP voice
// provider. Without configuration every contact succeeds in degraded mode
// with an empty reference.
type Telephony struct {
	cfg     config.TelephonyConfig
	client  *http.Client
	timeout time.Duration
	logg    *logger.Logger
	metrics *metrics.ProviderMetrics
}

// NewTelephony builds the telephony facade.
func NewTelephony(cfg config.TelephonyConfig, provider config.ProviderConfig, logg *logger.Logger, pm *metrics.ProviderMetrics) *Telephony {
	return &Telephony{
		cfg:     cfg,
		client:  &http.Client{Timeout: provider.Timeout},
		timeout: provider.Timeout,
		logg:    logg,
		metrics: pm,
	}
}

type telephonyResponse struct {
	SID string `json:"sid"`
}

// Contact reaches the counterparty over voice or SMS. The returned
// reference is the provider call/message SID, empty in degraded mode.
func (t *Telephony) Contact(ctx context.Context, orderID, phone string, mode enums.ContactMode) Result {
	if !t.cfg.Configured() {
		t.metrics.IncFallback(capabilityTelephony)
		t.logg.Warn(t.logg.WithOrderID(ctx, orderID), "telephony provider not configured, contact recorded without dispatch")
		return degraded("")
	}

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("From", t.cfg.CallerID)
	form.Set("To", phone)
	form.Set("Mode", string(mode))
	form.Set("OrderRef", orderID)

	endpoint := strings.TrimRight(t.cfg.BaseURL, "/") + "/accounts/" + t.cfg.AccountSID + "/contacts"
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return t.fallback(ctx, orderID, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)

	start := time.Now()
	resp, err := t.client.Do(req)
	t.metrics.ObserveDuration(capabilityTelephony, time.Since(start))
	if err != nil {
		return t.fallback(ctx, orderID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return t.fallback(ctx, orderID, fmt.Errorf("telephony returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var parsed telephonyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return t.fallback(ctx, orderID, err)
	}

	t.metrics.IncSuccess(capabilityTelephony)
	return delivered(parsed.SID)
}

func (t *Telephony) fallback(ctx context.Context, orderID string, err error) Result {
	if errors.Is(err, context.DeadlineExceeded) {
		t.metrics.IncTimeout(capabilityTelephony)
	} else {
		t.metrics.IncFallback(capabilityTelephony)
	}
	t.logg.Warn(t.logg.WithOrderID(ctx, orderID), fmt.Sprintf("telephony dispatch failed, contact recorded without dispatch: %v", err))
	return degraded("")
}
