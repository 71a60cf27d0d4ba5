package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics records external capability invocations and the fallback
// path, so a synthesized reference is never silently indistinguishable from
// a provider-issued one.
type ProviderMetrics struct {
	duration  *prometheus.HistogramVec
	successes *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	timeouts  *prometheus.CounterVec
}

// NewProviderMetrics registers the provider metrics on the provided
// registerer. A nil registerer yields a no-op recorder.
func NewProviderMetrics(reg prometheus.Registerer) *ProviderMetrics {
	if reg == nil {
		return &ProviderMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_call_duration_seconds",
		Help:    "Duration of provider facade calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"capability"})
	successes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_call_success",
		Help: "Provider facade calls answered by the real provider.",
	}, []string{"capability"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_call_fallback",
		Help: "Provider facade calls served by the synthesized fallback.",
	}, []string{"capability"})
	timeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_call_timeout",
		Help: "Provider facade calls that hit the per-call timeout.",
	}, []string{"capability"})
	reg.MustRegister(duration, successes, fallbacks, timeouts)
	return &ProviderMetrics{
		duration:  duration,
		successes: successes,
		fallbacks: fallbacks,
		timeouts:  timeouts,
	}
}

// ObserveDuration records the duration for the named capability.
func (p *ProviderMetrics) ObserveDuration(capability string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(capability)).Observe(duration.Seconds())
}

// IncSuccess counts a call answered by the real provider.
func (p *ProviderMetrics) IncSuccess(capability string) {
	if p == nil || p.successes == nil {
		return
	}
	p.successes.WithLabelValues(normalizeLabel(capability)).Inc()
}

// IncFallback counts a call served by the synthesized fallback.
func (p *ProviderMetrics) IncFallback(capability string) {
	if p == nil || p.fallbacks == nil {
		return
	}
	p.fallbacks.WithLabelValues(normalizeLabel(capability)).Inc()
}

// IncTimeout counts a call that hit the per-call timeout.
func (p *ProviderMetrics) IncTimeout(capability string) {
	if p == nil || p.timeouts == nil {
		return
	}
	p.timeouts.WithLabelValues(normalizeLabel(capability)).Inc()
}

func normalizeLabel(capability string) string {
	if capability == "" {
		return "unknown"
	}
	return capability
}
