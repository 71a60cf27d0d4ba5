// Package providers wraps every external capability behind a never-fail
// facade. Each call returns a usable Result even when the real provider is
// unreachable, misconfigured, or slow; degraded outcomes are marked with
// Fallback and surfaced through logs and metrics, never through errors.
package providers

// Result is the outcome of one provider call.
type Result struct {
	// Reference is the provider-issued identifier, or a deterministic
	// local one when the call fell back. May be empty for capabilities
	// with no reference (voice calls in degraded mode).
	Reference string `json:"reference,omitempty"`

	// Success reports that the workflow may proceed. Facades in this
	// package always set it; callers never branch on failure.
	Success bool `json:"success"`

	// Fallback marks a degraded outcome produced without the real
	// provider.
	Fallback bool `json:"fallback"`
}

func degraded(reference string) Result {
	return Result{Reference: reference, Success: true, Fallback: true}
}

func delivered(reference string) Result {
	return Result{Reference: reference, Success: true}
}
