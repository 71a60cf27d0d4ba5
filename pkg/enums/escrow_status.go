package enums

import "fmt"

// EscrowStatus tracks the escrow position of an order's funds.
type EscrowStatus string

const (
	EscrowStatusPending        EscrowStatus = "Pending"
	EscrowStatusReserved       EscrowStatus = "Reserved"
	EscrowStatusPendingRelease EscrowStatus = "Pending Release"
)

var validEscrowStatuses = []EscrowStatus{
	EscrowStatusPending,
	EscrowStatusReserved,
	EscrowStatusPendingRelease,
}

// String implements fmt.Stringer.
func (e EscrowStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EscrowStatus.
func (e EscrowStatus) IsValid() bool {
	for _, candidate := range validEscrowStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEscrowStatus converts raw input into an EscrowStatus.
func ParseEscrowStatus(value string) (EscrowStatus, error) {
	for _, candidate := range validEscrowStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid escrow status %q", value)
}
