package enums

import "fmt"

// TestingRequirementStatus tracks a single assay document requirement on a
// sell order.
type TestingRequirementStatus string

const (
	TestingRequirementStatusPending  TestingRequirementStatus = "Pending"
	TestingRequirementStatusUploaded TestingRequirementStatus = "Uploaded"
)

var validTestingRequirementStatuses = []TestingRequirementStatus{
	TestingRequirementStatusPending,
	TestingRequirementStatusUploaded,
}

// String implements fmt.Stringer.
func (t TestingRequirementStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TestingRequirementStatus.
func (t TestingRequirementStatus) IsValid() bool {
	for _, candidate := range validTestingRequirementStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTestingRequirementStatus converts raw input into a
// TestingRequirementStatus.
func ParseTestingRequirementStatus(value string) (TestingRequirementStatus, error) {
	for _, candidate := range validTestingRequirementStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid testing requirement status %q", value)
}
