package enums

import (
	"fmt"
	"strings"
	"unicode"
)

// FlowStage names one of the six ordered stages of the financial pipeline.
type FlowStage string

const (
	FlowStageSendQR        FlowStage = "send_qr"
	FlowStageCallBuyer     FlowStage = "call_buyer"
	FlowStageReserveEscrow FlowStage = "reserve_escrow"
	FlowStageTesting       FlowStage = "testing"
	FlowStageLCIssued      FlowStage = "lc_issued"
	FlowStageRelease       FlowStage = "release"
)

var orderedFlowStages = []FlowStage{
	FlowStageSendQR,
	FlowStageCallBuyer,
	FlowStageReserveEscrow,
	FlowStageTesting,
	FlowStageLCIssued,
	FlowStageRelease,
}

// OrderedFlowStages returns the pipeline stages in execution order.
func OrderedFlowStages() []FlowStage {
	out := make([]FlowStage, len(orderedFlowStages))
	copy(out, orderedFlowStages)
	return out
}

// String implements fmt.Stringer.
func (f FlowStage) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FlowStage.
func (f FlowStage) IsValid() bool {
	for _, candidate := range orderedFlowStages {
		if candidate == f {
			return true
		}
	}
	return false
}

// Position returns the 1-based position of the stage in the pipeline, or 0
// for an unknown stage.
func (f FlowStage) Position() int {
	for i, candidate := range orderedFlowStages {
		if candidate == f {
			return i + 1
		}
	}
	return 0
}

// ParseFlowStage converts raw input into a FlowStage. Route tokens arrive
// in several spellings (reserve_escrow, reserve-escrow, ReserveEscrow), so
// matching ignores case and separators. "lc" is accepted as shorthand for
// lc_issued.
func ParseFlowStage(value string) (FlowStage, error) {
	key := normalizeStageToken(value)
	if key == "lc" {
		return FlowStageLCIssued, nil
	}
	for _, candidate := range orderedFlowStages {
		if normalizeStageToken(string(candidate)) == key {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid flow stage %q", value)
}

func normalizeStageToken(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return -1
		}
		return unicode.ToLower(r)
	}, value)
}
