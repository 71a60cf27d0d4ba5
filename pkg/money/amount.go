package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary figure as it crosses the external boundary: either a
// plain number or a display string carrying currency symbols and thousands
// separators ("$1,234.50"). Both forms normalize through the same parsing
// rule, so every consumer sees identical minor-unit values.
type Amount struct {
	kind    amountKind
	numeric decimal.Decimal
	text    string
}

type amountKind int

const (
	amountEmpty amountKind = iota
	amountNumeric
	amountText
)

// FromDecimal wraps a numeric amount.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{kind: amountNumeric, numeric: d}
}

// FromInt wraps a whole minor-unit amount.
func FromInt(v int64) Amount {
	return Amount{kind: amountNumeric, numeric: decimal.NewFromInt(v)}
}

// FromDisplay wraps a formatted display string.
func FromDisplay(s string) Amount {
	return Amount{kind: amountText, text: s}
}

// IsZero reports whether the amount is absent or normalizes to zero.
func (a Amount) IsZero() bool {
	return a.MinorUnits() == 0
}

// MinorUnits normalizes the amount to whole minor units. Unparsable input
// is zero; the operation is total and never fails.
func (a Amount) MinorUnits() int64 {
	switch a.kind {
	case amountNumeric:
		return a.numeric.Round(0).IntPart()
	case amountText:
		return ParseMinorUnits(a.text)
	default:
		return 0
	}
}

// Display renders the amount the way it arrived; numeric amounts render as
// their decimal form.
func (a Amount) Display() string {
	switch a.kind {
	case amountNumeric:
		return a.numeric.String()
	case amountText:
		return a.text
	default:
		return ""
	}
}

// UnmarshalJSON accepts a JSON number, a JSON string, or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*a = Amount{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = FromDisplay(s)
		return nil
	}
	d, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		// Malformed numerics normalize to zero rather than failing the
		// request.
		*a = Amount{}
		return nil
	}
	*a = FromDecimal(d)
	return nil
}

// MarshalJSON renders the amount in the form it was captured.
func (a Amount) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case amountNumeric:
		return []byte(a.numeric.String()), nil
	case amountText:
		return json.Marshal(a.text)
	default:
		return []byte("0"), nil
	}
}

// ParseMinorUnits applies the shared normalization rule to a display
// string: strip every character outside [0-9.-], parse, and round to the
// nearest whole minor unit. Unparsable input is zero.
func ParseMinorUnits(raw string) int64 {
	cleaned := stripNonNumeric(raw)
	if cleaned == "" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return d.Round(0).IntPart()
}

func stripNonNumeric(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPlain renders a minor-unit total as a bare decimal string.
func FormatPlain(minor int64) string {
	return strconv.FormatInt(minor, 10)
}

// FormatCompact renders a minor-unit total in the dashboard's compact form:
// "$1.0M", "$500.0K", "$42".
func FormatCompact(minor int64) string {
	sign := ""
	v := minor
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", sign, float64(v)/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, float64(v)/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, float64(v)/1_000)
	default:
		return fmt.Sprintf("%s$%d", sign, v)
	}
}
