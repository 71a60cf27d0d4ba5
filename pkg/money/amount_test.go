package money

import (
	"encoding/json"
	"testing"
)

func TestParseMinorUnits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"$1,234.50", 1235},
		{"", 0},
		{"garbage", 0},
		{"USD 500,000", 500000},
		{"-5", -5},
		{"  $0.49 ", 0},
		{"1.2.3", 0},
		{"--10", 0},
	}
	for _, tc := range cases {
		if got := ParseMinorUnits(tc.in); got != tc.want {
			t.Fatalf("ParseMinorUnits(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseMinorUnitsIsIdempotent(t *testing.T) {
	first := ParseMinorUnits("$1,234.50")
	second := ParseMinorUnits(FormatPlain(first))
	if first != second {
		t.Fatalf("reparse changed value: %d vs %d", first, second)
	}
}

func TestAmountUnmarshalNumber(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`-5`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := a.MinorUnits(); got != -5 {
		t.Fatalf("expected -5, got %d", got)
	}
}

func TestAmountUnmarshalString(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`"$500,000"`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := a.MinorUnits(); got != 500000 {
		t.Fatalf("expected 500000, got %d", got)
	}
}

func TestAmountUnmarshalNullAndMalformed(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`null`), &a); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !a.IsZero() {
		t.Fatalf("null should normalize to zero")
	}
}

func TestFormatCompact(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{1_000_000, "$1.0M"},
		{1_500_000_000, "$1.5B"},
		{500_000, "$500.0K"},
		{42, "$42"},
		{-2_000_000, "-$2.0M"},
		{0, "$0"},
	}
	for _, tc := range cases {
		if got := FormatCompact(tc.in); got != tc.want {
			t.Fatalf("FormatCompact(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
