package enums

import "strings"

// Currency is the ISO code a monetary figure is denominated in. Codes
// arrive in mixed case from the wire; NormalizeCurrency is the single
// entry point.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyZAR Currency = "ZAR"
	CurrencyCNY Currency = "CNY"
	CurrencyAED Currency = "AED"
)

var validCurrencies = []Currency{
	CurrencyUSD,
	CurrencyEUR,
	CurrencyGBP,
	CurrencyZAR,
	CurrencyCNY,
	CurrencyAED,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// NormalizeCurrency uppercases raw input and falls back to USD when the
// code is missing or unrecognized. Monetary folds must never fail on a bad
// code.
func NormalizeCurrency(value string) Currency {
	c := Currency(strings.ToUpper(strings.TrimSpace(value)))
	if c.IsValid() {
		return c
	}
	return CurrencyUSD
}
