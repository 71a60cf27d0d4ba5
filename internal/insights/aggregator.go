// Package insights derives dashboard summary figures by folding over a
// store snapshot. Every fold is total: absent or unparsable amounts count
// as zero, and reordering the input records never changes a sum.
package insights

import (
	"sort"

	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/money"
)

// CurrencyShare is one slice of the exposure breakdown.
type CurrencyShare struct {
	Currency    enums.Currency `json:"currency"`
	AmountMinor int64          `json:"amountMinor"`
	Share       float64        `json:"share"`
}

// Summary is the derived dashboard view of the current record set.
type Summary struct {
	EscrowReservedMinor int64  `json:"escrowReservedMinor"`
	EscrowReserved      string `json:"escrowReserved"`

	PendingReleaseMinor int64  `json:"pendingReleaseMinor"`
	PendingRelease      string `json:"pendingRelease"`

	SettledYTDMinor int64  `json:"settledYtdMinor"`
	SettledYTD      string `json:"settledYtd"`

	PlatformRevenueMinor int64  `json:"platformRevenueMinor"`
	PlatformRevenue      string `json:"platformRevenue"`

	FailedCount int `json:"failedCount"`

	CurrencyExposure []CurrencyShare `json:"currencyExposure"`
}

// Summarize folds the snapshot into dashboard figures.
func Summarize(snap store.Snapshot) Summary {
	var s Summary

	for _, order := range snap.Orders {
		if order.Status.IsTerminal() {
			continue
		}
		s.EscrowReservedMinor += order.AIEstimatedAmount.MinorUnits()
	}

	exposure := make(map[enums.Currency]int64)
	for _, tx := range snap.Transactions {
		amount := tx.FinalAmount.MinorUnits()
		switch tx.Status {
		case enums.TransactionStatusPending:
			s.PendingReleaseMinor += amount
		case enums.TransactionStatusCompleted:
			s.SettledYTDMinor += amount
			s.PlatformRevenueMinor += tx.ServiceFee.MinorUnits()
		case enums.TransactionStatusFailed:
			s.FailedCount++
		}
		if tx.Status != enums.TransactionStatusFailed {
			exposure[enums.NormalizeCurrency(string(tx.Currency))] += amount
		}
	}

	s.EscrowReserved = money.FormatCompact(s.EscrowReservedMinor)
	s.PendingRelease = money.FormatCompact(s.PendingReleaseMinor)
	s.SettledYTD = money.FormatCompact(s.SettledYTDMinor)
	s.PlatformRevenue = money.FormatCompact(s.PlatformRevenueMinor)
	s.CurrencyExposure = exposureShares(exposure)
	return s
}

// exposureShares turns the per-currency totals into a deterministic,
// largest-first breakdown with percentage shares.
func exposureShares(totals map[enums.Currency]int64) []CurrencyShare {
	var overall int64
	for _, amount := range totals {
		overall += amount
	}

	out := make([]CurrencyShare, 0, len(totals))
	for currency, amount := range totals {
		share := 0.0
		if overall != 0 {
			share = float64(amount) / float64(overall) * 100
		}
		out = append(out, CurrencyShare{Currency: currency, AmountMinor: amount, Share: share})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AmountMinor != out[j].AmountMinor {
			return out[i].AmountMinor > out[j].AmountMinor
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}
