package store

import (
	"time"

	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/money"
)

// SeedDemo loads a deterministic fixture set covering both order types,
// every transaction status, and the read-only registries. Intended for
// local development and demo environments only.
func SeedDemo(s *Store) {
	base := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)

	s.PutRegistryUser(RegistryUser{ID: "user-aurora", Name: "Aurora Minerals Ltd", Country: "ZA"})
	s.PutRegistryUser(RegistryUser{ID: "user-kanshi", Name: "Kanshi Trading Co", Country: "CN"})
	s.PutRegistryUser(RegistryUser{ID: "user-gulfore", Name: "Gulf Ore FZE", Country: "AE"})

	s.PutOrder(Order{
		ID:                "S-ORD-1",
		Type:              enums.OrderTypeSell,
		Status:            enums.OrderStatusPriceConfirmed,
		CurrentStep:       1,
		EscrowStatus:      enums.EscrowStatusPending,
		AIEstimatedAmount: money.FromInt(84200000),
		Currency:          enums.CurrencyUSD,
		UserID:            "user-aurora",
		Mineral:           "Lithium (spodumene)",
		Quantity:          "120t",
		Facility:          "Rustenburg yard 4",
		DeliveryLocation:  "Durban port",
		TestingReqs: []TestingRequirement{
			{Label: "Assay certificate", Status: enums.TestingRequirementStatusPending},
			{Label: "Moisture report", Status: enums.TestingRequirementStatusPending},
		},
		CreatedAt: base,
	})
	s.PutOrder(Order{
		ID:                "B-ORD-1",
		Type:              enums.OrderTypeBuy,
		Status:            enums.OrderStatusAwaitingContact,
		CurrentStep:       1,
		EscrowStatus:      enums.EscrowStatusPending,
		AIEstimatedAmount: money.FromDisplay("$1,240,500.00"),
		Currency:          enums.CurrencyUSD,
		UserID:            "user-kanshi",
		Mineral:           "Copper cathode",
		Quantity:          "60t",
		DeliveryLocation:  "Shanghai",
		CreatedAt:         base.Add(26 * time.Hour),
	})
	s.PutOrder(Order{
		ID:                "B-ORD-2",
		Type:              enums.OrderTypeBuy,
		Status:            enums.OrderStatusSubmitted,
		CurrentStep:       1,
		EscrowStatus:      enums.EscrowStatusPending,
		AIEstimatedAmount: money.FromInt(310000),
		Currency:          enums.CurrencyAED,
		UserID:            "user-gulfore",
		Mineral:           "Tantalite",
		Quantity:          "8t",
		DeliveryLocation:  "Jebel Ali",
		CreatedAt:         base.Add(50 * time.Hour),
	})

	s.PutTransaction(Transaction{
		ID:          "TX-1",
		OrderID:     "S-ORD-1",
		OrderType:   enums.OrderTypeSell,
		Status:      enums.TransactionStatusPending,
		FinalAmount: money.FromInt(84200000),
		Currency:    enums.CurrencyUSD,
		ServiceFee:  money.FromInt(842000),
		CreatedAt:   base.Add(2 * time.Hour),
	})
	s.PutTransaction(Transaction{
		ID:          "TX-2",
		OrderID:     "B-ORD-1",
		OrderType:   enums.OrderTypeBuy,
		Status:      enums.TransactionStatusCompleted,
		FinalAmount: money.FromDisplay("$1,240,500.00"),
		Currency:    enums.CurrencyUSD,
		ServiceFee:  money.FromInt(12405),
		CreatedAt:   base.Add(28 * time.Hour),
	})
	s.PutTransaction(Transaction{
		ID:          "TX-3",
		OrderID:     "B-ORD-2",
		OrderType:   enums.OrderTypeBuy,
		Status:      enums.TransactionStatusFailed,
		FinalAmount: money.FromInt(310000),
		Currency:    enums.CurrencyAED,
		ServiceFee:  money.FromInt(3100),
		CreatedAt:   base.Add(52 * time.Hour),
	})

	s.PutLogistics(LogisticsDetails{
		OrderID:          "B-ORD-1",
		CarrierName:      "Maersk",
		TrackingNumber:   "MAEU2204481",
		TrackingURL:      "https://tracking.maersk.com/MAEU2204481",
		ShippingAmount:   money.FromInt(18400),
		ShippingCurrency: enums.CurrencyUSD,
		ContactEmail:     "ops@kanshi-trading.example",
	})

	s.PutPayout(Payout{
		ID:               "PAYOUT-2026-01",
		Date:             base.Add(72 * time.Hour),
		Label:            "January settlement batch",
		TotalAmount:      money.FromInt(1240500),
		TransactionCount: 1,
		Status:           enums.PayoutStatusReconciled,
	})
	s.PutPayout(Payout{
		ID:               "PAYOUT-2026-02",
		Date:             base.Add(240 * time.Hour),
		Label:            "February settlement batch",
		TotalAmount:      money.FromInt(84200000),
		TransactionCount: 1,
		Status:           enums.PayoutStatusPending,
	})

	s.PutEnquiry(Enquiry{
		ID:        "ENQ-1",
		OrderID:   "S-ORD-1",
		Subject:   "Assay lab availability",
		Status:    enums.EnquiryStatusOpen,
		CreatedAt: base.Add(4 * time.Hour),
	})
	txRef := "TX-3"
	s.PutEnquiry(Enquiry{
		ID:            "ENQ-2",
		OrderID:       "B-ORD-2",
		TransactionID: &txRef,
		Subject:       "Failed settlement follow-up",
		Status:        enums.EnquiryStatusInProgress,
		CreatedAt:     base.Add(54 * time.Hour),
	})
}
