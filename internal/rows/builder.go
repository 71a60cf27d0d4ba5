// Package rows projects the store's records into denormalized display
// rows. Building is a pure read over a snapshot; nothing here mutates
// state, so rows can be recomputed on every request.
package rows

import (
	"fmt"

	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/enums"
)

// placeholderName stands in when a userId does not resolve.
const placeholderName = "Unknown counterparty"

// Row is one denormalized line in the combined transactions view.
type Row struct {
	OrderID     string            `json:"orderId"`
	OrderType   enums.OrderType   `json:"orderType"`
	OrderStatus enums.OrderStatus `json:"orderStatus"`
	CurrentStep int               `json:"currentStep"`

	Mineral      string `json:"mineral"`
	Quantity     string `json:"quantity"`
	Counterparty string `json:"counterparty"`
	Country      string `json:"country,omitempty"`

	TransactionID     string                  `json:"transactionId,omitempty"`
	TransactionStatus enums.TransactionStatus `json:"transactionStatus,omitempty"`
	Amount            string                  `json:"amount"`
	Currency          enums.Currency          `json:"currency"`
	EscrowStatus      enums.EscrowStatus      `json:"escrowStatus"`
	EscrowID          string                  `json:"escrowId,omitempty"`

	LCSummary      string `json:"lcSummary"`
	TestingSummary string `json:"testingSummary,omitempty"`
	HasLogistics   bool   `json:"hasLogistics"`
}

// Build joins orders with their latest transaction, counterparty, and
// logistics presence. Rows come back in order insertion order; inputs are
// never modified.
func Build(snap store.Snapshot) []Row {
	latestTx := make(map[string]store.Transaction, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		// Later transactions for the same order replace earlier ones;
		// snapshot order is insertion order.
		latestTx[tx.OrderID] = tx
	}

	out := make([]Row, 0, len(snap.Orders))
	for _, order := range snap.Orders {
		row := Row{
			OrderID:        order.ID,
			OrderType:      order.Type,
			OrderStatus:    order.Status,
			CurrentStep:    order.CurrentStep,
			Mineral:        order.Mineral,
			Quantity:       order.Quantity,
			Counterparty:   placeholderName,
			Amount:         order.AIEstimatedAmount.Display(),
			Currency:       order.Currency,
			EscrowStatus:   order.EscrowStatus,
			LCSummary:      lcSummary(order),
			TestingSummary: testingSummary(order),
		}

		if user, ok := snap.Users[order.UserID]; ok {
			row.Counterparty = user.Name
			row.Country = user.Country
		}
		if tx, ok := latestTx[order.ID]; ok {
			row.TransactionID = tx.ID
			row.TransactionStatus = tx.Status
			if !tx.FinalAmount.IsZero() {
				row.Amount = tx.FinalAmount.Display()
				row.Currency = tx.Currency
			}
			if tx.EscrowID != nil {
				row.EscrowID = *tx.EscrowID
			}
		}
		if _, ok := snap.Logistics[order.ID]; ok {
			row.HasLogistics = true
		}

		out = append(out, row)
	}
	return out
}

func lcSummary(order store.Order) string {
	if order.LCNumber == nil {
		return "No LC issued"
	}
	return *order.LCNumber
}

func testingSummary(order store.Order) string {
	if order.Type != enums.OrderTypeSell {
		return ""
	}
	if order.TestingLab == nil {
		return "Awaiting lab assignment"
	}
	if len(order.TestingReqs) == 0 {
		return *order.TestingLab
	}
	uploaded := 0
	for _, req := range order.TestingReqs {
		if req.Status == enums.TestingRequirementStatusUploaded {
			uploaded++
		}
	}
	return fmt.Sprintf("%s (%d/%d uploaded)", *order.TestingLab, uploaded, len(order.TestingReqs))
}
