package store

import (
	"time"

	"github.com/minexafrica/tradeflow-backend/pkg/enums"
	"github.com/minexafrica/tradeflow-backend/pkg/money"
)

// TestingRequirement is one assay document a sell order must produce.
type TestingRequirement struct {
	Label  string                         `json:"label"`
	Status enums.TestingRequirementStatus `json:"status"`
}

// Order is one buy/sell intent moving through the workflow.
type Order struct {
	ID   string          `json:"id"`
	Type enums.OrderType `json:"type"`

	Status      enums.OrderStatus `json:"status"`
	CurrentStep int               `json:"current_step"`

	EscrowStatus      enums.EscrowStatus `json:"escrow_status"`
	AIEstimatedAmount money.Amount       `json:"ai_estimated_amount"`
	Currency          enums.Currency     `json:"currency"`

	LCNumber *string `json:"lc_number,omitempty"`

	TestingLab           *string              `json:"testing_lab,omitempty"`
	TestingResultSummary *string              `json:"testing_result_summary,omitempty"`
	TestingReqs          []TestingRequirement `json:"testing_reqs,omitempty"`

	UserID           string `json:"user_id"`
	Mineral          string `json:"mineral"`
	Quantity         string `json:"quantity"`
	Facility         string `json:"facility"`
	DeliveryLocation string `json:"delivery_location"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o Order) clone() Order {
	out := o
	out.LCNumber = cloneStringPtr(o.LCNumber)
	out.TestingLab = cloneStringPtr(o.TestingLab)
	out.TestingResultSummary = cloneStringPtr(o.TestingResultSummary)
	if o.TestingReqs != nil {
		out.TestingReqs = make([]TestingRequirement, len(o.TestingReqs))
		copy(out.TestingReqs, o.TestingReqs)
	}
	return out
}

// Transaction is one settlement instance referencing exactly one order.
type Transaction struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	OrderType enums.OrderType `json:"order_type"`

	Status      enums.TransactionStatus `json:"status"`
	FinalAmount money.Amount            `json:"final_amount"`
	Currency    enums.Currency          `json:"currency"`
	ServiceFee  money.Amount            `json:"service_fee"`

	EscrowID *string `json:"escrow_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t Transaction) clone() Transaction {
	out := t
	out.EscrowID = cloneStringPtr(t.EscrowID)
	return out
}

// LogisticsDetails is the zero-or-one shipping record attached to an order.
type LogisticsDetails struct {
	OrderID          string         `json:"order_id"`
	CarrierName      string         `json:"carrier_name"`
	TrackingNumber   string         `json:"tracking_number"`
	TrackingURL      string         `json:"tracking_url"`
	ShippingAmount   money.Amount   `json:"shipping_amount"`
	ShippingCurrency enums.Currency `json:"shipping_currency"`
	ContactEmail     string         `json:"contact_email"`
}

// Payout is a settlement batch created by an external job; the core only
// reads it.
type Payout struct {
	ID               string             `json:"id"`
	Date             time.Time          `json:"date"`
	Label            string             `json:"label"`
	TotalAmount      money.Amount       `json:"total_amount"`
	TransactionCount int                `json:"transaction_count"`
	Status           enums.PayoutStatus `json:"status"`
}

// Enquiry is a support ticket linked to an order or transaction. Only its
// status is writable from the core.
type Enquiry struct {
	ID            string              `json:"id"`
	OrderID       string              `json:"order_id"`
	TransactionID *string             `json:"transaction_id,omitempty"`
	Subject       string              `json:"subject"`
	Status        enums.EnquiryStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
}

func (e Enquiry) clone() Enquiry {
	out := e
	out.TransactionID = cloneStringPtr(e.TransactionID)
	return out
}

// RegistryUser is read-only counterparty reference data.
type RegistryUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
