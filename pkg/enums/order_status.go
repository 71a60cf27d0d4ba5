package enums

// OrderStatus tracks the lifecycle of an order. The set is open-ended:
// upstream systems may introduce new display statuses, so unknown values
// are carried through rather than rejected.
type OrderStatus string

const (
	OrderStatusSubmitted        OrderStatus = "Order Submitted"
	OrderStatusAwaitingContact  OrderStatus = "Awaiting Team Contact"
	OrderStatusPriceConfirmed   OrderStatus = "Price Confirmed"
	OrderStatusPaymentInitiated OrderStatus = "Payment Initiated"
	OrderStatusOrderCompleted   OrderStatus = "Order Completed"
	OrderStatusCompleted        OrderStatus = "Completed"
	OrderStatusCancelled        OrderStatus = "Cancelled"
	OrderStatusFailed           OrderStatus = "Failed"
)

var terminalOrderStatuses = []OrderStatus{
	OrderStatusOrderCompleted,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusFailed,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsTerminal reports whether the order has reached a final state. Escrow
// folds only count orders that are still in flight.
func (o OrderStatus) IsTerminal() bool {
	for _, candidate := range terminalOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}
