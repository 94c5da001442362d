package constants

// OrderStatus is the status literal stored on order_lines rows.
type OrderStatus string

// Stable values (store these exact strings in DB).
const (
	OrderStatusActive OrderStatus = "active" // open for fulfillment
)

// Rejection is the business reason a purchase order could not be reconciled.
type Rejection string

const (
	RejectCancelledOrCompleted Rejection = "cancelled_or_completed" // some line is no longer active
	RejectNotFound             Rejection = "not_found"              // no rows at all for the PO number
	RejectNoActiveItems        Rejection = "no_active_items"        // joined active set came back empty
)

// Message returns the human readable text shown next to a rejection.
func (r Rejection) Message() string {
	switch r {
	case RejectCancelledOrCompleted:
		return "purchase order is cancelled or completed"
	case RejectNotFound:
		return "purchase order not found"
	case RejectNoActiveItems:
		return "no active items on purchase order"
	default:
		return string(r)
	}
}
