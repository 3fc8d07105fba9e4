package order

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusProcessing     Status = "processing"
	StatusShipped        Status = "shipped"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// AllStatuses lists every order status in lifecycle order
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusReadyForPickup,
	StatusDelivered,
	StatusCancelled,
}

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo checks if the status can move to target for the given fulfillment
func (s Status) CanTransitionTo(target Status, f Fulfillment) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		if f == FulfillmentPickup {
			return target == StatusReadyForPickup
		}
		return target == StatusShipped
	case StatusShipped, StatusReadyForPickup:
		return target == StatusDelivered
	}
	return false
}

// PaymentStatus tracks settlement, recorded manually by staff
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValid checks if the payment status is known
func (p PaymentStatus) IsValid() bool {
	return p == PaymentUnpaid || p == PaymentPaid || p == PaymentRefunded
}

// Fulfillment is how the customer receives the order
type Fulfillment string

const (
	FulfillmentDelivery Fulfillment = "delivery"
	FulfillmentPickup   Fulfillment = "pickup"
)

// IsValid checks if the fulfillment method is known
func (f Fulfillment) IsValid() bool {
	return f == FulfillmentDelivery || f == FulfillmentPickup
}
