package order

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is an immutable snapshot of a purchased product
type Item struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal
}

// Order is a placed purchase with its price breakdown
type Order struct {
	shared.BaseAggregateRoot
	Number          string
	UserID          uuid.UUID
	Items           []Item
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Total           decimal.Decimal
	CouponID        *uuid.UUID
	CouponCode      string
	Fulfillment     Fulfillment
	DeliveryAddress string
	ContactPhone    string
	Notes           string
	Status          Status
	PaymentStatus   PaymentStatus
	CancelReason    string
	ConfirmedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	PaidAt          *time.Time
}

// Placement describes a new order before it is priced
type Placement struct {
	UserID          uuid.UUID
	Fulfillment     Fulfillment
	DeliveryAddress string
	ContactPhone    string
	Notes           string
}

// Validate checks the placement fields that do not depend on the cart
func (p Placement) Validate() error {
	if p.UserID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !p.Fulfillment.IsValid() {
		return shared.NewDomainError("INVALID_FULFILLMENT", "Fulfillment must be delivery or pickup")
	}
	if p.Fulfillment == FulfillmentDelivery && strings.TrimSpace(p.DeliveryAddress) == "" {
		return shared.NewDomainError("ADDRESS_REQUIRED", "Delivery address is required for delivery orders")
	}
	if len(p.Notes) > 1000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
	}
	return nil
}

// NewOrder builds a pending order from a validated placement, item snapshots and pricing
func NewOrder(p Placement, items []Item, pricing Pricing, coupon *Coupon) (*Order, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("CART_EMPTY", "Cannot place an order without items")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            GenerateNumber(time.Now()),
		UserID:            p.UserID,
		Subtotal:          pricing.Subtotal.Amount(),
		Discount:          pricing.Discount.Amount(),
		DeliveryFee:       pricing.DeliveryFee.Amount(),
		Total:             pricing.Total.Amount(),
		Fulfillment:       p.Fulfillment,
		ContactPhone:      strings.TrimSpace(p.ContactPhone),
		Notes:             strings.TrimSpace(p.Notes),
		Status:            StatusPending,
		PaymentStatus:     PaymentUnpaid,
	}
	if p.Fulfillment == FulfillmentDelivery {
		o.DeliveryAddress = strings.TrimSpace(p.DeliveryAddress)
	}
	if coupon != nil {
		o.CouponID = &coupon.ID
		o.CouponCode = coupon.Code
	}

	o.Items = make([]Item, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		it.ID = uuid.New()
		it.OrderID = o.ID
		it.LineTotal = valueobject.NewMoney(it.UnitPrice).MulInt(it.Quantity).Amount()
		o.Items = append(o.Items, it)
	}
	return o, nil
}

// NewItem snapshots a product line
func NewItem(productID uuid.UUID, name string, unitPrice decimal.Decimal, qty int) Item {
	return Item{
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   unitPrice,
		Quantity:    qty,
	}
}

// TransitionTo moves the order to target, stamping the matching timestamp
func (o *Order) TransitionTo(target Status) error {
	if target == StatusCancelled {
		return o.Cancel("")
	}
	if !o.Status.CanTransitionTo(target, o.Fulfillment) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}
	now := time.Now()
	switch target {
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusShipped:
		o.ShippedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	}
	o.Status = target
	o.IncrementVersion()
	return nil
}

// Cancel cancels a pending or confirmed order. The caller restores stock.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(StatusCancelled, o.Fulfillment) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelReason = strings.TrimSpace(reason)
	o.CancelledAt = &now
	o.IncrementVersion()
	return nil
}

// MarkPaid records that payment was received
func (o *Order) MarkPaid() error {
	if o.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot mark a cancelled order as paid")
	}
	if o.PaymentStatus != PaymentUnpaid {
		return shared.NewDomainError("INVALID_STATE", "Order is not awaiting payment")
	}
	now := time.Now()
	o.PaymentStatus = PaymentPaid
	o.PaidAt = &now
	o.IncrementVersion()
	return nil
}

// MarkRefunded records that a paid order was refunded
func (o *Order) MarkRefunded() error {
	if o.PaymentStatus != PaymentPaid {
		return shared.NewDomainError("INVALID_STATE", "Only paid orders can be refunded")
	}
	o.PaymentStatus = PaymentRefunded
	o.IncrementVersion()
	return nil
}

// IsOwnedBy reports whether the order belongs to userID
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// ItemCount returns the total number of units
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateNumber returns a human-facing order number like GS-20260115-K7M2QX
func GenerateNumber(now time.Time) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		copy(buf, uuid.New().String())
	}
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return "GS-" + now.Format("20060102") + "-" + string(buf)
}
