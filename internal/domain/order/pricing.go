package order

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PricingLine is a priced product line used as pricing input
type PricingLine struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// DeliveryRates are the store-wide delivery settings
type DeliveryRates struct {
	Fee decimal.Decimal
	// FreeThreshold enables free delivery when positive and the discounted
	// subtotal reaches it
	FreeThreshold decimal.Decimal
}

// PricingInput collects everything needed to price an order
type PricingInput struct {
	Lines       []PricingLine
	Coupon      *Coupon
	Fulfillment Fulfillment
	Rates       DeliveryRates
	Now         time.Time
}

// Pricing is the computed breakdown of an order total
type Pricing struct {
	Subtotal    valueobject.Money
	Discount    valueobject.Money
	DeliveryFee valueobject.Money
	Total       valueobject.Money
}

// CalculatePricing prices a set of lines.
//
//	subtotal = sum(unit price * qty)
//	discount = coupon discount, capped at subtotal
//	delivery = 0 for pickup, 0 above the free threshold, else the flat fee
//	total    = max(subtotal - discount + delivery, 0)
func CalculatePricing(in PricingInput) (Pricing, error) {
	subtotal := valueobject.Zero()
	for _, l := range in.Lines {
		subtotal = subtotal.Add(valueobject.NewMoney(l.UnitPrice).MulInt(l.Quantity))
	}

	discount := valueobject.Zero()
	if in.Coupon != nil {
		if err := in.Coupon.CheckRedeemable(subtotal, in.Now); err != nil {
			return Pricing{}, err
		}
		discount = in.Coupon.DiscountFor(subtotal)
	}

	afterDiscount := subtotal.Sub(discount)

	fee := valueobject.Zero()
	if in.Fulfillment == FulfillmentDelivery {
		fee = valueobject.NewMoney(in.Rates.Fee).NonNegative()
		threshold := valueobject.NewMoney(in.Rates.FreeThreshold)
		if threshold.IsPositive() && afterDiscount.GreaterThanOrEqual(threshold) {
			fee = valueobject.Zero()
		}
	}

	return Pricing{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: fee,
		Total:       afterDiscount.Add(fee).NonNegative(),
	}, nil
}
