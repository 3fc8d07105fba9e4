package order

import (
	"strings"
	"time"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CouponType selects how a coupon value is applied
type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

// IsValid checks if the coupon type is known
func (t CouponType) IsValid() bool {
	return t == CouponPercentage || t == CouponFixed
}

// Coupon is a discount code redeemable at checkout
type Coupon struct {
	shared.BaseAggregateRoot
	Code           string
	Description    string
	Type           CouponType
	Value          decimal.Decimal
	MinOrderAmount decimal.Decimal
	MaxDiscount    *decimal.Decimal
	UsageLimit     *int
	UsedCount      int
	StartsAt       *time.Time
	ExpiresAt      *time.Time
	Active         bool
}

// CouponDetails carries the editable fields of a coupon
type CouponDetails struct {
	Code           string
	Description    string
	Type           CouponType
	Value          decimal.Decimal
	MinOrderAmount decimal.Decimal
	MaxDiscount    *decimal.Decimal
	UsageLimit     *int
	StartsAt       *time.Time
	ExpiresAt      *time.Time
	Active         bool
}

// NewCoupon creates a coupon
func NewCoupon(d CouponDetails) (*Coupon, error) {
	c := &Coupon{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.apply(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields
func (c *Coupon) Update(d CouponDetails) error {
	if d.UsageLimit != nil && *d.UsageLimit < c.UsedCount {
		return shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit cannot be below the number of uses")
	}
	if err := c.apply(d); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *Coupon) apply(d CouponDetails) error {
	code := NormalizeCouponCode(d.Code)
	if code == "" || len(code) > 40 {
		return shared.NewDomainError("INVALID_COUPON_CODE", "Coupon code must be 1 to 40 characters")
	}
	if !d.Type.IsValid() {
		return shared.NewDomainError("INVALID_COUPON_TYPE", "Coupon type must be percentage or fixed")
	}
	if !d.Value.IsPositive() {
		return shared.NewDomainError("INVALID_COUPON_VALUE", "Coupon value must be greater than zero")
	}
	if d.Type == CouponPercentage && d.Value.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COUPON_VALUE", "Percentage cannot exceed 100")
	}
	if d.MinOrderAmount.IsNegative() {
		return shared.NewDomainError("INVALID_COUPON_VALUE", "Minimum order amount cannot be negative")
	}
	if d.MaxDiscount != nil && !d.MaxDiscount.IsPositive() {
		return shared.NewDomainError("INVALID_COUPON_VALUE", "Maximum discount must be greater than zero")
	}
	if d.UsageLimit != nil && *d.UsageLimit < 1 {
		return shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit must be at least 1")
	}
	if d.StartsAt != nil && d.ExpiresAt != nil && !d.ExpiresAt.After(*d.StartsAt) {
		return shared.NewDomainError("INVALID_COUPON_WINDOW", "Expiry must be after start")
	}

	c.Code = code
	c.Description = strings.TrimSpace(d.Description)
	c.Type = d.Type
	c.Value = d.Value
	c.MinOrderAmount = d.MinOrderAmount
	c.MaxDiscount = d.MaxDiscount
	c.UsageLimit = d.UsageLimit
	c.StartsAt = d.StartsAt
	c.ExpiresAt = d.ExpiresAt
	c.Active = d.Active
	return nil
}

// CheckRedeemable verifies the coupon can be used on a subtotal at time now
func (c *Coupon) CheckRedeemable(subtotal valueobject.Money, now time.Time) error {
	if !c.Active {
		return shared.NewDomainError("COUPON_INACTIVE", "Coupon is not active")
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return shared.NewDomainError("COUPON_NOT_STARTED", "Coupon is not yet valid")
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return shared.NewDomainError("COUPON_EXPIRED", "Coupon has expired")
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return shared.NewDomainError("COUPON_EXHAUSTED", "Coupon usage limit reached")
	}
	if subtotal.LessThan(valueobject.NewMoney(c.MinOrderAmount)) {
		return shared.NewDomainError("COUPON_MIN_NOT_MET",
			"Order subtotal must be at least "+valueobject.NewMoney(c.MinOrderAmount).String()+" to use this coupon")
	}
	return nil
}

// DiscountFor computes the discount granted on a subtotal, never above the subtotal
func (c *Coupon) DiscountFor(subtotal valueobject.Money) valueobject.Money {
	var discount valueobject.Money
	switch c.Type {
	case CouponPercentage:
		discount = subtotal.Percent(c.Value)
		if c.MaxDiscount != nil {
			discount = discount.Min(valueobject.NewMoney(*c.MaxDiscount))
		}
	default:
		discount = valueobject.NewMoney(c.Value)
	}
	return discount.Min(subtotal).NonNegative()
}

// NormalizeCouponCode trims and uppercases a code
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
