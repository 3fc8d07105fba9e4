package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptrDec(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func intPtr(n int) *int {
	return &n
}

func newTestCoupon(t *testing.T, typ CouponType, value string) *Coupon {
	t.Helper()
	c, err := NewCoupon(CouponDetails{
		Code:   "glow10",
		Type:   typ,
		Value:  d(value),
		Active: true,
	})
	require.NoError(t, err)
	return c
}

func TestCalculatePricing(t *testing.T) {
	rates := DeliveryRates{Fee: d("5.00"), FreeThreshold: d("100.00")}
	now := time.Now()

	tests := []struct {
		name        string
		lines       []PricingLine
		coupon      func(t *testing.T) *Coupon
		fulfillment Fulfillment
		rates       DeliveryRates
		want        [4]string // subtotal, discount, delivery, total
	}{
		{
			name:        "delivery below free threshold pays fee",
			lines:       []PricingLine{{UnitPrice: d("12.50"), Quantity: 2}, {UnitPrice: d("9.99"), Quantity: 1}},
			fulfillment: FulfillmentDelivery,
			rates:       rates,
			want:        [4]string{"34.99", "0.00", "5.00", "39.99"},
		},
		{
			name:        "pickup never pays delivery",
			lines:       []PricingLine{{UnitPrice: d("12.50"), Quantity: 2}},
			fulfillment: FulfillmentPickup,
			rates:       rates,
			want:        [4]string{"25.00", "0.00", "0.00", "25.00"},
		},
		{
			name:        "free delivery at threshold",
			lines:       []PricingLine{{UnitPrice: d("50.00"), Quantity: 2}},
			fulfillment: FulfillmentDelivery,
			rates:       rates,
			want:        [4]string{"100.00", "0.00", "0.00", "100.00"},
		},
		{
			name:  "discount can drop order below free threshold",
			lines: []PricingLine{{UnitPrice: d("50.00"), Quantity: 2}},
			coupon: func(t *testing.T) *Coupon {
				return newTestCoupon(t, CouponPercentage, "10")
			},
			fulfillment: FulfillmentDelivery,
			rates:       rates,
			want:        [4]string{"100.00", "10.00", "5.00", "95.00"},
		},
		{
			name:  "percentage discount capped by max discount",
			lines: []PricingLine{{UnitPrice: d("80.00"), Quantity: 1}},
			coupon: func(t *testing.T) *Coupon {
				c := newTestCoupon(t, CouponPercentage, "50")
				c.MaxDiscount = ptrDec("15.00")
				return c
			},
			fulfillment: FulfillmentPickup,
			rates:       rates,
			want:        [4]string{"80.00", "15.00", "0.00", "65.00"},
		},
		{
			name:  "fixed discount never exceeds subtotal",
			lines: []PricingLine{{UnitPrice: d("8.00"), Quantity: 1}},
			coupon: func(t *testing.T) *Coupon {
				return newTestCoupon(t, CouponFixed, "20")
			},
			fulfillment: FulfillmentDelivery,
			rates:       rates,
			want:        [4]string{"8.00", "8.00", "5.00", "5.00"},
		},
		{
			name:        "zero threshold disables free delivery",
			lines:       []PricingLine{{UnitPrice: d("500.00"), Quantity: 1}},
			fulfillment: FulfillmentDelivery,
			rates:       DeliveryRates{Fee: d("7.5")},
			want:        [4]string{"500.00", "0.00", "7.50", "507.50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := PricingInput{
				Lines:       tt.lines,
				Fulfillment: tt.fulfillment,
				Rates:       tt.rates,
				Now:         now,
			}
			if tt.coupon != nil {
				in.Coupon = tt.coupon(t)
			}

			got, err := CalculatePricing(in)
			require.NoError(t, err)
			assert.Equal(t, tt.want[0], got.Subtotal.String())
			assert.Equal(t, tt.want[1], got.Discount.String())
			assert.Equal(t, tt.want[2], got.DeliveryFee.String())
			assert.Equal(t, tt.want[3], got.Total.String())
		})
	}
}

func TestCalculatePricing_RejectsUnusableCoupon(t *testing.T) {
	now := time.Now()
	lines := []PricingLine{{UnitPrice: d("30.00"), Quantity: 1}}

	t.Run("minimum not met", func(t *testing.T) {
		c := newTestCoupon(t, CouponFixed, "5")
		c.MinOrderAmount = d("50")
		_, err := CalculatePricing(PricingInput{Lines: lines, Coupon: c, Fulfillment: FulfillmentPickup, Now: now})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 50.00")
	})

	t.Run("expired", func(t *testing.T) {
		c := newTestCoupon(t, CouponFixed, "5")
		past := now.Add(-time.Hour)
		c.ExpiresAt = &past
		_, err := CalculatePricing(PricingInput{Lines: lines, Coupon: c, Fulfillment: FulfillmentPickup, Now: now})
		assert.Error(t, err)
	})

	t.Run("exhausted", func(t *testing.T) {
		c := newTestCoupon(t, CouponFixed, "5")
		c.UsageLimit = intPtr(3)
		c.UsedCount = 3
		_, err := CalculatePricing(PricingInput{Lines: lines, Coupon: c, Fulfillment: FulfillmentPickup, Now: now})
		assert.Error(t, err)
	})

	t.Run("inactive", func(t *testing.T) {
		c := newTestCoupon(t, CouponFixed, "5")
		c.Active = false
		_, err := CalculatePricing(PricingInput{Lines: lines, Coupon: c, Fulfillment: FulfillmentPickup, Now: now})
		assert.Error(t, err)
	})
}

func TestNewCoupon_Validation(t *testing.T) {
	c := newTestCoupon(t, CouponPercentage, "10")
	assert.Equal(t, "GLOW10", c.Code)

	_, err := NewCoupon(CouponDetails{Code: "X", Type: CouponPercentage, Value: d("150")})
	assert.Error(t, err)

	_, err = NewCoupon(CouponDetails{Code: "X", Type: "bogus", Value: d("1")})
	assert.Error(t, err)

	_, err = NewCoupon(CouponDetails{Code: " ", Type: CouponFixed, Value: d("1")})
	assert.Error(t, err)

	c.UsedCount = 4
	err = c.Update(CouponDetails{Code: "GLOW10", Type: CouponPercentage, Value: d("10"), UsageLimit: intPtr(2)})
	assert.Error(t, err)
}
