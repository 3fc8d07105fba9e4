package order

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRequest places an order from the caller's cart
type CheckoutRequest struct {
	Fulfillment     string `json:"fulfillment" binding:"required,oneof=delivery pickup"`
	DeliveryAddress string `json:"delivery_address" binding:"required_if=Fulfillment delivery,max=500"`
	ContactPhone    string `json:"contact_phone" binding:"required,phone"`
	Notes           string `json:"notes" binding:"max=1000"`
	CouponCode      string `json:"coupon_code" binding:"max=50"`
}

// PreviewLine is a priced cart line in a checkout preview
type PreviewLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PreviewResponse is the pricing a checkout would produce right now
type PreviewResponse struct {
	Items       []PreviewLine   `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	CouponCode  string          `json:"coupon_code,omitempty"`
}

// OrderListFilter represents order listing parameters
type OrderListFilter struct {
	Status        string     `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped ready_for_pickup delivered cancelled"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=unpaid paid refunded"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Search        string     `form:"search"`
	OrderBy       string     `form:"order_by" binding:"omitempty,oneof=created_at number total status"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest moves an order through its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed processing shipped ready_for_pickup delivered cancelled"`
	Reason string `json:"reason" binding:"max=500"`
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderItemResponse is a snapshotted order line
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	Number          string              `json:"number"`
	UserID          uuid.UUID           `json:"user_id"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Discount        decimal.Decimal     `json:"discount"`
	DeliveryFee     decimal.Decimal     `json:"delivery_fee"`
	Total           decimal.Decimal     `json:"total"`
	CouponCode      string              `json:"coupon_code,omitempty"`
	Fulfillment     string              `json:"fulfillment"`
	DeliveryAddress string              `json:"delivery_address,omitempty"`
	ContactPhone    string              `json:"contact_phone"`
	Notes           string              `json:"notes,omitempty"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal,
		})
	}
	return OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		UserID:          o.UserID,
		Items:           items,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		CouponCode:      o.CouponCode,
		Fulfillment:     string(o.Fulfillment),
		DeliveryAddress: o.DeliveryAddress,
		ContactPhone:    o.ContactPhone,
		Notes:           o.Notes,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		CancelReason:    o.CancelReason,
		ConfirmedAt:     o.ConfirmedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		PaidAt:          o.PaidAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// CouponRequest carries the editable fields of a coupon
type CouponRequest struct {
	Code           string           `json:"code" binding:"required,min=3,max=50,alphanum"`
	Description    string           `json:"description" binding:"max=500"`
	Type           string           `json:"type" binding:"required,oneof=percentage fixed"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount decimal.Decimal  `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `json:"max_discount"`
	UsageLimit     *int             `json:"usage_limit" binding:"omitempty,min=1"`
	StartsAt       *time.Time       `json:"starts_at"`
	ExpiresAt      *time.Time       `json:"expires_at"`
	Active         *bool            `json:"active"`
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Description    string           `json:"description"`
	Type           string           `json:"type"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount decimal.Decimal  `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `json:"max_discount,omitempty"`
	UsageLimit     *int             `json:"usage_limit,omitempty"`
	UsedCount      int              `json:"used_count"`
	StartsAt       *time.Time       `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	Active         bool             `json:"active"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ToCouponResponse converts a domain Coupon to CouponResponse
func ToCouponResponse(c *order.Coupon) CouponResponse {
	return CouponResponse{
		ID:             c.ID,
		Code:           c.Code,
		Description:    c.Description,
		Type:           string(c.Type),
		Value:          c.Value,
		MinOrderAmount: c.MinOrderAmount,
		MaxDiscount:    c.MaxDiscount,
		UsageLimit:     c.UsageLimit,
		UsedCount:      c.UsedCount,
		StartsAt:       c.StartsAt,
		ExpiresAt:      c.ExpiresAt,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
	}
}

func (r CouponRequest) details() order.CouponDetails {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return order.CouponDetails{
		Code:           r.Code,
		Description:    r.Description,
		Type:           order.CouponType(r.Type),
		Value:          r.Value,
		MinOrderAmount: r.MinOrderAmount,
		MaxDiscount:    r.MaxDiscount,
		UsageLimit:     r.UsageLimit,
		StartsAt:       r.StartsAt,
		ExpiresAt:      r.ExpiresAt,
		Active:         active,
	}
}

// CouponListFilter represents coupon listing parameters
type CouponListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ValidateCouponRequest checks a code against a cart subtotal
type ValidateCouponRequest struct {
	Code     string          `json:"code" binding:"required,max=50"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ValidateCouponResponse reports whether a code applies and what it is worth
type ValidateCouponResponse struct {
	Valid    bool            `json:"valid"`
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Reason   string          `json:"reason,omitempty"`
	// ReasonCode is the machine-readable rejection, e.g. COUPON_EXPIRED
	ReasonCode string `json:"reason_code,omitempty"`
}
