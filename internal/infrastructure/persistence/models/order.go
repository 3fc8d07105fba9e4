package models

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	AggregateModel
	Number          string              `gorm:"type:varchar(30);not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items           []OrderItemModel    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Discount        decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	DeliveryFee     decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	CouponID        *uuid.UUID          `gorm:"type:uuid"`
	CouponCode      string              `gorm:"type:varchar(40)"`
	Fulfillment     order.Fulfillment   `gorm:"type:varchar(20);not null"`
	DeliveryAddress string              `gorm:"type:text"`
	ContactPhone    string              `gorm:"type:varchar(30)"`
	Notes           string              `gorm:"type:text"`
	Status          order.Status        `gorm:"type:varchar(20);not null;index"`
	PaymentStatus   order.PaymentStatus `gorm:"type:varchar(20);not null"`
	CancelReason    string              `gorm:"type:text"`
	ConfirmedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	PaidAt          *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is a purchased line snapshot.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		UserID:            m.UserID,
		Subtotal:          m.Subtotal,
		Discount:          m.Discount,
		DeliveryFee:       m.DeliveryFee,
		Total:             m.Total,
		CouponID:          m.CouponID,
		CouponCode:        m.CouponCode,
		Fulfillment:       m.Fulfillment,
		DeliveryAddress:   m.DeliveryAddress,
		ContactPhone:      m.ContactPhone,
		Notes:             m.Notes,
		Status:            m.Status,
		PaymentStatus:     m.PaymentStatus,
		CancelReason:      m.CancelReason,
		ConfirmedAt:       m.ConfirmedAt,
		ShippedAt:         m.ShippedAt,
		DeliveredAt:       m.DeliveredAt,
		CancelledAt:       m.CancelledAt,
		PaidAt:            m.PaidAt,
		Items:             make([]order.Item, 0, len(m.Items)),
	}
	for _, it := range m.Items {
		o.Items = append(o.Items, order.Item{
			ID:          it.ID,
			OrderID:     it.OrderID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal,
		})
	}
	return o
}

// OrderModelFromDomain creates a persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		Number:          o.Number,
		UserID:          o.UserID,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		CouponID:        o.CouponID,
		CouponCode:      o.CouponCode,
		Fulfillment:     o.Fulfillment,
		DeliveryAddress: o.DeliveryAddress,
		ContactPhone:    o.ContactPhone,
		Notes:           o.Notes,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		CancelReason:    o.CancelReason,
		ConfirmedAt:     o.ConfirmedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		PaidAt:          o.PaidAt,
		Items:           make([]OrderItemModel, 0, len(o.Items)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for _, it := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:          it.ID,
			OrderID:     o.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal,
		})
	}
	return m
}

// CouponModel is the persistence model for the Coupon aggregate.
type CouponModel struct {
	AggregateModel
	Code           string           `gorm:"type:varchar(40);not null;uniqueIndex"`
	Description    string           `gorm:"type:text"`
	Type           order.CouponType `gorm:"type:varchar(20);not null"`
	Value          decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MinOrderAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	MaxDiscount    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	UsageLimit     *int
	UsedCount      int `gorm:"not null;default:0"`
	StartsAt       *time.Time
	ExpiresAt      *time.Time
	Active         bool `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the persistence model to a domain Coupon.
func (m *CouponModel) ToDomain() *order.Coupon {
	return &order.Coupon{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Description:       m.Description,
		Type:              m.Type,
		Value:             m.Value,
		MinOrderAmount:    m.MinOrderAmount,
		MaxDiscount:       m.MaxDiscount,
		UsageLimit:        m.UsageLimit,
		UsedCount:         m.UsedCount,
		StartsAt:          m.StartsAt,
		ExpiresAt:         m.ExpiresAt,
		Active:            m.Active,
	}
}

// CouponModelFromDomain creates a persistence model from a domain Coupon.
func CouponModelFromDomain(c *order.Coupon) *CouponModel {
	m := &CouponModel{
		Code:           c.Code,
		Description:    c.Description,
		Type:           c.Type,
		Value:          c.Value,
		MinOrderAmount: c.MinOrderAmount,
		MaxDiscount:    c.MaxDiscount,
		UsageLimit:     c.UsageLimit,
		UsedCount:      c.UsedCount,
		StartsAt:       c.StartsAt,
		ExpiresAt:      c.ExpiresAt,
		Active:         c.Active,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
