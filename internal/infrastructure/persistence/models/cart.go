package models

import (
	"github.com/glowstudio/backend/internal/domain/cart"
	"github.com/google/uuid"
)

// CartModel is the persistence model for the Cart aggregate.
type CartModel struct {
	AggregateModel
	UserID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is one product line of a cart.
type CartItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	Quantity  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain Cart.
func (m *CartModel) ToDomain() *cart.Cart {
	items := make([]cart.Item, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, cart.Item{
			ID:        it.ID,
			CartID:    it.CartID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return cart.Reconstitute(m.ToDomainAggregateRoot(), m.UserID, items)
}

// CartModelFromDomain creates a persistence model from a domain Cart.
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{
		UserID: c.UserID,
		Items:  make([]CartItemModel, 0, len(c.Items)),
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	for _, it := range c.Items {
		m.Items = append(m.Items, CartItemModel{
			ID:        it.ID,
			CartID:    c.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return m
}
