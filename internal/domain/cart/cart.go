package cart

import (
	"context"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxItemQuantity caps the quantity of a single cart line
const MaxItemQuantity = 99

// Item is one product line in a cart
type Item struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// Cart is a customer's pending selection of products. Each user owns at most one.
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID
	Items  []Item

	// version in storage, 0 until the cart is first saved
	storedVersion int
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]Item, 0),
	}
}

// Reconstitute rebuilds a cart loaded from storage at root.Version
func Reconstitute(root shared.BaseAggregateRoot, userID uuid.UUID, items []Item) *Cart {
	return &Cart{
		BaseAggregateRoot: root,
		UserID:            userID,
		Items:             items,
		storedVersion:     root.Version,
	}
}

// StoredVersion is the version the stored row is expected to have. Zero
// means the cart has never been saved.
func (c *Cart) StoredVersion() int {
	return c.storedVersion
}

// MarkStored records that the current version was written
func (c *Cart) MarkStored() {
	c.storedVersion = c.Version
}

// AddItem adds qty units of a product, merging with an existing line
func (c *Cart) AddItem(productID uuid.UUID, qty int) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if qty < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if line := c.find(productID); line != nil {
		if line.Quantity+qty > MaxItemQuantity {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot exceed 99 per product")
		}
		line.Quantity += qty
		c.IncrementVersion()
		return line, nil
	}
	if qty > MaxItemQuantity {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot exceed 99 per product")
	}
	c.Items = append(c.Items, Item{
		ID:        uuid.New(),
		CartID:    c.ID,
		ProductID: productID,
		Quantity:  qty,
	})
	c.IncrementVersion()
	return &c.Items[len(c.Items)-1], nil
}

// SetQuantity sets the quantity of an existing line. Zero removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	if qty < 0 || qty > MaxItemQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be between 0 and 99")
	}
	line := c.find(productID)
	if line == nil {
		return shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
	}
	if qty == 0 {
		return c.RemoveItem(productID)
	}
	line.Quantity = qty
	c.IncrementVersion()
	return nil
}

// RemoveItem drops the line for a product
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = make([]Item, 0)
	c.IncrementVersion()
}

// QuantityOf returns the quantity currently held for a product
func (c *Cart) QuantityOf(productID uuid.UUID) int {
	if line := c.find(productID); line != nil {
		return line.Quantity
	}
	return 0
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total number of units
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// ProductIDs returns the distinct products in the cart
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func (c *Cart) find(productID uuid.UUID) *Item {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Repository persists carts together with their lines
type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// FindByUserIDForUpdate is FindByUserID holding a row lock until the
	// surrounding transaction ends
	FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// Save replaces the stored lines with the cart's current lines. It returns
	// CONCURRENCY_CONFLICT when the stored cart changed since it was loaded.
	Save(ctx context.Context, cart *Cart) error
}
