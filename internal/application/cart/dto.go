package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds units of a product to the caller's cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=99"`
}

// UpdateItemRequest sets the quantity of a cart line. Zero removes it.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=99"`
}

// LineResponse is a cart line priced at the product's current price
type LineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	ImageURL  string          `json:"image_url"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Stock     int             `json:"stock"`
	// Available is false when the product was deactivated or removed
	Available bool `json:"available"`
}

// CartResponse represents the caller's cart
type CartResponse struct {
	Items     []LineResponse  `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}
