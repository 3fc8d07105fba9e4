package catalog

import (
	"strings"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid reports whether s is a known status
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// LowStockThreshold marks products the dashboard reports as running low
const LowStockThreshold = 5

// Product is a sellable item with its own stock counter
type Product struct {
	shared.BaseAggregateRoot
	Name           string
	Slug           string
	Description    string
	CategoryID     *uuid.UUID
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Stock          int
	ImageURL       string
	Status         ProductStatus
	Featured       bool
}

// ProductDetails carries the editable fields of a product
type ProductDetails struct {
	Name           string
	Slug           string
	Description    string
	CategoryID     *uuid.UUID
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	ImageURL       string
	Featured       bool
}

// NewProduct creates an active product with the given initial stock
func NewProduct(details ProductDetails, stock int) (*Product, error) {
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            ProductStatusActive,
		Stock:             stock,
	}
	if err := p.apply(details); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields
func (p *Product) Update(details ProductDetails) error {
	if err := p.apply(details); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

func (p *Product) apply(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	slug, err := shared.ResolveSlug(d.Slug, name)
	if err != nil {
		return err
	}
	if !d.Price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	if d.CompareAtPrice != nil && !d.CompareAtPrice.GreaterThan(d.Price) {
		return shared.NewDomainError("INVALID_PRICE", "Compare-at price must be greater than price")
	}
	if len(d.ImageURL) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	p.Name = name
	p.Slug = slug
	p.Description = strings.TrimSpace(d.Description)
	p.CategoryID = d.CategoryID
	p.Price = d.Price.Round(2)
	if d.CompareAtPrice != nil {
		cmp := d.CompareAtPrice.Round(2)
		p.CompareAtPrice = &cmp
	} else {
		p.CompareAtPrice = nil
	}
	p.ImageURL = d.ImageURL
	p.Featured = d.Featured
	return nil
}

// Activate makes the product purchasable
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.Status = ProductStatusActive
	p.IncrementVersion()
	return nil
}

// Deactivate hides the product from the storefront and checkout
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.IncrementVersion()
	return nil
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// CanFulfill reports whether qty units can be taken from stock
func (p *Product) CanFulfill(qty int) bool {
	return qty > 0 && p.Stock >= qty
}

// IsLowStock reports whether stock is at or below the low-stock threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= LowStockThreshold
}
