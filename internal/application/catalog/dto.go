package catalog

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"omitempty,slug,max=120"`
	Description string `json:"description" binding:"max=1000"`
	SortOrder   int    `json:"sort_order"`
	Active      *bool  `json:"active"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"omitempty,slug,max=120"`
	Description string `json:"description" binding:"max=1000"`
	SortOrder   int    `json:"sort_order"`
	Active      *bool  `json:"active"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ProductRequest carries the editable fields of a product
type ProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Slug           string           `json:"slug" binding:"omitempty,slug,max=220"`
	Description    string           `json:"description" binding:"max=5000"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	ImageURL       string           `json:"image_url" binding:"omitempty,url,max=500"`
	Featured       bool             `json:"featured"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	ProductRequest
	Stock int `json:"stock" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product. Stock is
// changed through AdjustStock only.
type UpdateProductRequest struct {
	ProductRequest
}

// AdjustStockRequest adds or removes units
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"max=200"`
}

// ProductListFilter represents product listing parameters
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	MinPrice string `form:"min_price" binding:"omitempty,numeric"`
	MaxPrice string `form:"max_price" binding:"omitempty,numeric"`
	InStock  bool   `form:"in_stock"`
	Featured *bool  `form:"featured"`
	// Status is honoured for admin listings only
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name price created_at updated_at stock"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Description    string           `json:"description"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	OnSale         bool             `json:"on_sale"`
	Stock          int              `json:"stock"`
	InStock        bool             `json:"in_stock"`
	ImageURL       string           `json:"image_url"`
	Status         string           `json:"status"`
	Featured       bool             `json:"featured"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Version        int              `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		OnSale:         p.CompareAtPrice != nil,
		Stock:          p.Stock,
		InStock:        p.Stock > 0,
		ImageURL:       p.ImageURL,
		Status:         string(p.Status),
		Featured:       p.Featured,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

func (r ProductRequest) details() catalog.ProductDetails {
	return catalog.ProductDetails{
		Name:           r.Name,
		Slug:           r.Slug,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		Price:          r.Price,
		CompareAtPrice: r.CompareAtPrice,
		ImageURL:       r.ImageURL,
		Featured:       r.Featured,
	}
}
