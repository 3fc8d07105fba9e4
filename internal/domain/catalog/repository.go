package catalog

import (
	"context"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context, activeOnly bool) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	// FindByIDsForUpdate loads and row-locks products in ascending id order.
	// It must run inside a transaction.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	// AdjustStock adds delta to stock atomically. A change that would take
	// stock below zero fails with ErrInsufficientStock.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Product, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

// ProductFilter narrows product listings
type ProductFilter struct {
	shared.Filter
	CategoryID  *uuid.UUID
	Status      *ProductStatus
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
	Featured    *bool
}
