package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/glowstudio/backend/internal/domain/catalog"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	product, err := catalog.NewProduct(req.details(), req.Stock)
	if err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, product.Slug, nil); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Update replaces a product's editable fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if err := product.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, product.Slug, &product.ID); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// AdjustStock adds delta units atomically. Stock never goes negative.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.AdjustStock(ctx, id, req.Delta)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Stock adjusted",
		zap.String("product_id", id.String()),
		zap.Int("delta", req.Delta),
		zap.Int("stock", product.Stock),
		zap.String("reason", req.Reason))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Activate makes a product purchasable
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Activate)
}

// Deactivate hides a product from the storefront
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Deactivate)
}

func (s *ProductService) changeStatus(ctx context.Context, id uuid.UUID, apply func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product. Storefront callers pass publicOnly so that
// inactive products read as missing.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID, publicOnly bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.visible(product, publicOnly)
}

// GetBySlug retrieves a product by slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string, publicOnly bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.visible(product, publicOnly)
}

func (s *ProductService) visible(p *catalog.Product, publicOnly bool) (*ProductResponse, error) {
	if publicOnly && !p.IsActive() {
		return nil, shared.ErrNotFound
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// List returns a page of products. Storefront listings only show active
// products, and a category filter only matches an active category.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter, publicOnly bool) (shared.Paginated[ProductResponse], error) {
	query := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   strings.TrimSpace(filter.Search),
		},
		InStockOnly: filter.InStock,
		Featured:    filter.Featured,
	}
	query.Normalize()
	empty := shared.NewPaginated[ProductResponse](nil, 0, query.Page, query.PageSize)

	if publicOnly {
		status := catalog.ProductStatusActive
		query.Status = &status
	} else if filter.Status != "" {
		status := catalog.ProductStatus(filter.Status)
		query.Status = &status
	}

	if filter.Category != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, filter.Category)
		if errors.Is(err, shared.ErrNotFound) {
			return empty, nil
		}
		if err != nil {
			return empty, err
		}
		if publicOnly && !category.Active {
			return empty, nil
		}
		query.CategoryID = &category.ID
	}

	var err error
	if query.MinPrice, err = parsePrice(filter.MinPrice); err != nil {
		return empty, err
	}
	if query.MaxPrice, err = parsePrice(filter.MaxPrice); err != nil {
		return empty, err
	}

	products, total, err := s.productRepo.FindAll(ctx, query)
	if err != nil {
		return empty, err
	}
	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductResponse(&products[i]))
	}
	return shared.NewPaginated(items, total, query.Page, query.PageSize), nil
}

func parsePrice(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Price filters must be non-negative numbers")
	}
	return &d, nil
}

func (s *ProductService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	return nil
}

func (s *ProductService) checkSlug(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
	}
	return nil
}
