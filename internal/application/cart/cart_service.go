package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowstudio/backend/internal/domain/cart"
	"github.com/glowstudio/backend/internal/domain/catalog"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CartService manages the single cart each customer owns
type CartService struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.Repository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the caller's cart priced at current product prices.
// A user without a cart gets an empty one; nothing is written.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// AddItem adds units of an active product, merging with an existing line
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.purchasable(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(product, c.QuantityOf(product.ID)+req.Quantity); err != nil {
		return nil, err
	}
	if _, err := c.AddItem(product.ID, req.Quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

// UpdateItem sets a line's quantity; zero removes the line
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > 0 {
		product, err := s.purchasable(ctx, productID)
		if err != nil {
			return nil, err
		}
		if err := checkStock(product, req.Quantity); err != nil {
			return nil, err
		}
	}
	if err := c.SetQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

// RemoveItem drops a product from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(productID); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	c, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if c.IsEmpty() {
		return nil
	}
	c.Clear()
	return s.cartRepo.Save(ctx, c)
}

func (s *CartService) load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return cart.NewCart(userID), nil
	}
	return c, err
}

func (s *CartService) save(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

func (s *CartService) purchasable(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product not found")
		}
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", fmt.Sprintf("%s is no longer available", product.Name))
	}
	return product, nil
}

func checkStock(p *catalog.Product, qty int) error {
	if qty > p.Stock {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Only %d of %s left in stock", p.Stock, p.Name))
	}
	return nil
}

func (s *CartService) view(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	resp := &CartResponse{
		Items:     make([]LineResponse, 0, len(c.Items)),
		Subtotal:  valueobject.Zero().Amount(),
		ItemCount: c.ItemCount(),
	}
	if c.IsEmpty() {
		return resp, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	subtotal := valueobject.Zero()
	for _, it := range c.Items {
		line := LineResponse{ProductID: it.ProductID, Quantity: it.Quantity}
		if p, ok := byID[it.ProductID]; ok {
			total := valueobject.NewMoney(p.Price).MulInt(it.Quantity)
			line.Name = p.Name
			line.Slug = p.Slug
			line.ImageURL = p.ImageURL
			line.UnitPrice = p.Price
			line.LineTotal = total.Amount()
			line.Stock = p.Stock
			line.Available = p.IsActive()
			if line.Available {
				subtotal = subtotal.Add(total)
			}
		}
		resp.Items = append(resp.Items, line)
	}
	resp.Subtotal = subtotal.Amount()
	return resp, nil
}
