package models

import (
	"github.com/glowstudio/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for the Category aggregate.
type CategoryModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	SortOrder   int    `gorm:"not null;default:0"`
	Active      bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Slug:              m.Slug,
		Description:       m.Description,
		SortOrder:         m.SortOrder,
		Active:            m.Active,
	}
}

// CategoryModelFromDomain creates a persistence model from a domain Category.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		Active:      c.Active,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// ProductModel is the persistence model for the Product aggregate.
type ProductModel struct {
	AggregateModel
	Name           string                `gorm:"type:varchar(200);not null"`
	Slug           string                `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description    string                `gorm:"type:text"`
	CategoryID     *uuid.UUID            `gorm:"type:uuid;index"`
	Price          decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	CompareAtPrice *decimal.Decimal      `gorm:"type:decimal(12,2)"`
	Stock          int                   `gorm:"not null;default:0"`
	ImageURL       string                `gorm:"type:varchar(500)"`
	Status         catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Featured       bool                  `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Slug:              m.Slug,
		Description:       m.Description,
		CategoryID:        m.CategoryID,
		Price:             m.Price,
		CompareAtPrice:    m.CompareAtPrice,
		Stock:             m.Stock,
		ImageURL:          m.ImageURL,
		Status:            m.Status,
		Featured:          m.Featured,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		Stock:          p.Stock,
		ImageURL:       p.ImageURL,
		Status:         p.Status,
		Featured:       p.Featured,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
