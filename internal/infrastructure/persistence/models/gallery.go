package models

import (
	"github.com/glowstudio/backend/internal/domain/gallery"
)

// GalleryImageModel is the persistence model for a gallery image.
type GalleryImageModel struct {
	AggregateModel
	Title       string `gorm:"type:varchar(200)"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"type:varchar(50);index"`
	URL         string `gorm:"type:varchar(1000);not null"`
	StorageKey  string `gorm:"type:varchar(500);not null"`
	Provider    string `gorm:"type:varchar(20);not null"`
	ContentType string `gorm:"type:varchar(50);not null"`
	SizeBytes   int64  `gorm:"not null;default:0"`
	SortOrder   int    `gorm:"not null;default:0"`
	Featured    bool   `gorm:"not null;default:false"`
	Published   bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GalleryImageModel) TableName() string {
	return "gallery_images"
}

// ToDomain converts the persistence model to a domain Image.
func (m *GalleryImageModel) ToDomain() *gallery.Image {
	return &gallery.Image{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Category:          m.Category,
		URL:               m.URL,
		StorageKey:        m.StorageKey,
		Provider:          m.Provider,
		ContentType:       m.ContentType,
		SizeBytes:         m.SizeBytes,
		SortOrder:         m.SortOrder,
		Featured:          m.Featured,
		Published:         m.Published,
	}
}

// GalleryImageModelFromDomain creates a persistence model from a domain Image.
func GalleryImageModelFromDomain(i *gallery.Image) *GalleryImageModel {
	m := &GalleryImageModel{
		Title:       i.Title,
		Description: i.Description,
		Category:    i.Category,
		URL:         i.URL,
		StorageKey:  i.StorageKey,
		Provider:    i.Provider,
		ContentType: i.ContentType,
		SizeBytes:   i.SizeBytes,
		SortOrder:   i.SortOrder,
		Featured:    i.Featured,
		Published:   i.Published,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}
