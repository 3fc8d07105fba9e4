package gallery

import (
	"context"
	"strings"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AllowedContentTypes are the image formats accepted for upload
var AllowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Image is a published photo of the studio's work
type Image struct {
	shared.BaseAggregateRoot
	Title       string
	Description string
	Category    string
	URL         string
	StorageKey  string
	Provider    string
	ContentType string
	SizeBytes   int64
	SortOrder   int
	Featured    bool
	Published   bool
}

// StoredObject describes where an uploaded file landed
type StoredObject struct {
	Key         string
	URL         string
	Provider    string
	ContentType string
	Size        int64
}

// Metadata carries the editable fields of an image
type Metadata struct {
	Title       string
	Description string
	Category    string
	SortOrder   int
	Featured    bool
	Published   bool
}

// NewImage records an uploaded object
func NewImage(obj StoredObject, m Metadata) (*Image, error) {
	if obj.Key == "" || obj.URL == "" {
		return nil, shared.NewDomainError("INVALID_OBJECT", "Stored object is missing key or URL")
	}
	if _, ok := AllowedContentTypes[obj.ContentType]; !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only JPEG, PNG, WebP and GIF images are allowed")
	}
	img := &Image{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		URL:               obj.URL,
		StorageKey:        obj.Key,
		Provider:          obj.Provider,
		ContentType:       obj.ContentType,
		SizeBytes:         obj.Size,
	}
	if err := img.apply(m); err != nil {
		return nil, err
	}
	return img, nil
}

// UpdateMetadata replaces the editable fields
func (i *Image) UpdateMetadata(m Metadata) error {
	if err := i.apply(m); err != nil {
		return err
	}
	i.IncrementVersion()
	return nil
}

func (i *Image) apply(m Metadata) error {
	title := strings.TrimSpace(m.Title)
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	category := NormalizeCategory(m.Category)
	if len(category) > 50 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 50 characters")
	}
	i.Title = title
	i.Description = strings.TrimSpace(m.Description)
	i.Category = category
	i.SortOrder = m.SortOrder
	i.Featured = m.Featured
	i.Published = m.Published
	return nil
}

// NormalizeCategory lowercases and trims a category label
func NormalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// Filter narrows gallery listings
type Filter struct {
	shared.Filter
	Category      string
	Featured      *bool
	PublishedOnly bool
}

// Repository defines the interface for gallery persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Image, error)
	FindAll(ctx context.Context, filter Filter) ([]Image, int64, error)
	Save(ctx context.Context, img *Image) error
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context, publishedOnly bool) ([]string, error)
}
