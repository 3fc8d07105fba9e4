package gallery

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/gallery"
	"github.com/google/uuid"
)

// ImageRequest carries the editable metadata of an image. Upload binds it
// from multipart form fields, updates from JSON.
type ImageRequest struct {
	Title       string `form:"title" json:"title" binding:"max=200"`
	Description string `form:"description" json:"description" binding:"max=2000"`
	Category    string `form:"category" json:"category" binding:"max=50"`
	SortOrder   int    `form:"sort_order" json:"sort_order"`
	Featured    bool   `form:"featured" json:"featured"`
	Published   *bool  `form:"published" json:"published"`
}

func (r ImageRequest) metadata() gallery.Metadata {
	published := true
	if r.Published != nil {
		published = *r.Published
	}
	return gallery.Metadata{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		SortOrder:   r.SortOrder,
		Featured:    r.Featured,
		Published:   published,
	}
}

// ImageListFilter represents gallery listing parameters
type ImageListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Featured *bool  `form:"featured"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=sort_order created_at title"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ImageResponse represents a gallery image in API responses
type ImageResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	SortOrder   int       `json:"sort_order"`
	Featured    bool      `json:"featured"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	// staff only
	StorageKey string `json:"storage_key,omitempty"`
	Provider   string `json:"provider,omitempty"`
}

// ToImageResponse converts a domain Image to ImageResponse
func ToImageResponse(img *gallery.Image, withStorage bool) ImageResponse {
	r := ImageResponse{
		ID:          img.ID,
		Title:       img.Title,
		Description: img.Description,
		Category:    img.Category,
		URL:         img.URL,
		ContentType: img.ContentType,
		SizeBytes:   img.SizeBytes,
		SortOrder:   img.SortOrder,
		Featured:    img.Featured,
		Published:   img.Published,
		CreatedAt:   img.CreatedAt,
	}
	if withStorage {
		r.StorageKey = img.StorageKey
		r.Provider = img.Provider
	}
	return r
}
