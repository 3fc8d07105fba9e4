package testimonial

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/testimonial"
	"github.com/google/uuid"
)

// SubmitRequest is a public testimonial submission
type SubmitRequest struct {
	AuthorName  string `json:"author_name" binding:"required,min=1,max=100"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Title       string `json:"title" binding:"max=150"`
	Content     string `json:"content" binding:"required,min=10,max=2000"`
	ServiceType string `json:"service_type" binding:"max=50"`
}

// ListFilter represents testimonial listing parameters
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Featured *bool  `form:"featured"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at rating"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// FeatureRequest toggles homepage placement
type FeatureRequest struct {
	Featured bool `json:"featured"`
}

// Response represents a testimonial in API responses
type Response struct {
	ID          uuid.UUID  `json:"id"`
	AuthorName  string     `json:"author_name"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Rating      int        `json:"rating"`
	Title       string     `json:"title,omitempty"`
	Content     string     `json:"content"`
	ServiceType string     `json:"service_type,omitempty"`
	Status      string     `json:"status"`
	Featured    bool       `json:"featured"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToResponse converts a domain Testimonial to Response
func ToResponse(t *testimonial.Testimonial) Response {
	return Response{
		ID:          t.ID,
		AuthorName:  t.AuthorName,
		UserID:      t.UserID,
		Rating:      t.Rating,
		Title:       t.Title,
		Content:     t.Content,
		ServiceType: t.ServiceType,
		Status:      string(t.Status),
		Featured:    t.Featured,
		ApprovedAt:  t.ApprovedAt,
		CreatedAt:   t.CreatedAt,
	}
}

// SummaryResponse aggregates the approved testimonials
type SummaryResponse struct {
	Count         int64   `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// PublicListResponse is the public testimonial page
type PublicListResponse struct {
	Items      []Response      `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
	Summary    SummaryResponse `json:"summary"`
}
