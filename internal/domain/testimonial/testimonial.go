package testimonial

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents moderation state
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Testimonial is a customer review shown on the site after approval
type Testimonial struct {
	shared.BaseAggregateRoot
	AuthorName  string
	UserID      *uuid.UUID
	Rating      int
	Title       string
	Content     string
	ServiceType string
	Status      Status
	Featured    bool
	ApprovedAt  *time.Time
}

// Submission is the public input for a testimonial
type Submission struct {
	AuthorName  string
	UserID      *uuid.UUID
	Rating      int
	Title       string
	Content     string
	ServiceType string
}

// NewTestimonial validates a submission and returns a pending testimonial
func NewTestimonial(s Submission) (*Testimonial, error) {
	author := strings.TrimSpace(s.AuthorName)
	if author == "" || len(author) > 100 {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author name must be 1 to 100 characters")
	}
	if s.Rating < 1 || s.Rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	content := strings.TrimSpace(s.Content)
	if n := utf8.RuneCountInString(content); n < 10 || n > 2000 {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Content must be 10 to 2000 characters")
	}
	title := strings.TrimSpace(s.Title)
	if len(title) > 150 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 150 characters")
	}
	return &Testimonial{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AuthorName:        author,
		UserID:            s.UserID,
		Rating:            s.Rating,
		Title:             title,
		Content:           content,
		ServiceType:       strings.TrimSpace(s.ServiceType),
		Status:            StatusPending,
	}, nil
}

// Approve publishes the testimonial
func (t *Testimonial) Approve() error {
	if t.Status == StatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Testimonial is already approved")
	}
	now := time.Now()
	t.Status = StatusApproved
	t.ApprovedAt = &now
	t.IncrementVersion()
	return nil
}

// Reject hides the testimonial and clears its featured flag
func (t *Testimonial) Reject() error {
	if t.Status == StatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Testimonial is already rejected")
	}
	t.Status = StatusRejected
	t.Featured = false
	t.ApprovedAt = nil
	t.IncrementVersion()
	return nil
}

// SetFeatured toggles homepage placement. Only approved testimonials can be featured.
func (t *Testimonial) SetFeatured(featured bool) error {
	if featured && t.Status != StatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved testimonials can be featured")
	}
	t.Featured = featured
	t.IncrementVersion()
	return nil
}

// Filter narrows testimonial listings
type Filter struct {
	shared.Filter
	Status   *Status
	Featured *bool
}

// Summary aggregates approved testimonials
type Summary struct {
	Count         int64
	AverageRating float64
}

// Repository defines the interface for testimonial persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	FindAll(ctx context.Context, filter Filter) ([]Testimonial, int64, error)
	Save(ctx context.Context, t *Testimonial) error
	Delete(ctx context.Context, id uuid.UUID) error
	ApprovedSummary(ctx context.Context) (Summary, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
