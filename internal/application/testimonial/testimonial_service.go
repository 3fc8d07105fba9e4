package testimonial

import (
	"context"
	"math"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/domain/testimonial"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TestimonialService handles submission and moderation of testimonials
type TestimonialService struct {
	repo   testimonial.Repository
	logger *zap.Logger
}

// NewTestimonialService creates a new TestimonialService
func NewTestimonialService(repo testimonial.Repository, logger *zap.Logger) *TestimonialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestimonialService{repo: repo, logger: logger}
}

// Submit records a testimonial for moderation. userID is nil for guests.
func (s *TestimonialService) Submit(ctx context.Context, userID *uuid.UUID, req SubmitRequest) (*Response, error) {
	t, err := testimonial.NewTestimonial(testimonial.Submission{
		AuthorName:  req.AuthorName,
		UserID:      userID,
		Rating:      req.Rating,
		Title:       req.Title,
		Content:     req.Content,
		ServiceType: req.ServiceType,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("Testimonial submitted",
		zap.String("testimonial_id", t.ID.String()),
		zap.Int("rating", t.Rating),
		zap.Bool("registered", userID != nil),
	)
	r := ToResponse(t)
	return &r, nil
}

// ListPublic returns approved testimonials with the rating summary
func (s *TestimonialService) ListPublic(ctx context.Context, filter ListFilter) (*PublicListResponse, error) {
	approved := testimonial.StatusApproved
	page, err := s.list(ctx, filter, &approved)
	if err != nil {
		return nil, err
	}
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &PublicListResponse{
		Items:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		Summary:    summary,
	}, nil
}

// List returns testimonials in any status for moderation
func (s *TestimonialService) List(ctx context.Context, filter ListFilter) (shared.Paginated[Response], error) {
	var status *testimonial.Status
	if filter.Status != "" {
		st := testimonial.Status(filter.Status)
		status = &st
	}
	return s.list(ctx, filter, status)
}

func (s *TestimonialService) list(ctx context.Context, filter ListFilter, status *testimonial.Status) (shared.Paginated[Response], error) {
	query := testimonial.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		Status:   status,
		Featured: filter.Featured,
	}
	query.Normalize()

	rows, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return shared.Paginated[Response]{}, err
	}
	items := make([]Response, 0, len(rows))
	for i := range rows {
		items = append(items, ToResponse(&rows[i]))
	}
	return shared.NewPaginated(items, total, query.Page, query.PageSize), nil
}

// Summary returns the approved count and average rating, rounded to one decimal
func (s *TestimonialService) Summary(ctx context.Context) (SummaryResponse, error) {
	sum, err := s.repo.ApprovedSummary(ctx)
	if err != nil {
		return SummaryResponse{}, err
	}
	return SummaryResponse{
		Count:         sum.Count,
		AverageRating: math.Round(sum.AverageRating*10) / 10,
	}, nil
}

// Get returns a testimonial by ID
func (s *TestimonialService) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r := ToResponse(t)
	return &r, nil
}

// Approve publishes a testimonial
func (s *TestimonialService) Approve(ctx context.Context, id uuid.UUID) (*Response, error) {
	return s.moderate(ctx, id, "approved", (*testimonial.Testimonial).Approve)
}

// Reject hides a testimonial
func (s *TestimonialService) Reject(ctx context.Context, id uuid.UUID) (*Response, error) {
	return s.moderate(ctx, id, "rejected", (*testimonial.Testimonial).Reject)
}

// SetFeatured places an approved testimonial on the homepage or removes it
func (s *TestimonialService) SetFeatured(ctx context.Context, id uuid.UUID, req FeatureRequest) (*Response, error) {
	return s.moderate(ctx, id, "featured", func(t *testimonial.Testimonial) error {
		return t.SetFeatured(req.Featured)
	})
}

func (s *TestimonialService) moderate(ctx context.Context, id uuid.UUID, action string, apply func(*testimonial.Testimonial) error) (*Response, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(t); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("Testimonial moderated",
		zap.String("testimonial_id", id.String()),
		zap.String("action", action),
	)
	r := ToResponse(t)
	return &r, nil
}

// Delete removes a testimonial
func (s *TestimonialService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// PendingCount counts testimonials waiting for moderation
func (s *TestimonialService) PendingCount(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, testimonial.StatusPending)
}
