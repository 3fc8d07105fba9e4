package persistence

import (
	"context"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/domain/testimonial"
	"github.com/glowstudio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTestimonialRepository implements testimonial.Repository using GORM
type GormTestimonialRepository struct {
	db *gorm.DB
}

// NewGormTestimonialRepository creates a new GormTestimonialRepository
func NewGormTestimonialRepository(db *gorm.DB) *GormTestimonialRepository {
	return &GormTestimonialRepository{db: db}
}

// FindByID finds a testimonial by ID
func (r *GormTestimonialRepository) FindByID(ctx context.Context, id uuid.UUID) (*testimonial.Testimonial, error) {
	var m models.TestimonialModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists testimonials; featured ones come first by default
func (r *GormTestimonialRepository) FindAll(ctx context.Context, filter testimonial.Filter) ([]testimonial.Testimonial, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.TestimonialModel{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Featured != nil {
		q = q.Where("featured = ?", *filter.Featured)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	f := filter.Filter
	f.Normalize()
	if f.OrderBy == "" {
		q = q.Order("featured DESC")
	}
	var rows []models.TestimonialModel
	if err := q.Order(orderClause(f, TestimonialSortFields, "created_at")).
		Offset(f.Offset()).Limit(f.PageSize).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]testimonial.Testimonial, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a testimonial
func (r *GormTestimonialRepository) Save(ctx context.Context, t *testimonial.Testimonial) error {
	return translateError(r.db.WithContext(ctx).Save(models.TestimonialModelFromDomain(t)).Error)
}

// Delete removes a testimonial
func (r *GormTestimonialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TestimonialModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ApprovedSummary returns the count and average rating of approved testimonials
func (r *GormTestimonialRepository) ApprovedSummary(ctx context.Context) (testimonial.Summary, error) {
	var row struct {
		Count   int64
		Average *float64
	}
	if err := r.db.WithContext(ctx).Model(&models.TestimonialModel{}).
		Select("COUNT(*) AS count, AVG(rating) AS average").
		Where("status = ?", testimonial.StatusApproved).
		Scan(&row).Error; err != nil {
		return testimonial.Summary{}, err
	}
	s := testimonial.Summary{Count: row.Count}
	if row.Average != nil {
		s.AverageRating = *row.Average
	}
	return s, nil
}

// CountByStatus counts testimonials in the given status
func (r *GormTestimonialRepository) CountByStatus(ctx context.Context, status testimonial.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TestimonialModel{}).
		Where("status = ?", status).Count(&count).Error
	return count, err
}

var _ testimonial.Repository = (*GormTestimonialRepository)(nil)
