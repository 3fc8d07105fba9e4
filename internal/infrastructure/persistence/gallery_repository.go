package persistence

import (
	"context"

	"github.com/glowstudio/backend/internal/domain/gallery"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGalleryRepository implements gallery.Repository using GORM
type GormGalleryRepository struct {
	db *gorm.DB
}

// NewGormGalleryRepository creates a new GormGalleryRepository
func NewGormGalleryRepository(db *gorm.DB) *GormGalleryRepository {
	return &GormGalleryRepository{db: db}
}

// FindByID finds an image by ID
func (r *GormGalleryRepository) FindByID(ctx context.Context, id uuid.UUID) (*gallery.Image, error) {
	var m models.GalleryImageModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists images; the default order is sort_order then newest
func (r *GormGalleryRepository) FindAll(ctx context.Context, filter gallery.Filter) ([]gallery.Image, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.GalleryImageModel{})
	if filter.PublishedOnly {
		q = q.Where("published = ?", true)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", gallery.NormalizeCategory(filter.Category))
	}
	if filter.Featured != nil {
		q = q.Where("featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')", p, p)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	f := filter.Filter
	f.Normalize()
	if f.OrderBy == "" {
		q = q.Order("sort_order ASC").Order("created_at DESC")
	} else {
		q = q.Order(orderClause(f, GallerySortFields, "sort_order"))
	}
	var rows []models.GalleryImageModel
	if err := q.Offset(f.Offset()).Limit(f.PageSize).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]gallery.Image, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates an image
func (r *GormGalleryRepository) Save(ctx context.Context, img *gallery.Image) error {
	return translateError(r.db.WithContext(ctx).Save(models.GalleryImageModelFromDomain(img)).Error)
}

// Delete removes an image row
func (r *GormGalleryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.GalleryImageModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Categories returns the distinct non-empty categories in use
func (r *GormGalleryRepository) Categories(ctx context.Context, publishedOnly bool) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&models.GalleryImageModel{}).Where("category <> ''")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	categories := make([]string, 0)
	if err := q.Distinct().Order("category ASC").Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

var _ gallery.Repository = (*GormGalleryRepository)(nil)
