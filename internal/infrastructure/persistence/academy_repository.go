package persistence

import (
	"context"
	"time"

	"github.com/glowstudio/backend/internal/domain/academy"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrClassFull is returned when the seat reservation matched no row
var ErrClassFull = shared.NewDomainError("CLASS_FULL", "Class is full")

var errEnrollmentNotActive = shared.NewDomainError("INVALID_STATE", "Enrollment is already cancelled")

// GormMakeupClassRepository implements academy.ClassRepository using GORM
type GormMakeupClassRepository struct {
	db *gorm.DB
}

// NewGormMakeupClassRepository creates a new GormMakeupClassRepository
func NewGormMakeupClassRepository(db *gorm.DB) *GormMakeupClassRepository {
	return &GormMakeupClassRepository{db: db}
}

// FindByID finds a class by ID
func (r *GormMakeupClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.MakeupClass, error) {
	var m models.MakeupClassModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindBySlug finds a class by slug
func (r *GormMakeupClassRepository) FindBySlug(ctx context.Context, slug string) (*academy.MakeupClass, error) {
	var m models.MakeupClassModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists classes matching the filter
func (r *GormMakeupClassRepository) FindAll(ctx context.Context, filter academy.ClassFilter) ([]academy.MakeupClass, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.MakeupClassModel{})
	if filter.Level != nil {
		q = q.Where("level = ?", *filter.Level)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.StartsAfter != nil {
		q = q.Where("start_at > ?", filter.StartsAfter.UTC())
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(instructor) LIKE ? ESCAPE '\\')", p, p)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.MakeupClassModel
	if err := paginate(q, filter.Filter, ClassSortFields, "start_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]academy.MakeupClass, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates a class or updates its editable fields. enrolled_count is
// only changed by ReserveSeat and ReleaseSeat, and version is incremented
// in place.
func (r *GormMakeupClassRepository) Save(ctx context.Context, c *academy.MakeupClass) error {
	m := models.MakeupClassModelFromDomain(c)
	result := r.db.WithContext(ctx).Model(&models.MakeupClassModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"title":            m.Title,
			"slug":             m.Slug,
			"description":      m.Description,
			"instructor":       m.Instructor,
			"level":            m.Level,
			"start_at":         m.StartAt,
			"duration_minutes": m.DurationMinutes,
			"location":         m.Location,
			"capacity":         m.Capacity,
			"price":            m.Price,
			"status":           m.Status,
			"cover_image_url":  m.CoverImageURL,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       m.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Create(m).Error)
}

// Delete removes a class
func (r *GormMakeupClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MakeupClassModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsBySlug reports whether another class uses slug
func (r *GormMakeupClassRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.MakeupClassModel{}).Where("slug = ?", slug)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReserveSeat increments enrolled_count while below capacity
func (r *GormMakeupClassRepository) ReserveSeat(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.MakeupClassModel{}).
		Where("id = ? AND status = ? AND enrolled_count < capacity", id, academy.ClassScheduled).
		Update("enrolled_count", gorm.Expr("enrolled_count + 1"))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrClassFull
	}
	return nil
}

// ReleaseSeat decrements enrolled_count, never below zero
func (r *GormMakeupClassRepository) ReleaseSeat(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.MakeupClassModel{}).
		Where("id = ? AND enrolled_count > 0", id).
		Update("enrolled_count", gorm.Expr("enrolled_count - 1")).Error
}

// CountUpcoming counts scheduled classes that have not started
func (r *GormMakeupClassRepository) CountUpcoming(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MakeupClassModel{}).
		Where("status = ? AND start_at > ?", academy.ClassScheduled, now.UTC()).
		Count(&count).Error
	return count, err
}

// GormEnrollmentRepository implements academy.EnrollmentRepository using GORM
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewGormEnrollmentRepository creates a new GormEnrollmentRepository
func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// Create inserts an enrollment. The partial unique index on active
// enrollments rejects a second seat for the same user.
func (r *GormEnrollmentRepository) Create(ctx context.Context, e *academy.Enrollment) error {
	err := translateError(r.db.WithContext(ctx).Create(models.EnrollmentModelFromDomain(e)).Error)
	if shared.IsDomainError(err, "ALREADY_EXISTS") {
		return shared.NewDomainError("ALREADY_ENROLLED", "You are already enrolled in this class")
	}
	return err
}

// Update writes a cancellation. It only matches an enrollment that is still
// active, so of two concurrent cancels only one releases the seat.
func (r *GormEnrollmentRepository) Update(ctx context.Context, e *academy.Enrollment) error {
	result := r.db.WithContext(ctx).Model(&models.EnrollmentModel{}).
		Where("id = ? AND status = ?", e.ID, academy.EnrollmentActive).
		Updates(map[string]any{
			"status":       e.Status,
			"cancelled_at": e.CancelledAt,
			"updated_at":   e.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, e.ID); err != nil {
			return err
		}
		return errEnrollmentNotActive
	}
	return nil
}

// FindByID finds an enrollment by ID
func (r *GormEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Enrollment, error) {
	var m models.EnrollmentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindActive finds the user's active enrollment in a class
func (r *GormEnrollmentRepository) FindActive(ctx context.Context, classID, userID uuid.UUID) (*academy.Enrollment, error) {
	var m models.EnrollmentModel
	if err := r.db.WithContext(ctx).
		Where("class_id = ? AND user_id = ? AND status = ?", classID, userID, academy.EnrollmentActive).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByClass lists a class's enrollments, oldest first
func (r *GormEnrollmentRepository) FindByClass(ctx context.Context, classID uuid.UUID) ([]academy.Enrollment, error) {
	return r.find(ctx, "class_id = ?", classID)
}

// FindByUser lists a user's enrollments, oldest first
func (r *GormEnrollmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]academy.Enrollment, error) {
	return r.find(ctx, "user_id = ?", userID)
}

func (r *GormEnrollmentRepository) find(ctx context.Context, cond string, arg any) ([]academy.Enrollment, error) {
	var rows []models.EnrollmentModel
	if err := r.db.WithContext(ctx).Where(cond, arg).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]academy.Enrollment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CancelAllForClass cancels every active enrollment of a class
func (r *GormEnrollmentRepository) CancelAllForClass(ctx context.Context, classID uuid.UUID) (int64, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.EnrollmentModel{}).
		Where("class_id = ? AND status = ?", classID, academy.EnrollmentActive).
		Updates(map[string]any{
			"status":       academy.EnrollmentCancelled,
			"cancelled_at": now,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

var (
	_ academy.ClassRepository      = (*GormMakeupClassRepository)(nil)
	_ academy.EnrollmentRepository = (*GormEnrollmentRepository)(nil)
)
