package persistence

import (
	"context"
	"time"

	"github.com/glowstudio/backend/internal/domain/booking"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormServicePackageRepository implements booking.PackageRepository using GORM
type GormServicePackageRepository struct {
	db *gorm.DB
}

// NewGormServicePackageRepository creates a new GormServicePackageRepository
func NewGormServicePackageRepository(db *gorm.DB) *GormServicePackageRepository {
	return &GormServicePackageRepository{db: db}
}

// FindByID finds a package by ID
func (r *GormServicePackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.ServicePackage, error) {
	var m models.ServicePackageModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists packages by name
func (r *GormServicePackageRepository) FindAll(ctx context.Context, activeOnly bool) ([]booking.ServicePackage, error) {
	q := r.db.WithContext(ctx).Model(&models.ServicePackageModel{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var rows []models.ServicePackageModel
	if err := q.Order("price ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]booking.ServicePackage, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a package
func (r *GormServicePackageRepository) Save(ctx context.Context, p *booking.ServicePackage) error {
	return translateError(r.db.WithContext(ctx).Save(models.ServicePackageModelFromDomain(p)).Error)
}

// Delete removes a package
func (r *GormServicePackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ServicePackageModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HasBookings reports whether any booking references the package
func (r *GormServicePackageRepository) HasBookings(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BookingModel{}).
		Where("package_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormBookingRepository implements booking.Repository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Create inserts a booking. The exclusion constraint on active bookings
// surfaces as SLOT_UNAVAILABLE.
func (r *GormBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	return translateError(r.db.WithContext(ctx).Create(models.BookingModelFromDomain(b)).Error)
}

// Update saves status changes with an optimistic version check
func (r *GormBookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	m := models.BookingModelFromDomain(b)
	result := r.db.WithContext(ctx).Model(&models.BookingModel{}).
		Where("id = ? AND version = ?", b.ID, b.Version-1).
		Updates(map[string]any{
			"status":        m.Status,
			"cancel_reason": m.CancelReason,
			"confirmed_at":  m.ConfirmedAt,
			"completed_at":  m.CompletedAt,
			"cancelled_at":  m.CancelledAt,
			"version":       m.Version,
			"updated_at":    m.UpdatedAt,
		})
	return versionedResult(result)
}

// FindByID finds a booking by ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var m models.BookingModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists bookings matching the filter
func (r *GormBookingRepository) FindAll(ctx context.Context, filter booking.Filter) ([]booking.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.BookingModel{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		q = q.Where("start_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_at < ?", *filter.To)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.BookingModel
	if err := paginate(q, filter.Filter, BookingSortFields, "start_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toBookings(rows), total, nil
}

// FindActiveBetween returns pending and confirmed bookings intersecting [from, to)
func (r *GormBookingRepository) FindActiveBetween(ctx context.Context, from, to time.Time) ([]booking.Booking, error) {
	var rows []models.BookingModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND start_at < ? AND end_at > ?", booking.ActiveStatuses, to.UTC(), from.UTC()).
		Order("start_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBookings(rows), nil
}

// LockCalendarDay takes a transaction-scoped advisory lock keyed by the UTC
// date, so two requests for the same day check and insert one after the other.
// SQLite serializes writers on its own and needs no lock.
func (r *GormBookingRepository) LockCalendarDay(ctx context.Context, day time.Time) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	key := "booking:" + day.UTC().Format("2006-01-02")
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

// CountByStatus counts bookings in the given status
func (r *GormBookingRepository) CountByStatus(ctx context.Context, status booking.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BookingModel{}).
		Where("status = ?", status).Count(&count).Error
	return count, err
}

func toBookings(rows []models.BookingModel) []booking.Booking {
	out := make([]booking.Booking, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var (
	_ booking.PackageRepository = (*GormServicePackageRepository)(nil)
	_ booking.Repository        = (*GormBookingRepository)(nil)
)
