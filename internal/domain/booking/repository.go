package booking

import (
	"context"
	"time"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PackageRepository defines the interface for service package persistence
type PackageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ServicePackage, error)
	FindAll(ctx context.Context, activeOnly bool) ([]ServicePackage, error)
	Save(ctx context.Context, p *ServicePackage) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasBookings(ctx context.Context, id uuid.UUID) (bool, error)
}

// Repository defines the interface for booking persistence
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	// Update saves changes using the aggregate version for optimistic locking
	Update(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindAll(ctx context.Context, filter Filter) ([]Booking, int64, error)
	// FindActiveBetween returns pending and confirmed bookings intersecting [from, to)
	FindActiveBetween(ctx context.Context, from, to time.Time) ([]Booking, error)
	// LockCalendarDay serializes slot allocation for one day. It must run inside a transaction.
	LockCalendarDay(ctx context.Context, day time.Time) error
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

// Filter narrows booking listings
type Filter struct {
	shared.Filter
	UserID *uuid.UUID
	Status *Status
	From   *time.Time
	To     *time.Time
}
