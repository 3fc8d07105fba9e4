package academy

import (
	"context"
	"time"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EnrollmentStatus represents whether a seat is held
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "enrolled"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment is a student's seat in a class
type Enrollment struct {
	shared.BaseEntity
	ClassID     uuid.UUID
	UserID      uuid.UUID
	Status      EnrollmentStatus
	PricePaid   decimal.Decimal
	CancelledAt *time.Time
}

// NewEnrollment creates an active enrollment at the class price
func NewEnrollment(class *MakeupClass, userID uuid.UUID) *Enrollment {
	return &Enrollment{
		BaseEntity: shared.NewBaseEntity(),
		ClassID:    class.ID,
		UserID:     userID,
		Status:     EnrollmentActive,
		PricePaid:  class.Price,
	}
}

// Cancel releases the seat
func (e *Enrollment) Cancel() error {
	if e.Status != EnrollmentActive {
		return shared.NewDomainError("INVALID_STATE", "Enrollment is already cancelled")
	}
	now := time.Now()
	e.Status = EnrollmentCancelled
	e.CancelledAt = &now
	e.Touch()
	return nil
}

// ClassRepository defines the interface for class persistence
type ClassRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MakeupClass, error)
	FindBySlug(ctx context.Context, slug string) (*MakeupClass, error)
	FindAll(ctx context.Context, filter ClassFilter) ([]MakeupClass, int64, error)
	Save(ctx context.Context, c *MakeupClass) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	// ReserveSeat increments enrolled_count only while it is below capacity
	// and the class is scheduled. It returns CLASS_FULL when no row matched.
	ReserveSeat(ctx context.Context, id uuid.UUID) error
	// ReleaseSeat decrements enrolled_count, never below zero
	ReleaseSeat(ctx context.Context, id uuid.UUID) error
	CountUpcoming(ctx context.Context, now time.Time) (int64, error)
}

// ClassFilter narrows class listings
type ClassFilter struct {
	shared.Filter
	Level       *Level
	Status      *ClassStatus
	StartsAfter *time.Time
}

// EnrollmentRepository defines the interface for enrollment persistence
type EnrollmentRepository interface {
	Create(ctx context.Context, e *Enrollment) error
	// Update persists a cancellation and returns INVALID_STATE when the
	// stored enrollment is no longer active
	Update(ctx context.Context, e *Enrollment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	FindActive(ctx context.Context, classID, userID uuid.UUID) (*Enrollment, error)
	FindByClass(ctx context.Context, classID uuid.UUID) ([]Enrollment, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Enrollment, error)
	// CancelAllForClass cancels every active enrollment of a class
	CancelAllForClass(ctx context.Context, classID uuid.UUID) (int64, error)
}
