package order

import (
	"context"
	"time"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for order persistence
type Repository interface {
	// Create inserts the order and its items
	Create(ctx context.Context, o *Order) error
	// Update saves header changes using the aggregate version for optimistic locking
	Update(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter Filter) ([]Order, int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	PaidRevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
}

// Filter narrows order listings
type Filter struct {
	shared.Filter
	UserID        *uuid.UUID
	Status        *Status
	PaymentStatus *PaymentStatus
	From          *time.Time
	To            *time.Time
}

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Coupon, int64, error)
	Save(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)
	// ConsumeUse increments used_count unless the usage limit is reached
	ConsumeUse(ctx context.Context, id uuid.UUID) error
	// ReleaseUse decrements used_count, never below zero
	ReleaseUse(ctx context.Context, id uuid.UUID) error
}
