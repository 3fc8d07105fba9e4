package persistence

import (
	"context"

	"github.com/glowstudio/backend/internal/application/uow"
	"github.com/glowstudio/backend/internal/domain/academy"
	"github.com/glowstudio/backend/internal/domain/booking"
	"github.com/glowstudio/backend/internal/domain/cart"
	"github.com/glowstudio/backend/internal/domain/catalog"
	"github.com/glowstudio/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormTransactionScope implements uow.TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos uow.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx})
	})
}

// txRepositories builds repositories bound to one transaction
type txRepositories struct {
	tx *gorm.DB
}

func (r *txRepositories) Products() catalog.ProductRepository { return NewGormProductRepository(r.tx) }
func (r *txRepositories) Carts() cart.Repository              { return NewGormCartRepository(r.tx) }
func (r *txRepositories) Orders() order.Repository            { return NewGormOrderRepository(r.tx) }
func (r *txRepositories) Coupons() order.CouponRepository     { return NewGormCouponRepository(r.tx) }
func (r *txRepositories) Bookings() booking.Repository        { return NewGormBookingRepository(r.tx) }
func (r *txRepositories) Classes() academy.ClassRepository    { return NewGormMakeupClassRepository(r.tx) }
func (r *txRepositories) Enrollments() academy.EnrollmentRepository {
	return NewGormEnrollmentRepository(r.tx)
}

var (
	_ uow.TransactionScope = (*GormTransactionScope)(nil)
	_ uow.Repositories     = (*txRepositories)(nil)
)
