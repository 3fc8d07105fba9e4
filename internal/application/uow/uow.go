// Package uow defines the transaction boundary shared by the application services.
package uow

import (
	"context"

	"github.com/glowstudio/backend/internal/domain/academy"
	"github.com/glowstudio/backend/internal/domain/booking"
	"github.com/glowstudio/backend/internal/domain/cart"
	"github.com/glowstudio/backend/internal/domain/catalog"
	"github.com/glowstudio/backend/internal/domain/order"
)

// TransactionScope runs a function inside one database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories gives access to the repositories that take part in
// multi-aggregate writes. Everything returned shares the same transaction.
type Repositories interface {
	Products() catalog.ProductRepository
	Carts() cart.Repository
	Orders() order.Repository
	Coupons() order.CouponRepository
	Bookings() booking.Repository
	Classes() academy.ClassRepository
	Enrollments() academy.EnrollmentRepository
}

// Static is a TransactionScope over fixed repositories without a real transaction.
// Services use it in unit tests with in-memory fakes.
type Static struct {
	ProductRepo    catalog.ProductRepository
	CartRepo       cart.Repository
	OrderRepo      order.Repository
	CouponRepo     order.CouponRepository
	BookingRepo    booking.Repository
	ClassRepo      academy.ClassRepository
	EnrollmentRepo academy.EnrollmentRepository
}

// Execute calls fn with the fixed repositories
func (s *Static) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

func (s *Static) Products() catalog.ProductRepository       { return s.ProductRepo }
func (s *Static) Carts() cart.Repository                    { return s.CartRepo }
func (s *Static) Orders() order.Repository                  { return s.OrderRepo }
func (s *Static) Coupons() order.CouponRepository           { return s.CouponRepo }
func (s *Static) Bookings() booking.Repository              { return s.BookingRepo }
func (s *Static) Classes() academy.ClassRepository          { return s.ClassRepo }
func (s *Static) Enrollments() academy.EnrollmentRepository { return s.EnrollmentRepo }

var (
	_ TransactionScope = (*Static)(nil)
	_ Repositories     = (*Static)(nil)
)
