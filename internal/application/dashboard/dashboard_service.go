package dashboard

import (
	"context"
	"time"

	"github.com/glowstudio/backend/internal/domain/academy"
	"github.com/glowstudio/backend/internal/domain/booking"
	"github.com/glowstudio/backend/internal/domain/catalog"
	"github.com/glowstudio/backend/internal/domain/order"
	"github.com/glowstudio/backend/internal/domain/testimonial"
	"github.com/glowstudio/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// LowStockThreshold is the stock level at or below which a product needs restocking
	LowStockThreshold = 5
	revenueWindow     = 30 * 24 * time.Hour
)

// SummaryResponse is the admin dashboard overview
type SummaryResponse struct {
	OrdersByStatus      map[string]int64 `json:"orders_by_status"`
	Revenue30d          decimal.Decimal  `json:"revenue_30d"`
	PendingBookings     int64            `json:"pending_bookings"`
	UpcomingClasses     int64            `json:"upcoming_classes"`
	PendingTestimonials int64            `json:"pending_testimonials"`
	LowStockProducts    int64            `json:"low_stock_products"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

// DashboardService aggregates figures across the studio's modules
type DashboardService struct {
	orders       order.Repository
	products     catalog.ProductRepository
	bookings     booking.Repository
	classes      academy.ClassRepository
	testimonials testimonial.Repository
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	orders order.Repository,
	products catalog.ProductRepository,
	bookings booking.Repository,
	classes academy.ClassRepository,
	testimonials testimonial.Repository,
) *DashboardService {
	return &DashboardService{
		orders:       orders,
		products:     products,
		bookings:     bookings,
		classes:      classes,
		testimonials: testimonials,
		now:          time.Now,
	}
}

// Summary collects the dashboard figures. The queries run concurrently and
// the first failure cancels the rest.
func (s *DashboardService) Summary(ctx context.Context) (*SummaryResponse, error) {
	now := s.now()
	resp := &SummaryResponse{GeneratedAt: now}
	var byStatus map[order.Status]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byStatus, err = s.orders.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Revenue30d, err = s.orders.PaidRevenueSince(gctx, now.Add(-revenueWindow))
		return err
	})
	g.Go(func() (err error) {
		resp.PendingBookings, err = s.PendingBookingCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.UpcomingClasses, err = s.classes.CountUpcoming(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		resp.PendingTestimonials, err = s.testimonials.CountByStatus(gctx, testimonial.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		resp.LowStockProducts, err = s.LowStockCount(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp.OrdersByStatus = make(map[string]int64, len(byStatus))
	for status, n := range byStatus {
		resp.OrdersByStatus[string(status)] = n
	}
	resp.Revenue30d = resp.Revenue30d.Round(2)
	return resp, nil
}

// LowStockCount counts active products at or below LowStockThreshold
func (s *DashboardService) LowStockCount(ctx context.Context) (int64, error) {
	return s.products.CountLowStock(ctx, LowStockThreshold)
}

// PendingBookingCount counts bookings awaiting confirmation
func (s *DashboardService) PendingBookingCount(ctx context.Context) (int64, error) {
	return s.bookings.CountByStatus(ctx, booking.StatusPending)
}

var _ telemetry.StoreStatsSource = (*DashboardService)(nil)
