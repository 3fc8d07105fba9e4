package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when BusinessMetrics is built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// StoreStatsSource supplies point-in-time store figures for gauge collection
type StoreStatsSource interface {
	LowStockCount(ctx context.Context) (int64, error)
	PendingBookingCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics
type BusinessMetricsConfig struct {
	Meter       metric.Meter
	Logger      *zap.Logger
	StatsSource StoreStatsSource
}

// BusinessMetrics records studio activity: orders, bookings, class
// enrollments and gallery uploads.
type BusinessMetrics struct {
	logger *zap.Logger

	ordersPlaced     *Counter
	orderRevenue     *Counter
	bookingsCreated  *Counter
	classEnrollments *Counter
	galleryUploads   *Counter

	lowStockProducts *Gauge
	pendingBookings  *Gauge

	stats       StoreStatsSource
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// NewBusinessMetrics registers the business instruments on cfg.Meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		logger:   logger,
		stats:    cfg.StatsSource,
		stopChan: make(chan struct{}),
	}

	counters := []struct {
		dst              **Counter
		name, desc, unit string
	}{
		{&bm.ordersPlaced, "orders_placed_total", "Orders placed at checkout", "{orders}"},
		{&bm.orderRevenue, "order_revenue", "Order totals in minor currency units", "{cents}"},
		{&bm.bookingsCreated, "bookings_created_total", "Makeup bookings requested", "{bookings}"},
		{&bm.classEnrollments, "class_enrollments_total", "Makeup class enrollments", "{enrollments}"},
		{&bm.galleryUploads, "gallery_uploads_total", "Images uploaded to the gallery", "{images}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	bm.lowStockProducts, err = NewGauge(cfg.Meter, "products_low_stock", "Active products at or below the low stock threshold", "{products}")
	if err != nil {
		return nil, err
	}
	bm.pendingBookings, err = NewGauge(cfg.Meter, "bookings_pending", "Bookings awaiting confirmation", "{bookings}")
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordOrderPlaced counts an order and adds its total to revenue
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, fulfillment string, couponUsed bool, total decimal.Decimal) {
	attrs := []attribute.KeyValue{AttrFulfillment.String(fulfillment), AttrCouponUsed.Bool(couponUsed)}
	bm.ordersPlaced.Inc(ctx, attrs...)
	bm.orderRevenue.Add(ctx, total.Shift(2).IntPart(), attrs...)
}

// RecordBookingCreated counts a booking request
func (bm *BusinessMetrics) RecordBookingCreated(ctx context.Context, location string) {
	bm.bookingsCreated.Inc(ctx, AttrLocation.String(location))
}

// RecordEnrollment counts a class enrollment
func (bm *BusinessMetrics) RecordEnrollment(ctx context.Context, level string) {
	bm.classEnrollments.Inc(ctx, AttrClassLevel.String(level))
}

// RecordGalleryUpload counts a stored gallery image
func (bm *BusinessMetrics) RecordGalleryUpload(ctx context.Context, provider string) {
	bm.galleryUploads.Inc(ctx, AttrStorage.String(provider))
}

// StartPeriodicCollection samples the gauges every interval until Stop or
// ctx is done. Only the first call starts a collector.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if bm.stats == nil {
		return
	}
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collect(ctx)
	for {
		select {
		case <-bm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collect(ctx)
		}
	}
}

func (bm *BusinessMetrics) collect(ctx context.Context) {
	if n, err := bm.stats.LowStockCount(ctx); err != nil {
		bm.logger.Warn("Failed to collect low stock count", zap.Error(err))
	} else {
		bm.lowStockProducts.Record(ctx, n)
	}
	if n, err := bm.stats.PendingBookingCount(ctx); err != nil {
		bm.logger.Warn("Failed to collect pending booking count", zap.Error(err))
	} else {
		bm.pendingBookings.Record(ctx, n)
	}
}

// Stop ends periodic collection
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}
