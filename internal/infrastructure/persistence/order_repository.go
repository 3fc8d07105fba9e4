package persistence

import (
	"context"
	"time"

	"github.com/glowstudio/backend/internal/domain/order"
	"github.com/glowstudio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order with its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return translateError(r.db.WithContext(ctx).Create(models.OrderModelFromDomain(o)).Error)
}

// Update saves header changes. Items are immutable after placement.
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	m := models.OrderModelFromDomain(o)
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]any{
			"status":         m.Status,
			"payment_status": m.PaymentStatus,
			"cancel_reason":  m.CancelReason,
			"confirmed_at":   m.ConfirmedAt,
			"shipped_at":     m.ShippedAt,
			"delivered_at":   m.DeliveredAt,
			"cancelled_at":   m.CancelledAt,
			"paid_at":        m.PaidAt,
			"version":        m.Version,
			"updated_at":     m.UpdatedAt,
		})
	return versionedResult(result)
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var m models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists orders with their items
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]order.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		q = q.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(number) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.OrderModel
	if err := paginate(q, filter.Filter, OrderSortFields, "created_at").
		Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]order.Order, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// CountByStatus returns the number of orders per status
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[order.Status]int64, error) {
	var rows []struct {
		Status order.Status
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[order.Status]int64, len(order.AllStatuses))
	for _, s := range order.AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// PaidRevenueSince sums totals of paid orders placed since the given time
func (r *GormOrderRepository) PaidRevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("SUM(total)").
		Where("payment_status = ? AND created_at >= ?", order.PaymentPaid, since).
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal.Round(2), nil
}

var _ order.Repository = (*GormOrderRepository)(nil)
