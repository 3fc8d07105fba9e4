package persistence

import (
	"context"

	"github.com/glowstudio/backend/internal/domain/order"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrCouponExhausted is returned when the usage limit was reached concurrently
var ErrCouponExhausted = shared.NewDomainError("COUPON_EXHAUSTED", "Coupon usage limit has been reached")

// GormCouponRepository implements order.CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Coupon, error) {
	var m models.CouponModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByCode finds a coupon by its normalized code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*order.Coupon, error) {
	var m models.CouponModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", order.NormalizeCouponCode(code)).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists coupons, searching by code
func (r *GormCouponRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Coupon, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.CouponModel{})
	if filter.Search != "" {
		q = q.Where("LOWER(code) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.CouponModel
	if err := paginate(q, filter, CouponSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]order.Coupon, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates a coupon or updates its editable fields. used_count is only
// changed by ConsumeUse and ReleaseUse. The stored version is incremented
// rather than overwritten.
func (r *GormCouponRepository) Save(ctx context.Context, c *order.Coupon) error {
	m := models.CouponModelFromDomain(c)
	result := r.db.WithContext(ctx).Model(&models.CouponModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"code":             m.Code,
			"description":      m.Description,
			"type":             m.Type,
			"value":            m.Value,
			"min_order_amount": m.MinOrderAmount,
			"max_discount":     m.MaxDiscount,
			"usage_limit":      m.UsageLimit,
			"starts_at":        m.StartsAt,
			"expires_at":       m.ExpiresAt,
			"active":           m.Active,
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

// Delete removes a coupon
func (r *GormCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CouponModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode reports whether another coupon uses code
func (r *GormCouponRepository) ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.CouponModel{}).Where("code = ?", order.NormalizeCouponCode(code))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ConsumeUse increments used_count unless the usage limit is reached
func (r *GormCouponRepository) ConsumeUse(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.CouponModel{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}

// ReleaseUse decrements used_count, never below zero
func (r *GormCouponRepository) ReleaseUse(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.CouponModel{}).
		Where("id = ? AND used_count > 0", id).
		Update("used_count", gorm.Expr("used_count - 1")).Error
}

var _ order.CouponRepository = (*GormCouponRepository)(nil)
