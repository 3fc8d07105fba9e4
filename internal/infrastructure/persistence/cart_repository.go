package persistence

import (
	"context"

	"github.com/glowstudio/backend/internal/domain/cart"
	"github.com/glowstudio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUserID loads the user's cart with its items
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return r.find(r.db.WithContext(ctx), userID)
}

// FindByUserIDForUpdate locks the cart row for the rest of the transaction
// before reading its items, so a checkout waiting on the lock sees the cart
// the previous one left behind.
func (r *GormCartRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *GormCartRepository) find(q *gorm.DB, userID uuid.UUID) (*cart.Cart, error) {
	var m models.CartModel
	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Where("user_id = ?", userID).
		First(&m).Error
	if err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// Save inserts a new cart, or updates the header only while the stored
// version is still the one the cart was loaded at, then replaces the items.
// Losing either race yields CONCURRENCY_CONFLICT.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	m := models.CartModelFromDomain(c)
	items := m.Items
	m.Items = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var result *gorm.DB
		if c.StoredVersion() == 0 {
			// user_id is unique, so a parallel first save for the same user does nothing here
			result = tx.Clauses(clause.OnConflict{DoNothing: true}).Omit("Items").Create(m)
		} else {
			result = tx.Model(&models.CartModel{}).
				Where("id = ? AND version = ?", m.ID, c.StoredVersion()).
				Updates(map[string]any{
					"version":    m.Version,
					"updated_at": m.UpdatedAt,
				})
		}
		if err := versionedResult(result); err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", m.ID).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return translateError(tx.Create(&items).Error)
	})
	if err != nil {
		return err
	}
	c.MarkStored()
	return nil
}

var _ cart.Repository = (*GormCartRepository)(nil)
