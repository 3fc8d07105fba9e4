package persistence

import (
	"context"

	"github.com/glowstudio/backend/internal/domain/identity"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return translateError(r.db.WithContext(ctx).Create(models.UserModelFromDomain(user)).Error)
}

// Update saves user changes with an optimistic version check
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	m := models.UserModelFromDomain(user)
	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ? AND version = ?", user.ID, user.Version-1).
		Updates(map[string]any{
			"password_hash": m.PasswordHash,
			"full_name":     m.FullName,
			"phone":         m.Phone,
			"role":          m.Role,
			"status":        m.Status,
			"last_login_at": m.LastLoginAt,
			"version":       m.Version,
			"updated_at":    m.UpdatedAt,
		})
	return versionedResult(result)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var m models.UserModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	var m models.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", normalized).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// ExistsByEmail reports whether the email is taken
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", normalized).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists users with optional role, status and search filters
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.UserModel{})
	if filter.Role != nil {
		q = q.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("(LOWER(email) LIKE ? ESCAPE '\\' OR LOWER(full_name) LIKE ? ESCAPE '\\')", p, p)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserModel
	page := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}
	if err := paginate(q, page, UserSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*identity.User, len(rows))
	for i := range rows {
		users[i] = rows[i].ToDomain()
	}
	return users, total, nil
}

// versionedResult turns an optimistic update result into a domain error
func versionedResult(result *gorm.DB) error {
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
