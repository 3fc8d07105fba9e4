package persistence

import (
	"context"

	"github.com/glowstudio/backend/internal/domain/setting"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingRepository implements setting.Repository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// FindAll lists every setting ordered by key
func (r *GormSettingRepository) FindAll(ctx context.Context) ([]setting.Setting, error) {
	var rows []models.SettingModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]setting.Setting, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindByKey finds a setting by key
func (r *GormSettingRepository) FindByKey(ctx context.Context, key string) (*setting.Setting, error) {
	var m models.SettingModel
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// SaveAll upserts the settings in one transaction
func (r *GormSettingRepository) SaveAll(ctx context.Context, settings []setting.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	rows := make([]models.SettingModel, len(settings))
	for i := range settings {
		rows[i] = *models.SettingModelFromDomain(&settings[i])
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "type", "public", "description", "updated_at"}),
		}).Create(&rows).Error
	})
}

// Delete removes a setting by key
func (r *GormSettingRepository) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.SettingModel{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ setting.Repository = (*GormSettingRepository)(nil)
