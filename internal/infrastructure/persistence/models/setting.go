package models

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/setting"
)

// SettingModel is one row of the key/value settings table.
type SettingModel struct {
	Key         string            `gorm:"type:varchar(64);primaryKey"`
	Value       string            `gorm:"type:text;not null"`
	Type        setting.ValueType `gorm:"type:varchar(20);not null;default:'string'"`
	Public      bool              `gorm:"not null;default:false"`
	Description string            `gorm:"type:text"`
	UpdatedAt   time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Setting.
func (m *SettingModel) ToDomain() *setting.Setting {
	return &setting.Setting{
		Key:         m.Key,
		Value:       m.Value,
		Type:        m.Type,
		Public:      m.Public,
		Description: m.Description,
		UpdatedAt:   m.UpdatedAt,
	}
}

// SettingModelFromDomain creates a persistence model from a domain Setting.
func SettingModelFromDomain(s *setting.Setting) *SettingModel {
	return &SettingModel{
		Key:         s.Key,
		Value:       s.Value,
		Type:        s.Type,
		Public:      s.Public,
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt,
	}
}
