package setting

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/setting"
)

// SettingInput is one entry of an upsert request. Type defaults to the stored
// type for existing keys and to string for new ones.
type SettingInput struct {
	Key         string  `json:"key" binding:"required,max=64"`
	Value       string  `json:"value" binding:"max=4000"`
	Type        string  `json:"type" binding:"omitempty,oneof=string number boolean json"`
	Public      *bool   `json:"public"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// UpsertSettingsRequest updates many settings in one call
type UpsertSettingsRequest struct {
	Settings []SettingInput `json:"settings" binding:"required,min=1,max=100,dive"`
}

// SettingResponse represents a setting in API responses
type SettingResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Type        string    `json:"type"`
	Public      bool      `json:"public"`
	Description string    `json:"description"`
	Seeded      bool      `json:"seeded"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSettingResponse converts a domain Setting to SettingResponse
func ToSettingResponse(s *setting.Setting) SettingResponse {
	return SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Type:        string(s.Type),
		Public:      s.Public,
		Description: s.Description,
		Seeded:      s.IsSeeded(),
		UpdatedAt:   s.UpdatedAt,
	}
}
