package setting

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ValueType describes how a setting value is parsed
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeJSON    ValueType = "json"
)

// IsValid checks if the value type is known
func (t ValueType) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeJSON:
		return true
	}
	return false
}

// Well-known keys read by other modules
const (
	KeyStoreName             = "store_name"
	KeyCurrency              = "currency"
	KeyContactEmail          = "contact_email"
	KeyContactPhone          = "contact_phone"
	KeyAddress               = "address"
	KeyDeliveryFee           = "delivery_fee"
	KeyFreeDeliveryThreshold = "free_delivery_threshold"
	KeyHomeServiceFee        = "home_service_fee"
	KeyBookingLeadHours      = "booking_lead_hours"
	KeyBusinessOpenHour      = "business_open_hour"
	KeyBusinessCloseHour     = "business_close_hour"
	KeyInstagramURL          = "instagram_url"
)

// SeededKeys are created by migration and cannot be deleted
var SeededKeys = map[string]bool{
	KeyStoreName:             true,
	KeyCurrency:              true,
	KeyContactEmail:          true,
	KeyContactPhone:          true,
	KeyAddress:               true,
	KeyDeliveryFee:           true,
	KeyFreeDeliveryThreshold: true,
	KeyHomeServiceFee:        true,
	KeyBookingLeadHours:      true,
	KeyBusinessOpenHour:      true,
	KeyBusinessCloseHour:     true,
	KeyInstagramURL:          true,
}

var keyPattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// Setting is one admin-editable configuration value
type Setting struct {
	Key         string
	Value       string
	Type        ValueType
	Public      bool
	Description string
	UpdatedAt   time.Time
}

// NewSetting validates and builds a setting
func NewSetting(key, value string, typ ValueType, public bool, description string) (*Setting, error) {
	key = strings.TrimSpace(key)
	if !keyPattern.MatchString(key) {
		return nil, shared.NewDomainError("INVALID_SETTING_KEY", "Setting key must match [a-z0-9_] and be at most 64 characters")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_SETTING_TYPE", "Setting type must be string, number, boolean or json")
	}
	if err := ValidateValue(typ, value); err != nil {
		return nil, err
	}
	return &Setting{
		Key:         key,
		Value:       value,
		Type:        typ,
		Public:      public,
		Description: strings.TrimSpace(description),
		UpdatedAt:   time.Now(),
	}, nil
}

// SetValue replaces the value after validating it against the setting's type
func (s *Setting) SetValue(value string) error {
	if err := ValidateValue(s.Type, value); err != nil {
		return err
	}
	s.Value = value
	s.UpdatedAt = time.Now()
	return nil
}

// IsSeeded reports whether the key is a built-in setting
func (s *Setting) IsSeeded() bool {
	return SeededKeys[s.Key]
}

// ValidateValue checks value parses as typ
func ValidateValue(typ ValueType, value string) error {
	switch typ {
	case TypeNumber:
		if _, err := decimal.NewFromString(strings.TrimSpace(value)); err != nil {
			return shared.NewDomainError("INVALID_SETTING_VALUE", "Value must be a number")
		}
	case TypeBoolean:
		if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return shared.NewDomainError("INVALID_SETTING_VALUE", "Value must be true or false")
		}
	case TypeJSON:
		if !json.Valid([]byte(value)) {
			return shared.NewDomainError("INVALID_SETTING_VALUE", "Value must be valid JSON")
		}
	}
	if len(value) > 4000 {
		return shared.NewDomainError("INVALID_SETTING_VALUE", "Value cannot exceed 4000 characters")
	}
	return nil
}

// Repository defines the interface for settings persistence
type Repository interface {
	FindAll(ctx context.Context) ([]Setting, error)
	FindByKey(ctx context.Context, key string) (*Setting, error)
	// SaveAll upserts the settings in one transaction
	SaveAll(ctx context.Context, settings []Setting) error
	Delete(ctx context.Context, key string) error
}

// Reader gives typed access to settings with fallbacks
type Reader interface {
	String(ctx context.Context, key, def string) string
	Int(ctx context.Context, key string, def int) int
	Decimal(ctx context.Context, key string, def decimal.Decimal) decimal.Decimal
}
