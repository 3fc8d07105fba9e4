package setting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetting(t *testing.T) {
	s, err := NewSetting("delivery_fee", "5.00", TypeNumber, true, "Flat delivery fee")
	require.NoError(t, err)
	assert.True(t, s.IsSeeded())

	_, err = NewSetting("Bad-Key", "x", TypeString, false, "")
	assert.Error(t, err)

	_, err = NewSetting("custom", "x", ValueType("yaml"), false, "")
	assert.Error(t, err)

	custom, err := NewSetting("promo_banner", `{"text":"Sale"}`, TypeJSON, true, "")
	require.NoError(t, err)
	assert.False(t, custom.IsSeeded())
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		typ   ValueType
		value string
		ok    bool
	}{
		{TypeNumber, "12.5", true},
		{TypeNumber, "twelve", false},
		{TypeBoolean, "true", true},
		{TypeBoolean, "yes", false},
		{TypeJSON, `[1,2]`, true},
		{TypeJSON, `{bad`, false},
		{TypeString, "anything", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+tt.value, func(t *testing.T) {
			err := ValidateValue(tt.typ, tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSetting_SetValue(t *testing.T) {
	s, err := NewSetting("booking_lead_hours", "24", TypeNumber, false, "")
	require.NoError(t, err)

	assert.Error(t, s.SetValue("soon"))
	assert.Equal(t, "24", s.Value)
	require.NoError(t, s.SetValue("48"))
	assert.Equal(t, "48", s.Value)
}
