package persistence

import (
	"testing"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE users;--", "DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "price", ValidateSortField("price", ProductSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("price; DROP TABLE", ProductSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", ProductSortFields, "created_at"))
}

func TestOrderClause(t *testing.T) {
	f := shared.Filter{OrderBy: "start_at", OrderDir: "asc"}
	assert.Equal(t, "start_at ASC", orderClause(f, BookingSortFields, "created_at"))
	assert.Equal(t, "created_at DESC", orderClause(shared.Filter{OrderBy: "nope"}, BookingSortFields, "created_at"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%lip%", likePattern("  LIP "))
	assert.Equal(t, `%50\%%`, likePattern("50%"))
}
