package persistence

import (
	"strings"

	"github.com/glowstudio/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// Allowed sort columns per listing
var (
	ProductSortFields = map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"price":      true,
		"stock":      true,
	}
	OrderSortFields = map[string]bool{
		"created_at": true,
		"number":     true,
		"total":      true,
		"status":     true,
	}
	CouponSortFields = map[string]bool{
		"created_at": true,
		"code":       true,
		"expires_at": true,
		"used_count": true,
	}
	BookingSortFields = map[string]bool{
		"created_at": true,
		"start_at":   true,
		"status":     true,
		"price":      true,
	}
	ClassSortFields = map[string]bool{
		"created_at": true,
		"start_at":   true,
		"title":      true,
		"price":      true,
	}
	GallerySortFields = map[string]bool{
		"created_at": true,
		"sort_order": true,
		"title":      true,
	}
	TestimonialSortFields = map[string]bool{
		"created_at": true,
		"rating":     true,
	}
	UserSortFields = map[string]bool{
		"created_at":    true,
		"email":         true,
		"full_name":     true,
		"last_login_at": true,
	}
)

// orderClause builds a safe ORDER BY expression from a filter
func orderClause(f shared.Filter, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(f.OrderBy, allowed, defaultField) + " " + ValidateSortOrder(f.OrderDir)
}

// paginate applies ordering, offset and limit after normalizing the filter
func paginate(q *gorm.DB, f shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	f.Normalize()
	return q.Order(orderClause(f, allowed, defaultField)).Offset(f.Offset()).Limit(f.PageSize)
}

// likePattern lowercases s and wraps it for a LIKE comparison against LOWER(column)
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
