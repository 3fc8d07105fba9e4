package shared

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugSplitter = regexp.MustCompile(`[^a-z0-9]+`)
)

// MaxSlugLength is the longest slug accepted by ValidateSlug
const MaxSlugLength = 120

// Slugify converts a display name into a URL slug. Accents are folded
// ("Crème Brûlée" becomes "creme-brulee").
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	slug := slugSplitter.ReplaceAllString(strings.ToLower(folded), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

// IsValidSlug reports whether s is a lowercase hyphenated slug
func IsValidSlug(s string) bool {
	return len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}

// ResolveSlug returns the explicit slug when given, otherwise one derived from name
func ResolveSlug(explicit, name string) (string, error) {
	slug := strings.TrimSpace(explicit)
	if slug == "" {
		slug = Slugify(name)
	}
	if !IsValidSlug(slug) {
		return "", NewDomainError("INVALID_SLUG", "Slug must contain only lowercase letters, digits and hyphens")
	}
	return slug, nil
}
