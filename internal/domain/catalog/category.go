package catalog

import (
	"strings"

	"github.com/glowstudio/backend/internal/domain/shared"
)

// Category groups products in the storefront
type Category struct {
	shared.BaseAggregateRoot
	Name        string
	Slug        string
	Description string
	SortOrder   int
	Active      bool
}

// NewCategory creates an active category. An empty slug is derived from the name.
func NewCategory(name, slug, description string) (*Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	slug, err = shared.ResolveSlug(slug, name)
	if err != nil {
		return nil, err
	}
	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Description:       strings.TrimSpace(description),
		Active:            true,
	}, nil
}

// Update changes the category's descriptive fields
func (c *Category) Update(name, slug, description string, sortOrder int) error {
	name, err := validateCategoryName(name)
	if err != nil {
		return err
	}
	slug, err = shared.ResolveSlug(slug, name)
	if err != nil {
		return err
	}
	c.Name = name
	c.Slug = slug
	c.Description = strings.TrimSpace(description)
	c.SortOrder = sortOrder
	c.IncrementVersion()
	return nil
}

// SetActive shows or hides the category in the storefront
func (c *Category) SetActive(active bool) {
	if c.Active == active {
		return
	}
	c.Active = active
	c.IncrementVersion()
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return "", shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return name, nil
}
