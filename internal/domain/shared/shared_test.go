package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalize(t *testing.T) {
	t.Run("applies defaults to zero values", func(t *testing.T) {
		f := Filter{}
		f.Normalize()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, DefaultPageSize, f.PageSize)
		assert.Equal(t, "desc", f.OrderDir)
		assert.NotNil(t, f.Filters)
	})

	t.Run("caps page size", func(t *testing.T) {
		f := Filter{Page: 3, PageSize: 1000, OrderDir: "asc"}
		f.Normalize()
		assert.Equal(t, MaxPageSize, f.PageSize)
		assert.Equal(t, "asc", f.OrderDir)
		assert.Equal(t, 200, f.Offset())
	})
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(41), p.Total)

	empty := NewPaginated[string](nil, 0, 1, 20)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("load product: %w", NewDomainError("NOT_FOUND", "Product not found"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAlreadyExists))
	assert.True(t, IsDomainError(err, "NOT_FOUND"))
	assert.False(t, IsDomainError(errors.New("plain"), "NOT_FOUND"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bridal Glow Kit", "bridal-glow-kit"},
		{"  Crème Brûlée Lipstick!! ", "creme-brulee-lipstick"},
		{"Eye & Brow -- Set", "eye-brow-set"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestResolveSlug(t *testing.T) {
	slug, err := ResolveSlug("", "Matte Foundation")
	assert.NoError(t, err)
	assert.Equal(t, "matte-foundation", slug)

	slug, err = ResolveSlug("custom-slug", "ignored")
	assert.NoError(t, err)
	assert.Equal(t, "custom-slug", slug)

	_, err = ResolveSlug("Bad Slug", "x")
	assert.Error(t, err)

	_, err = ResolveSlug("", "???")
	assert.Error(t, err)
}
