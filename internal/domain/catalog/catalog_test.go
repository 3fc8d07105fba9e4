package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() ProductDetails {
	return ProductDetails{
		Name:        "Velvet Matte Lipstick",
		Description: "Long wear",
		Price:       decimal.RequireFromString("24.50"),
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("creates active product with derived slug", func(t *testing.T) {
		p, err := NewProduct(validDetails(), 10)

		require.NoError(t, err)
		assert.Equal(t, "velvet-matte-lipstick", p.Slug)
		assert.Equal(t, ProductStatusActive, p.Status)
		assert.Equal(t, 10, p.Stock)
		assert.True(t, p.IsActive())
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewProduct(validDetails(), -1)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		d := validDetails()
		d.Price = decimal.Zero
		_, err := NewProduct(d, 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Price must be greater than zero")
	})

	t.Run("rejects compare-at price not above price", func(t *testing.T) {
		d := validDetails()
		cmp := decimal.RequireFromString("20.00")
		d.CompareAtPrice = &cmp
		_, err := NewProduct(d, 1)
		assert.Error(t, err)
	})

	t.Run("rounds prices to cents", func(t *testing.T) {
		d := validDetails()
		d.Price = decimal.RequireFromString("9.999")
		p, err := NewProduct(d, 1)
		require.NoError(t, err)
		assert.Equal(t, "10", p.Price.String())
	})
}

func TestProduct_StatusTransitions(t *testing.T) {
	p, err := NewProduct(validDetails(), 3)
	require.NoError(t, err)

	assert.Error(t, p.Activate())
	require.NoError(t, p.Deactivate())
	assert.False(t, p.IsActive())
	assert.Error(t, p.Deactivate())
	require.NoError(t, p.Activate())
	assert.Equal(t, 3, p.Version)
}

func TestProduct_Stock(t *testing.T) {
	p, err := NewProduct(validDetails(), 3)
	require.NoError(t, err)

	assert.True(t, p.CanFulfill(3))
	assert.False(t, p.CanFulfill(4))
	assert.False(t, p.CanFulfill(0))
	assert.True(t, p.IsLowStock())
}

func TestCategory(t *testing.T) {
	c, err := NewCategory("Skin Care", "", "Cleansers and serums")
	require.NoError(t, err)
	assert.Equal(t, "skin-care", c.Slug)
	assert.True(t, c.Active)

	require.NoError(t, c.Update("Skincare", "skincare", "", 2))
	assert.Equal(t, "skincare", c.Slug)
	assert.Equal(t, 2, c.SortOrder)

	_, err = NewCategory("", "", "")
	assert.Error(t, err)
}
