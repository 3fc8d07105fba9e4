package cart

import (
	"context"
	"testing"

	"github.com/glowstudio/backend/internal/domain/catalog"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/persistence"
	"github.com/glowstudio/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, repo *persistence.GormProductRepository, name, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductDetails{Name: name, Price: decimal.RequireFromString(price)}, stock)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func newCartService(t *testing.T) (*CartService, *persistence.GormProductRepository, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	products := persistence.NewGormProductRepository(db)
	return NewCartService(persistence.NewGormCartRepository(db), products), products, db
}

func TestCartService_EmptyCartIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	svc, _, db := newCartService(t)

	resp, err := svc.GetCart(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.Subtotal.IsZero())

	var n int64
	require.NoError(t, db.Table("carts").Count(&n).Error)
	assert.Zero(t, n)
}

func TestCartService_AddMergesAndPrices(t *testing.T) {
	ctx := context.Background()
	svc, products, _ := newCartService(t)
	userID := uuid.New()
	lipstick := seedProduct(t, products, "Velvet Lipstick", "39.90", 5)
	liner := seedProduct(t, products, "Lip Liner", "19.50", 10)

	_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: lipstick.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, AddItemRequest{ProductID: liner.ID, Quantity: 1})
	require.NoError(t, err)
	resp, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: lipstick.ID, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, 4, resp.ItemCount)
	assert.Equal(t, "139.20", resp.Subtotal.StringFixed(2))

	// merged quantity may not pass stock
	_, err = svc.AddItem(ctx, userID, AddItemRequest{ProductID: lipstick.ID, Quantity: 3})
	assert.True(t, shared.IsDomainError(err, "INSUFFICIENT_STOCK"))

	reloaded, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.ItemCount)
}

func TestCartService_RejectsUnavailableProducts(t *testing.T) {
	ctx := context.Background()
	svc, products, _ := newCartService(t)
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: uuid.New(), Quantity: 1})
	assert.True(t, shared.IsDomainError(err, "PRODUCT_UNAVAILABLE"))

	p := seedProduct(t, products, "Old Palette", "80", 3)
	require.NoError(t, p.Deactivate())
	require.NoError(t, products.Save(ctx, p))

	_, err = svc.AddItem(ctx, userID, AddItemRequest{ProductID: p.ID, Quantity: 1})
	assert.True(t, shared.IsDomainError(err, "PRODUCT_UNAVAILABLE"))
}

func TestCartService_FlagsLinesThatBecameUnavailable(t *testing.T) {
	ctx := context.Background()
	svc, products, _ := newCartService(t)
	userID := uuid.New()
	keep := seedProduct(t, products, "Blush", "45", 5)
	gone := seedProduct(t, products, "Bronzer", "55", 5)

	_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: keep.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, AddItemRequest{ProductID: gone.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, gone.Deactivate())
	require.NoError(t, products.Save(ctx, gone))

	resp, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	for _, line := range resp.Items {
		assert.Equal(t, line.ProductID == keep.ID, line.Available)
	}
	assert.Equal(t, "45.00", resp.Subtotal.StringFixed(2))
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	ctx := context.Background()
	svc, products, _ := newCartService(t)
	userID := uuid.New()
	a := seedProduct(t, products, "Mascara", "35", 10)
	b := seedProduct(t, products, "Eyeliner", "25", 10)

	_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: a.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, AddItemRequest{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)

	resp, err := svc.UpdateItem(ctx, userID, a.ID, UpdateItemRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.ItemCount)

	_, err = svc.UpdateItem(ctx, userID, a.ID, UpdateItemRequest{Quantity: 11})
	assert.True(t, shared.IsDomainError(err, "INSUFFICIENT_STOCK"))

	resp, err = svc.UpdateItem(ctx, userID, a.ID, UpdateItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)

	_, err = svc.RemoveItem(ctx, userID, a.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	resp, err = svc.RemoveItem(ctx, userID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	_, err = svc.AddItem(ctx, userID, AddItemRequest{ProductID: b.ID, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, userID))
	resp, err = svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, resp.ItemCount)
}
