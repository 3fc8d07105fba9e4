package order

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/glowstudio/backend/internal/domain/cart"
	"github.com/glowstudio/backend/internal/domain/catalog"
	"github.com/glowstudio/backend/internal/domain/identity"
	"github.com/glowstudio/backend/internal/domain/order"
	"github.com/glowstudio/backend/internal/domain/setting"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/cache"
	"github.com/glowstudio/backend/internal/infrastructure/persistence"
	"github.com/glowstudio/backend/internal/infrastructure/printing"
	"github.com/glowstudio/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// staticSettings is a setting.Reader over fixed values
type staticSettings map[string]string

func (s staticSettings) String(_ context.Context, key, def string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return def
}

func (s staticSettings) Int(_ context.Context, key string, def int) int {
	if n, err := strconv.Atoi(s[key]); err == nil {
		return n
	}
	return def
}

func (s staticSettings) Decimal(_ context.Context, key string, def decimal.Decimal) decimal.Decimal {
	if d, err := decimal.NewFromString(s[key]); err == nil {
		return d
	}
	return def
}

var _ setting.Reader = staticSettings{}

type fixture struct {
	db       *gorm.DB
	svc      *OrderService
	coupons  *CouponService
	products *persistence.GormProductRepository
	carts    *persistence.GormCartRepository
	couponDB *persistence.GormCouponRepository
	users    *persistence.GormUserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	f := &fixture{
		db:       db,
		products: persistence.NewGormProductRepository(db),
		carts:    persistence.NewGormCartRepository(db),
		couponDB: persistence.NewGormCouponRepository(db),
		users:    persistence.NewGormUserRepository(db),
	}
	f.svc = NewOrderService(OrderServiceDeps{
		Tx:     persistence.NewGormTransactionScope(db),
		Orders: persistence.NewGormOrderRepository(db),
		Users:  f.users,
		Settings: staticSettings{
			setting.KeyStoreName:             "Glow Studio",
			setting.KeyCurrency:              "USD",
			setting.KeyDeliveryFee:           "15",
			setting.KeyFreeDeliveryThreshold: "500",
		},
		Idempotency: cache.NewInMemoryIdempotencyStore(),
		Printer:     printing.NewInvoicePrinter(nil),
		Logger:      zaptest.NewLogger(t),
	})
	f.coupons = NewCouponService(f.couponDB, zaptest.NewLogger(t))
	return f
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductDetails{Name: name, Price: decimal.RequireFromString(price)}, stock)
	require.NoError(t, err)
	require.NoError(t, f.products.Save(context.Background(), p))
	return p
}

func (f *fixture) customer(t *testing.T, email string) *identity.User {
	t.Helper()
	u, err := identity.NewCustomer(email, "s3cret-pass", "Ana Lima")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) fillCart(t *testing.T, userID uuid.UUID, lines map[*catalog.Product]int) {
	t.Helper()
	c, err := f.carts.FindByUserID(context.Background(), userID)
	if errors.Is(err, shared.ErrNotFound) {
		c = cart.NewCart(userID)
	} else {
		require.NoError(t, err)
		c.Clear()
	}
	for p, qty := range lines {
		_, err := c.AddItem(p.ID, qty)
		require.NoError(t, err)
	}
	require.NoError(t, f.carts.Save(context.Background(), c))
}

func (f *fixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func deliveryRequest() CheckoutRequest {
	return CheckoutRequest{
		Fulfillment:     "delivery",
		DeliveryAddress: "12 Rose Street",
		ContactPhone:    "+15551234567",
	}
}

func TestCheckout_PlacesOrderWithCouponAndDeliveryFee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "ana@example.com")
	foundation := f.product(t, "Silk Foundation", "100", 5)

	_, err := f.coupons.Create(ctx, CouponRequest{Code: "glow10", Type: "percentage", Value: decimal.NewFromInt(10)})
	require.NoError(t, err)
	f.fillCart(t, u.ID, map[*catalog.Product]int{foundation: 2})

	req := deliveryRequest()
	req.CouponCode = "GLOW10"
	resp, err := f.svc.Checkout(ctx, u.ID, "", req)
	require.NoError(t, err)

	assert.Equal(t, "200.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "20.00", resp.Discount.StringFixed(2))
	assert.Equal(t, "15.00", resp.DeliveryFee.StringFixed(2))
	assert.Equal(t, "195.00", resp.Total.StringFixed(2))
	assert.Equal(t, "GLOW10", resp.CouponCode)
	assert.Equal(t, string(order.StatusPending), resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Silk Foundation", resp.Items[0].ProductName)

	assert.Equal(t, 3, f.stock(t, foundation.ID))
	c, err := f.couponDB.FindByCode(ctx, "GLOW10")
	require.NoError(t, err)
	assert.Equal(t, 1, c.UsedCount)
	saved, err := f.carts.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, saved.IsEmpty())
}

func TestCheckout_FreeDeliveryAndPickup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "bea@example.com")
	palette := f.product(t, "Eye Palette", "260", 10)

	f.fillCart(t, u.ID, map[*catalog.Product]int{palette: 2})
	resp, err := f.svc.Checkout(ctx, u.ID, "", deliveryRequest())
	require.NoError(t, err)
	assert.True(t, resp.DeliveryFee.IsZero())
	assert.Equal(t, "520.00", resp.Total.StringFixed(2))

	f.fillCart(t, u.ID, map[*catalog.Product]int{palette: 1})
	resp, err = f.svc.Checkout(ctx, u.ID, "", CheckoutRequest{Fulfillment: "pickup", ContactPhone: "+15551234567"})
	require.NoError(t, err)
	assert.True(t, resp.DeliveryFee.IsZero())
	assert.Empty(t, resp.DeliveryAddress)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Checkout(context.Background(), uuid.New(), "", deliveryRequest())
	assert.True(t, shared.IsDomainError(err, "CART_EMPTY"))
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "cai@example.com")
	plenty := f.product(t, "Setting Spray", "30", 10)
	scarce := f.product(t, "Limited Highlighter", "70", 1)

	f.fillCart(t, u.ID, map[*catalog.Product]int{plenty: 2, scarce: 2})
	_, err := f.svc.Checkout(ctx, u.ID, "", deliveryRequest())
	require.Error(t, err)
	assert.True(t, shared.IsDomainError(err, "INSUFFICIENT_STOCK"))
	assert.Contains(t, err.Error(), "Limited Highlighter")

	assert.Equal(t, 10, f.stock(t, plenty.ID))
	assert.Equal(t, 1, f.stock(t, scarce.ID))
	saved, err := f.carts.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, saved.ItemCount())
}

func TestCheckout_InactiveProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "dee@example.com")
	p := f.product(t, "Discontinued Gloss", "20", 5)
	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 1})

	require.NoError(t, p.Deactivate())
	require.NoError(t, f.products.Save(ctx, p))

	_, err := f.svc.Checkout(ctx, u.ID, "", deliveryRequest())
	assert.True(t, shared.IsDomainError(err, "PRODUCT_UNAVAILABLE"))
}

func TestCheckout_CouponRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "eve@example.com")
	p := f.product(t, "Brow Gel", "20", 5)
	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 1})

	req := deliveryRequest()
	req.CouponCode = "NOPE"
	_, err := f.svc.Checkout(ctx, u.ID, "", req)
	assert.True(t, shared.IsDomainError(err, "COUPON_INVALID"))

	_, err = f.coupons.Create(ctx, CouponRequest{
		Code: "BIG50", Type: "fixed", Value: decimal.NewFromInt(50), MinOrderAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	req.CouponCode = "BIG50"
	_, err = f.svc.Checkout(ctx, u.ID, "", req)
	assert.True(t, shared.IsDomainError(err, "COUPON_MIN_NOT_MET"))
	assert.Equal(t, 5, f.stock(t, p.ID))
}

func TestCheckout_IdempotencyKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "fay@example.com")
	p := f.product(t, "Lip Oil", "25", 5)

	// a failed attempt releases the key
	_, err := f.svc.Checkout(ctx, u.ID, "key-1", deliveryRequest())
	require.True(t, shared.IsDomainError(err, "CART_EMPTY"))

	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 1})
	_, err = f.svc.Checkout(ctx, u.ID, "key-1", deliveryRequest())
	require.NoError(t, err)

	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 1})
	_, err = f.svc.Checkout(ctx, u.ID, "key-1", deliveryRequest())
	assert.True(t, shared.IsDomainError(err, "CONFLICT"))
	assert.Equal(t, 4, f.stock(t, p.ID))

	// keys are scoped per user
	other := f.customer(t, "gil@example.com")
	f.fillCart(t, other.ID, map[*catalog.Product]int{p: 1})
	_, err = f.svc.Checkout(ctx, other.ID, "key-1", deliveryRequest())
	assert.NoError(t, err)
}

func TestPreviewCheckout_DoesNotWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "hal@example.com")
	p := f.product(t, "Primer", "40", 3)
	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 2})

	preview, err := f.svc.PreviewCheckout(ctx, u.ID, deliveryRequest())
	require.NoError(t, err)
	assert.Equal(t, "95.00", preview.Total.StringFixed(2))
	require.Len(t, preview.Items, 1)
	assert.Equal(t, "80.00", preview.Items[0].LineTotal.StringFixed(2))

	assert.Equal(t, 3, f.stock(t, p.ID))
	var n int64
	require.NoError(t, f.db.Table("orders").Count(&n).Error)
	assert.Zero(t, n)
}

func TestCancelMine_RestoresStockAndCoupon(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "ivy@example.com")
	p := f.product(t, "Concealer", "50", 4)
	_, err := f.coupons.Create(ctx, CouponRequest{Code: "FIVE", Type: "fixed", Value: decimal.NewFromInt(5)})
	require.NoError(t, err)

	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 3})
	req := deliveryRequest()
	req.CouponCode = "five"
	placed, err := f.svc.Checkout(ctx, u.ID, "", req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t, p.ID))

	_, err = f.svc.CancelMine(ctx, uuid.New(), placed.ID, CancelOrderRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	cancelled, err := f.svc.CancelMine(ctx, u.ID, placed.ID, CancelOrderRequest{Reason: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, string(order.StatusCancelled), cancelled.Status)
	assert.Equal(t, "changed my mind", cancelled.CancelReason)
	assert.Equal(t, 4, f.stock(t, p.ID))

	c, err := f.couponDB.FindByCode(ctx, "FIVE")
	require.NoError(t, err)
	assert.Zero(t, c.UsedCount)

	_, err = f.svc.CancelMine(ctx, u.ID, placed.ID, CancelOrderRequest{})
	assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))
}

func TestCancelMine_OnlyPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "jo@example.com")
	p := f.product(t, "Bronzer", "30", 4)
	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 1})
	placed, err := f.svc.Checkout(ctx, u.ID, "", deliveryRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, placed.ID, UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	_, err = f.svc.CancelMine(ctx, u.ID, placed.ID, CancelOrderRequest{})
	assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))

	// staff may still cancel a confirmed order
	resp, err := f.svc.UpdateStatus(ctx, placed.ID, UpdateStatusRequest{Status: "cancelled", Reason: "out of stock at supplier"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, 4, f.stock(t, p.ID))
}

func TestUpdateStatus_FollowsLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "kim@example.com")
	p := f.product(t, "Mascara", "30", 4)
	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 1})
	placed, err := f.svc.Checkout(ctx, u.ID, "", CheckoutRequest{Fulfillment: "pickup", ContactPhone: "+15551234567"})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, placed.ID, UpdateStatusRequest{Status: "shipped"})
	assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))

	for _, st := range []string{"confirmed", "processing", "ready_for_pickup", "delivered"} {
		resp, err := f.svc.UpdateStatus(ctx, placed.ID, UpdateStatusRequest{Status: st})
		require.NoError(t, err, st)
		assert.Equal(t, st, resp.Status)
	}

	_, err = f.svc.UpdateStatus(ctx, placed.ID, UpdateStatusRequest{Status: "cancelled"})
	assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))
}

func TestPaymentStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "lu@example.com")
	p := f.product(t, "Toner", "22", 4)
	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 1})
	placed, err := f.svc.Checkout(ctx, u.ID, "", deliveryRequest())
	require.NoError(t, err)

	_, err = f.svc.MarkRefunded(ctx, placed.ID)
	assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))

	resp, err := f.svc.MarkPaid(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.NotNil(t, resp.PaidAt)

	resp, err = f.svc.MarkRefunded(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "refunded", resp.PaymentStatus)
}

func TestListAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "mo@example.com")
	other := f.customer(t, "ned@example.com")
	p := f.product(t, "Cleanser", "18", 10)

	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 1})
	mine, err := f.svc.Checkout(ctx, u.ID, "", deliveryRequest())
	require.NoError(t, err)
	f.fillCart(t, other.ID, map[*catalog.Product]int{p: 1})
	_, err = f.svc.Checkout(ctx, other.ID, "", deliveryRequest())
	require.NoError(t, err)

	list, err := f.svc.ListMine(ctx, u.ID, OrderListFilter{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, mine.ID, list.Items[0].ID)

	all, err := f.svc.ListAll(ctx, OrderListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	byNumber, err := f.svc.ListAll(ctx, OrderListFilter{Search: mine.Number})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byNumber.Total)

	_, err = f.svc.GetMine(ctx, other.ID, mine.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	got, err := f.svc.Get(ctx, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.Number, got.Number)
}

func TestInvoice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.customer(t, "ola@example.com")
	p := f.product(t, "Rose Serum", "64", 3)
	f.fillCart(t, u.ID, map[*catalog.Product]int{p: 1})
	placed, err := f.svc.Checkout(ctx, u.ID, "", deliveryRequest())
	require.NoError(t, err)

	doc, contentType, err := f.svc.Invoice(ctx, u.ID, false, placed.ID, InvoiceHTML)
	require.NoError(t, err)
	assert.Contains(t, contentType, "text/html")
	assert.Contains(t, string(doc), placed.Number)
	assert.Contains(t, string(doc), "Rose Serum")

	_, _, err = f.svc.Invoice(ctx, uuid.New(), false, placed.ID, InvoiceHTML)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, _, err = f.svc.Invoice(ctx, uuid.New(), true, placed.ID, InvoicePDF)
	assert.True(t, shared.IsDomainError(err, "PDF_DISABLED"))
}
