package handler_test

import (
	"net/http"
	"testing"

	cartapp "github.com/glowstudio/backend/internal/application/cart"
	catalogapp "github.com/glowstudio/backend/internal/application/catalog"
	orderapp "github.com/glowstudio/backend/internal/application/order"
	"github.com/glowstudio/backend/internal/interfaces/http/dto"
	"github.com/glowstudio/backend/internal/interfaces/http/middleware"
	"github.com/glowstudio/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pickup = map[string]string{
	"fulfillment":   "pickup",
	"contact_phone": "+1 555 010 2000",
}

func TestCatalog_PublicAndAdmin(t *testing.T) {
	s := newStudio(t)
	admin := s.admin()
	customer, _ := s.register("mia@example.com")

	w := s.do(http.MethodPost, "/admin/categories", customer, map[string]string{"name": "Lips"})
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)

	w = s.do(http.MethodPost, "/admin/categories", admin, map[string]string{"name": "Lips"})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	category := testutil.DecodeData[catalogapp.CategoryResponse](t, w)
	assert.Equal(t, "lips", category.Slug)

	w = s.do(http.MethodPost, "/admin/products", admin, map[string]any{
		"name":        "Velvet Lipstick",
		"price":       "39.90",
		"stock":       5,
		"category_id": category.ID,
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	product := testutil.DecodeData[catalogapp.ProductResponse](t, w)

	t.Run("by slug and by id", func(t *testing.T) {
		w := s.do(http.MethodGet, "/products/"+product.Slug, "", nil)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Equal(t, product.ID, testutil.DecodeData[catalogapp.ProductResponse](t, w).ID)

		w = s.do(http.MethodGet, "/products/"+product.ID.String(), "", nil)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
	})

	t.Run("listing is paginated", func(t *testing.T) {
		w := s.do(http.MethodGet, "/products?page=1&page_size=10", "", nil)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		env := testutil.DecodeEnvelope(t, w)
		assert.JSONEq(t, `{"total":1,"page":1,"page_size":10,"total_pages":1}`, string(env.Meta))
	})

	t.Run("deactivated products disappear from the storefront", func(t *testing.T) {
		w := s.do(http.MethodPost, "/admin/products/"+product.ID.String()+"/deactivate", admin, nil)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)

		w = s.do(http.MethodGet, "/products/"+product.Slug, "", nil)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

		w = s.do(http.MethodGet, "/admin/products/"+product.ID.String(), admin, nil)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
	})

	t.Run("bad path id", func(t *testing.T) {
		w := s.do(http.MethodGet, "/admin/products/not-a-uuid", admin, nil)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidInput)
	})
}

func TestCart_AddUpdateRemove(t *testing.T) {
	s := newStudio(t)
	admin := s.admin()
	customer, _ := s.register("mia@example.com")
	lipstick := s.product(admin, "Velvet Lipstick", "39.90", 5)

	w := s.do(http.MethodPost, "/cart/items", customer, map[string]any{"product_id": lipstick.ID, "quantity": 2})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	cart := testutil.DecodeData[cartapp.CartResponse](t, w)
	assert.Equal(t, 2, cart.ItemCount)
	assert.Equal(t, "79.80", cart.Subtotal.StringFixed(2))

	w = s.do(http.MethodPost, "/cart/items", customer, map[string]any{"product_id": lipstick.ID, "quantity": 9})
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock)

	w = s.do(http.MethodPut, "/cart/items/"+lipstick.ID.String(), customer, map[string]any{"quantity": 1})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, 1, testutil.DecodeData[cartapp.CartResponse](t, w).ItemCount)

	w = s.do(http.MethodDelete, "/cart/items/"+lipstick.ID.String(), customer, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Empty(t, testutil.DecodeData[cartapp.CartResponse](t, w).Items)

	w = s.do(http.MethodGet, "/cart", "", nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
}

func TestCheckout_Flow(t *testing.T) {
	s := newStudio(t)
	admin := s.admin()
	customer, _ := s.register("mia@example.com")
	other, _ := s.register("zoe@example.com")
	lipstick := s.product(admin, "Velvet Lipstick", "39.90", 5)

	w := s.do(http.MethodPost, "/checkout", customer, pickup)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "CART_EMPTY", testutil.DecodeEnvelope(t, w).Error.Code)

	w = s.do(http.MethodPost, "/cart/items", customer, map[string]any{"product_id": lipstick.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/checkout/preview", customer, pickup)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)

	checkout := testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/checkout",
		Body:   pickup,
		Headers: map[string]string{
			"Authorization":                 "Bearer " + customer,
			middleware.IdempotencyKeyHeader: "checkout-" + uuid.NewString(),
		},
	}
	w = testutil.Perform(t, s.engine, checkout)
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	placed := testutil.DecodeData[orderapp.OrderResponse](t, w)
	assert.Equal(t, "pending", placed.Status)
	assert.Equal(t, "unpaid", placed.PaymentStatus)
	assert.Equal(t, "79.80", placed.Total.StringFixed(2))

	t.Run("retry with the same key is refused", func(t *testing.T) {
		w := testutil.Perform(t, s.engine, checkout)
		testutil.AssertErrorResponse(t, w, http.StatusConflict, dto.ErrCodeConflict)
	})

	t.Run("stock was reserved", func(t *testing.T) {
		w := s.do(http.MethodGet, "/admin/products/"+lipstick.ID.String(), admin, nil)
		assert.Equal(t, 3, testutil.DecodeData[catalogapp.ProductResponse](t, w).Stock)
	})

	t.Run("orders are private", func(t *testing.T) {
		w := s.do(http.MethodGet, "/orders/"+placed.ID.String(), other, nil)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

		w = s.do(http.MethodGet, "/orders/"+placed.ID.String()+"/invoice", other, nil)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

		w = s.do(http.MethodGet, "/orders", customer, nil)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Len(t, testutil.DecodeData[[]orderapp.OrderResponse](t, w), 1)
	})

	t.Run("html invoice", func(t *testing.T) {
		w := s.do(http.MethodGet, "/orders/"+placed.ID.String()+"/invoice", customer, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), placed.Number)

		w = s.do(http.MethodGet, "/admin/orders/"+placed.ID.String()+"/invoice", admin, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("pdf invoice needs a renderer", func(t *testing.T) {
		w := s.do(http.MethodGet, "/orders/"+placed.ID.String()+"/invoice?format=pdf", customer, nil)
		testutil.AssertErrorResponse(t, w, http.StatusServiceUnavailable, "PDF_DISABLED")

		w = s.do(http.MethodGet, "/orders/"+placed.ID.String()+"/invoice?format=docx", customer, nil)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})

	t.Run("admin lifecycle", func(t *testing.T) {
		w := s.do(http.MethodPut, "/admin/orders/"+placed.ID.String()+"/status", admin, map[string]string{"status": "confirmed"})
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Equal(t, "confirmed", testutil.DecodeData[orderapp.OrderResponse](t, w).Status)

		w = s.do(http.MethodPost, "/admin/orders/"+placed.ID.String()+"/paid", admin, nil)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Equal(t, "paid", testutil.DecodeData[orderapp.OrderResponse](t, w).PaymentStatus)

		// customers may only cancel pending orders
		w = s.do(http.MethodPost, "/orders/"+placed.ID.String()+"/cancel", customer, nil)
		testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState)
	})
}

func TestCheckout_RejectsInvalidIdempotencyKey(t *testing.T) {
	s := newStudio(t)
	customer, _ := s.register("mia@example.com")

	w := testutil.Perform(t, s.engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/checkout",
		Body:   pickup,
		Headers: map[string]string{
			"Authorization":                 "Bearer " + customer,
			middleware.IdempotencyKeyHeader: "has spaces",
		},
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidInput)
}

func TestCheckout_DeliveryNeedsAddress(t *testing.T) {
	s := newStudio(t)
	customer, _ := s.register("mia@example.com")

	w := s.do(http.MethodPost, "/checkout", customer, map[string]string{
		"fulfillment":   "delivery",
		"contact_phone": "+1 555 010 2000",
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	assert.Contains(t, w.Body.String(), "delivery_address")
}

func TestCoupons_ValidateAndAdmin(t *testing.T) {
	s := newStudio(t)
	admin := s.admin()

	w := s.do(http.MethodPost, "/coupons/validate", "", map[string]any{"code": "nope", "subtotal": "100"})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	resp := testutil.DecodeData[orderapp.ValidateCouponResponse](t, w)
	assert.False(t, resp.Valid)
	assert.Equal(t, "COUPON_INVALID", resp.ReasonCode)

	w = s.do(http.MethodGet, "/admin/coupons", admin, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Empty(t, testutil.DecodeData[[]orderapp.CouponResponse](t, w))
}
