package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	orderapp "github.com/glowstudio/backend/internal/application/order"
	"github.com/glowstudio/backend/internal/domain/identity"
	"github.com/glowstudio/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// OrderHandler serves checkout, the caller's orders and order administration
type OrderHandler struct {
	BaseHandler
	orders *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Preview godoc
// @ID           previewCheckout
// @Summary      Price the cart without placing an order
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body orderapp.CheckoutRequest true "Checkout"
// @Success      200 {object} APIResponse[orderapp.PreviewResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /checkout/preview [post]
func (h *OrderHandler) Preview(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req orderapp.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.PreviewCheckout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Checkout godoc
// @ID           checkout
// @Summary      Place an order from the cart
// @Description  Stock is reserved and the coupon consumed in one transaction.
// @Description  A repeated Idempotency-Key returns 409 instead of a second order.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Retry key"
// @Param        request body orderapp.CheckoutRequest true "Checkout"
// @Success      201 {object} APIResponse[orderapp.OrderResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	key, ok := middleware.IdempotencyKey(c)
	if !ok {
		return
	}
	var req orderapp.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.Checkout(c.Request.Context(), userID, key, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListMine godoc
// @ID           listMyOrders
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Param        status query string false "Order status"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.orders.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// GetMine godoc
// @ID           getMyOrder
// @Summary      Get one of the caller's orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetMine(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.GetMine(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelMine godoc
// @ID           cancelMyOrder
// @Summary      Cancel a pending order
// @Description  Stock and the coupon use are returned.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body orderapp.CancelOrderRequest false "Reason"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) CancelMine(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req orderapp.CancelOrderRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.CancelMine(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Invoice godoc
// @ID           getOrderInvoice
// @Summary      Download an order invoice
// @Description  Customers get their own orders only. Admins get any order.
// @Tags         orders
// @Produce      html
// @Produce      application/pdf
// @Param        id path string true "Order ID"
// @Param        format query string false "html (default) or pdf"
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/invoice [get]
// @Router       /admin/orders/{id}/invoice [get]
func (h *OrderHandler) Invoice(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", orderapp.InvoiceHTML)
	if format != orderapp.InvoiceHTML && format != orderapp.InvoicePDF {
		h.BadRequest(c, "format must be html or pdf")
		return
	}
	isAdmin := middleware.GetRole(c) == string(identity.RoleAdmin)
	doc, contentType, err := h.orders.Invoice(c.Request.Context(), userID, isAdmin, id, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if format == orderapp.InvoicePDF {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, id))
	}
	c.Data(http.StatusOK, contentType, doc)
}

// AdminList godoc
// @ID           listAdminOrders
// @Summary      List all orders
// @Tags         admin-orders
// @Produce      json
// @Param        status query string false "Order status"
// @Param        payment_status query string false "unpaid, paid or refunded"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        search query string false "Order number"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) AdminList(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.orders.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// AdminGet godoc
// @ID           getAdminOrder
// @Summary      Get any order
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           updateAdminOrderStatus
// @Summary      Move an order through its lifecycle
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body orderapp.UpdateStatusRequest true "Status"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req orderapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkPaid godoc
// @ID           markAdminOrderPaid
// @Summary      Record payment for an order
// @Tags         admin-orders
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /admin/orders/{id}/paid [post]
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	h.payment(c, h.orders.MarkPaid)
}

// MarkRefunded godoc
// @ID           markAdminOrderRefunded
// @Summary      Record a refund for a paid order
// @Tags         admin-orders
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /admin/orders/{id}/refunded [post]
func (h *OrderHandler) MarkRefunded(c *gin.Context) {
	h.payment(c, h.orders.MarkRefunded)
}

func (h *OrderHandler) payment(c *gin.Context, apply func(context.Context, uuid.UUID) (*orderapp.OrderResponse, error)) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CouponHandler serves coupon administration and storefront validation
type CouponHandler struct {
	BaseHandler
	coupons *orderapp.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(coupons *orderapp.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// Validate godoc
// @ID           validateCoupon
// @Summary      Check a coupon code against a subtotal
// @Description  An unusable code is reported in the body with valid=false, not as an error.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body orderapp.ValidateCouponRequest true "Code and subtotal"
// @Success      200 {object} APIResponse[orderapp.ValidateCouponResponse]
// @Router       /coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	var req orderapp.ValidateCouponRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.coupons.Validate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listAdminCoupons
// @Summary      List coupons
// @Tags         admin-coupons
// @Produce      json
// @Param        search query string false "Code"
// @Success      200 {object} APIResponse[[]orderapp.CouponResponse]
// @Security     BearerAuth
// @Router       /admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	var filter orderapp.CouponListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.coupons.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Get godoc
// @ID           getAdminCoupon
// @Summary      Get a coupon
// @Tags         admin-coupons
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Success      200 {object} APIResponse[orderapp.CouponResponse]
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.coupons.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @ID           createAdminCoupon
// @Summary      Create a coupon
// @Tags         admin-coupons
// @Accept       json
// @Produce      json
// @Param        request body orderapp.CouponRequest true "Coupon"
// @Success      201 {object} APIResponse[orderapp.CouponResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req orderapp.CouponRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.coupons.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update godoc
// @ID           updateAdminCoupon
// @Summary      Update a coupon
// @Tags         admin-coupons
// @Accept       json
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Param        request body orderapp.CouponRequest true "Coupon"
// @Success      200 {object} APIResponse[orderapp.CouponResponse]
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req orderapp.CouponRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.coupons.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteAdminCoupon
// @Summary      Delete a coupon
// @Tags         admin-coupons
// @Param        id path string true "Coupon ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.coupons.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
