package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/glowstudio/backend/internal/application/cart"
)

// CartHandler serves the caller's shopping cart
type CartHandler struct {
	BaseHandler
	carts *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *cartapp.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get godoc
// @ID           getCart
// @Summary      Get the caller's cart priced at current prices
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	resp, err := h.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add a product to the cart
// @Description  Adding a product already in the cart merges the quantities.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.AddItemRequest true "Line"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req cartapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.carts.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItem godoc
// @ID           updateCartItem
// @Summary      Set the quantity of a cart line
// @Description  Quantity 0 removes the line.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID"
// @Param        request body cartapp.UpdateItemRequest true "Quantity"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Security     BearerAuth
// @Router       /cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "productId")
	if !ok {
		return
	}
	var req cartapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.carts.UpdateItem(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Security     BearerAuth
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "productId")
	if !ok {
		return
	}
	resp, err := h.carts.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Clear godoc
// @ID           clearCart
// @Summary      Empty the cart
// @Tags         cart
// @Success      204
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.carts.Clear(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
