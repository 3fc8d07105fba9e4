package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/glowstudio/backend/internal/application/catalog"
	"github.com/google/uuid"
)

// CatalogHandler serves products and categories to the storefront and the admin
type CatalogHandler struct {
	BaseHandler
	categories *catalogapp.CategoryService
	products   *catalogapp.ProductService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(categories *catalogapp.CategoryService, products *catalogapp.ProductService) *CatalogHandler {
	return &CatalogHandler{categories: categories, products: products}
}

// ListCategories godoc
// @ID           listCategories
// @Summary      List active categories
// @Tags         catalog
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	h.listCategories(c, true)
}

// AdminListCategories godoc
// @ID           listAdminCategories
// @Summary      List all categories
// @Tags         admin-catalog
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Security     BearerAuth
// @Router       /admin/categories [get]
func (h *CatalogHandler) AdminListCategories(c *gin.Context) {
	h.listCategories(c, false)
}

func (h *CatalogHandler) listCategories(c *gin.Context, activeOnly bool) {
	cats, err := h.categories.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cats)
}

// CreateCategory godoc
// @ID           createCategory
// @Summary      Create a category
// @Tags         admin-catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category"
// @Success      201 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateCategory godoc
// @ID           updateCategory
// @Summary      Update a category
// @Tags         admin-catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID"
// @Param        request body catalogapp.UpdateCategoryRequest true "Category"
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteCategory godoc
// @ID           deleteCategory
// @Summary      Delete a category without products
// @Tags         admin-catalog
// @Param        id path string true "Category ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListProducts godoc
// @ID           listProducts
// @Summary      List active products
// @Tags         catalog
// @Produce      json
// @Param        search query string false "Name or description"
// @Param        category query string false "Category slug"
// @Param        min_price query number false "Minimum price"
// @Param        max_price query number false "Maximum price"
// @Param        in_stock query bool false "Only products in stock"
// @Param        featured query bool false "Featured only"
// @Param        order_by query string false "name, price, created_at, updated_at or stock"
// @Param        order_dir query string false "asc or desc"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	h.listProducts(c, true)
}

// AdminListProducts godoc
// @ID           listAdminProducts
// @Summary      List products in any status
// @Tags         admin-catalog
// @Produce      json
// @Param        status query string false "active or inactive"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *CatalogHandler) AdminListProducts(c *gin.Context) {
	h.listProducts(c, false)
}

func (h *CatalogHandler) listProducts(c *gin.Context, publicOnly bool) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.products.List(c.Request.Context(), filter, publicOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// GetProduct godoc
// @ID           getProduct
// @Summary      Get an active product by id or slug
// @Tags         catalog
// @Produce      json
// @Param        ref path string true "Product ID or slug"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{ref} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()
	ref := c.Param("ref")

	var (
		resp *catalogapp.ProductResponse
		err  error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		resp, err = h.products.GetByID(ctx, id, true)
	} else {
		resp, err = h.products.GetBySlug(ctx, ref, true)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdminGetProduct godoc
// @ID           getAdminProduct
// @Summary      Get a product in any status
// @Tags         admin-catalog
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *CatalogHandler) AdminGetProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.products.GetByID(c.Request.Context(), id, false)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateProduct godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         admin-catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateProduct godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         admin-catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Product"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteProduct godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         admin-catalog
// @Param        id path string true "Product ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustStock godoc
// @ID           adjustProductStock
// @Summary      Add or remove stock
// @Description  A negative delta that would take stock below zero is rejected.
// @Tags         admin-catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.AdjustStockRequest true "Delta"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id}/stock [post]
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.products.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ActivateProduct godoc
// @ID           activateProduct
// @Summary      Put a product on sale
// @Tags         admin-catalog
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /admin/products/{id}/activate [post]
func (h *CatalogHandler) ActivateProduct(c *gin.Context) {
	h.productStatus(c, h.products.Activate)
}

// DeactivateProduct godoc
// @ID           deactivateProduct
// @Summary      Take a product off sale
// @Tags         admin-catalog
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /admin/products/{id}/deactivate [post]
func (h *CatalogHandler) DeactivateProduct(c *gin.Context) {
	h.productStatus(c, h.products.Deactivate)
}

func (h *CatalogHandler) productStatus(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)) {
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
