package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	galleryapp "github.com/glowstudio/backend/internal/application/gallery"
	"github.com/glowstudio/backend/internal/interfaces/http/dto"
	"github.com/glowstudio/backend/internal/interfaces/http/middleware"
)

// UploadFormField is the multipart field carrying the image bytes
const UploadFormField = "file"

// GalleryHandler serves the portfolio gallery
type GalleryHandler struct {
	BaseHandler
	gallery *galleryapp.GalleryService
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(gallery *galleryapp.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// List godoc
// @ID           listGallery
// @Summary      List published gallery images
// @Tags         gallery
// @Produce      json
// @Param        category query string false "Category"
// @Param        featured query bool false "Featured only"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]galleryapp.ImageResponse]
// @Router       /gallery [get]
func (h *GalleryHandler) List(c *gin.Context) {
	h.list(c, true)
}

// AdminList godoc
// @ID           listAdminGallery
// @Summary      List all gallery images including drafts
// @Tags         admin-gallery
// @Produce      json
// @Success      200 {object} APIResponse[[]galleryapp.ImageResponse]
// @Security     BearerAuth
// @Router       /admin/gallery [get]
func (h *GalleryHandler) AdminList(c *gin.Context) {
	h.list(c, false)
}

func (h *GalleryHandler) list(c *gin.Context, public bool) {
	var filter galleryapp.ImageListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.gallery.List(c.Request.Context(), filter, public)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Categories godoc
// @ID           listGalleryCategories
// @Summary      List categories used by published images
// @Tags         gallery
// @Produce      json
// @Success      200 {object} APIResponse[[]string]
// @Router       /gallery/categories [get]
func (h *GalleryHandler) Categories(c *gin.Context) {
	resp, err := h.gallery.Categories(c.Request.Context(), true)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp == nil {
		resp = []string{}
	}
	h.Success(c, resp)
}

// Get godoc
// @ID           getGalleryImage
// @Summary      Get a published image
// @Tags         gallery
// @Produce      json
// @Param        id path string true "Image ID"
// @Success      200 {object} APIResponse[galleryapp.ImageResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /gallery/{id} [get]
func (h *GalleryHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.gallery.Get(c.Request.Context(), id, true)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Upload godoc
// @ID           uploadAdminGalleryImage
// @Summary      Upload a gallery image
// @Description  JPEG, PNG, WebP and GIF are accepted. The type is detected from the content.
// @Tags         admin-gallery
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Image"
// @Param        title formData string false "Title"
// @Param        description formData string false "Description"
// @Param        category formData string false "Category"
// @Param        sort_order formData int false "Sort order"
// @Param        featured formData bool false "Featured"
// @Param        published formData bool false "Published (default true)"
// @Success      201 {object} APIResponse[galleryapp.ImageResponse]
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/gallery [post]
func (h *GalleryHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile(UploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleError(c, err)
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "A file field named \""+UploadFormField+"\" is required")
		return
	}
	if limit := h.gallery.MaxUploadSize(); limit > 0 && fileHeader.Size > limit {
		h.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Image exceeds the maximum upload size")
		return
	}

	var req galleryapp.ImageRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	resp, err := h.gallery.Upload(c.Request.Context(), file, fileHeader.Size, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update godoc
// @ID           updateAdminGalleryImage
// @Summary      Update image metadata
// @Tags         admin-gallery
// @Accept       json
// @Produce      json
// @Param        id path string true "Image ID"
// @Param        request body galleryapp.ImageRequest true "Metadata"
// @Success      200 {object} APIResponse[galleryapp.ImageResponse]
// @Security     BearerAuth
// @Router       /admin/gallery/{id} [put]
func (h *GalleryHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req galleryapp.ImageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.gallery.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteAdminGalleryImage
// @Summary      Delete an image and its stored object
// @Tags         admin-gallery
// @Param        id path string true "Image ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/gallery/{id} [delete]
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.gallery.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
