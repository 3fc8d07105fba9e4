package handler

import (
	"github.com/gin-gonic/gin"
	testimonialapp "github.com/glowstudio/backend/internal/application/testimonial"
	"github.com/glowstudio/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// TestimonialHandler serves public reviews and their moderation
type TestimonialHandler struct {
	BaseHandler
	testimonials *testimonialapp.TestimonialService
}

// NewTestimonialHandler creates a new TestimonialHandler
func NewTestimonialHandler(testimonials *testimonialapp.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonials: testimonials}
}

// ListPublic godoc
// @ID           listTestimonials
// @Summary      List approved testimonials with the rating summary
// @Tags         testimonials
// @Produce      json
// @Param        featured query bool false "Featured only"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[testimonialapp.PublicListResponse]
// @Router       /testimonials [get]
func (h *TestimonialHandler) ListPublic(c *gin.Context) {
	var filter testimonialapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	resp, err := h.testimonials.ListPublic(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.Items == nil {
		resp.Items = []testimonialapp.Response{}
	}
	h.Success(c, resp)
}

// Submit godoc
// @ID           submitTestimonial
// @Summary      Submit a testimonial for moderation
// @Description  Signed-in callers have the review linked to their account.
// @Tags         testimonials
// @Accept       json
// @Produce      json
// @Param        request body testimonialapp.SubmitRequest true "Testimonial"
// @Success      201 {object} APIResponse[testimonialapp.Response]
// @Router       /testimonials [post]
func (h *TestimonialHandler) Submit(c *gin.Context) {
	var req testimonialapp.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	var author *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		author = &id
	}
	resp, err := h.testimonials.Submit(c.Request.Context(), author, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// AdminList godoc
// @ID           listAdminTestimonials
// @Summary      List testimonials in any state
// @Tags         admin-testimonials
// @Produce      json
// @Param        status query string false "pending, approved or rejected"
// @Success      200 {object} APIResponse[[]testimonialapp.Response]
// @Security     BearerAuth
// @Router       /admin/testimonials [get]
func (h *TestimonialHandler) AdminList(c *gin.Context) {
	var filter testimonialapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.testimonials.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// AdminGet godoc
// @ID           getAdminTestimonial
// @Summary      Get a testimonial
// @Tags         admin-testimonials
// @Produce      json
// @Param        id path string true "Testimonial ID"
// @Success      200 {object} APIResponse[testimonialapp.Response]
// @Security     BearerAuth
// @Router       /admin/testimonials/{id} [get]
func (h *TestimonialHandler) AdminGet(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.testimonials.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve godoc
// @ID           approveAdminTestimonial
// @Summary      Publish a testimonial
// @Tags         admin-testimonials
// @Param        id path string true "Testimonial ID"
// @Success      200 {object} APIResponse[testimonialapp.Response]
// @Security     BearerAuth
// @Router       /admin/testimonials/{id}/approve [post]
func (h *TestimonialHandler) Approve(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.testimonials.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reject godoc
// @ID           rejectAdminTestimonial
// @Summary      Reject a testimonial
// @Tags         admin-testimonials
// @Param        id path string true "Testimonial ID"
// @Success      200 {object} APIResponse[testimonialapp.Response]
// @Security     BearerAuth
// @Router       /admin/testimonials/{id}/reject [post]
func (h *TestimonialHandler) Reject(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.testimonials.Reject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetFeatured godoc
// @ID           featureAdminTestimonial
// @Summary      Toggle homepage placement of an approved testimonial
// @Tags         admin-testimonials
// @Accept       json
// @Param        id path string true "Testimonial ID"
// @Param        request body testimonialapp.FeatureRequest true "Featured"
// @Success      200 {object} APIResponse[testimonialapp.Response]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/testimonials/{id}/featured [put]
func (h *TestimonialHandler) SetFeatured(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req testimonialapp.FeatureRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.testimonials.SetFeatured(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteAdminTestimonial
// @Summary      Delete a testimonial
// @Tags         admin-testimonials
// @Param        id path string true "Testimonial ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/testimonials/{id} [delete]
func (h *TestimonialHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.testimonials.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
