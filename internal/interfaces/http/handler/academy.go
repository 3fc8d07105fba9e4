package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	academyapp "github.com/glowstudio/backend/internal/application/academy"
	"github.com/google/uuid"
)

// AcademyHandler serves makeup classes and enrollments
type AcademyHandler struct {
	BaseHandler
	academy *academyapp.AcademyService
}

// NewAcademyHandler creates a new AcademyHandler
func NewAcademyHandler(academy *academyapp.AcademyService) *AcademyHandler {
	return &AcademyHandler{academy: academy}
}

// ListClasses godoc
// @ID           listClasses
// @Summary      List upcoming scheduled classes
// @Tags         classes
// @Produce      json
// @Param        search query string false "Title search"
// @Param        level query string false "beginner, intermediate or advanced"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]academyapp.ClassResponse]
// @Router       /classes [get]
func (h *AcademyHandler) ListClasses(c *gin.Context) {
	h.listClasses(c, true)
}

// AdminListClasses godoc
// @ID           listAdminClasses
// @Summary      List all classes
// @Tags         admin-classes
// @Produce      json
// @Param        status query string false "scheduled, cancelled or completed"
// @Success      200 {object} APIResponse[[]academyapp.ClassResponse]
// @Security     BearerAuth
// @Router       /admin/classes [get]
func (h *AcademyHandler) AdminListClasses(c *gin.Context) {
	h.listClasses(c, false)
}

func (h *AcademyHandler) listClasses(c *gin.Context, public bool) {
	var filter academyapp.ClassListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.academy.ListClasses(c.Request.Context(), filter, public)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// GetClass godoc
// @ID           getClass
// @Summary      Get a class by ID or slug
// @Tags         classes
// @Produce      json
// @Param        ref path string true "Class ID or slug"
// @Success      200 {object} APIResponse[academyapp.ClassResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /classes/{ref} [get]
func (h *AcademyHandler) GetClass(c *gin.Context) {
	ctx := c.Request.Context()
	ref := c.Param("ref")

	var (
		resp *academyapp.ClassResponse
		err  error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		resp, err = h.academy.GetClass(ctx, id)
	} else {
		resp, err = h.academy.GetClassBySlug(ctx, ref)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Enroll godoc
// @ID           enrollClass
// @Summary      Enroll the caller in a class
// @Tags         classes
// @Produce      json
// @Param        ref path string true "Class ID"
// @Success      201 {object} APIResponse[academyapp.EnrollmentResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes/{ref}/enroll [post]
func (h *AcademyHandler) Enroll(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	classID, ok := h.pathID(c, "ref")
	if !ok {
		return
	}
	resp, err := h.academy.Enroll(c.Request.Context(), userID, classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// MyEnrollments godoc
// @ID           listMyEnrollments
// @Summary      List the caller's enrollments
// @Tags         classes
// @Produce      json
// @Success      200 {object} APIResponse[[]academyapp.EnrollmentResponse]
// @Security     BearerAuth
// @Router       /enrollments [get]
func (h *AcademyHandler) MyEnrollments(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	resp, err := h.academy.MyEnrollments(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.enrollments(c, resp)
}

// CancelEnrollment godoc
// @ID           cancelMyEnrollment
// @Summary      Cancel one of the caller's enrollments before the class starts
// @Tags         classes
// @Produce      json
// @Param        id path string true "Enrollment ID"
// @Success      200 {object} APIResponse[academyapp.EnrollmentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enrollments/{id}/cancel [post]
func (h *AcademyHandler) CancelEnrollment(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.academy.CancelEnrollment(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdminGetClass godoc
// @ID           getAdminClass
// @Summary      Get any class
// @Tags         admin-classes
// @Produce      json
// @Param        id path string true "Class ID"
// @Success      200 {object} APIResponse[academyapp.ClassResponse]
// @Security     BearerAuth
// @Router       /admin/classes/{id} [get]
func (h *AcademyHandler) AdminGetClass(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.academy.GetClass(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateClass godoc
// @ID           createAdminClass
// @Summary      Schedule a class
// @Tags         admin-classes
// @Accept       json
// @Produce      json
// @Param        request body academyapp.ClassRequest true "Class"
// @Success      201 {object} APIResponse[academyapp.ClassResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/classes [post]
func (h *AcademyHandler) CreateClass(c *gin.Context) {
	var req academyapp.ClassRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.academy.CreateClass(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateClass godoc
// @ID           updateAdminClass
// @Summary      Update a class
// @Description  Capacity cannot drop below the current enrollment count.
// @Tags         admin-classes
// @Accept       json
// @Produce      json
// @Param        id path string true "Class ID"
// @Param        request body academyapp.ClassRequest true "Class"
// @Success      200 {object} APIResponse[academyapp.ClassResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/classes/{id} [put]
func (h *AcademyHandler) UpdateClass(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req academyapp.ClassRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.academy.UpdateClass(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteClass godoc
// @ID           deleteAdminClass
// @Summary      Delete a class without enrollments
// @Tags         admin-classes
// @Param        id path string true "Class ID"
// @Success      204
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/classes/{id} [delete]
func (h *AcademyHandler) DeleteClass(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.academy.DeleteClass(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CancelClass godoc
// @ID           cancelAdminClass
// @Summary      Cancel a class and all of its enrollments
// @Tags         admin-classes
// @Param        id path string true "Class ID"
// @Success      200 {object} APIResponse[academyapp.ClassResponse]
// @Security     BearerAuth
// @Router       /admin/classes/{id}/cancel [post]
func (h *AcademyHandler) CancelClass(c *gin.Context) {
	h.classStatus(c, h.academy.CancelClass)
}

// CompleteClass godoc
// @ID           completeAdminClass
// @Summary      Mark a class as held
// @Tags         admin-classes
// @Param        id path string true "Class ID"
// @Success      200 {object} APIResponse[academyapp.ClassResponse]
// @Security     BearerAuth
// @Router       /admin/classes/{id}/complete [post]
func (h *AcademyHandler) CompleteClass(c *gin.Context) {
	h.classStatus(c, h.academy.CompleteClass)
}

func (h *AcademyHandler) classStatus(c *gin.Context, apply func(context.Context, uuid.UUID) (*academyapp.ClassResponse, error)) {
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

// ClassEnrollments godoc
// @ID           listAdminClassEnrollments
// @Summary      List a class roster
// @Tags         admin-classes
// @Produce      json
// @Param        id path string true "Class ID"
// @Success      200 {object} APIResponse[[]academyapp.EnrollmentResponse]
// @Security     BearerAuth
// @Router       /admin/classes/{id}/enrollments [get]
func (h *AcademyHandler) ClassEnrollments(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.academy.ClassEnrollments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.enrollments(c, resp)
}

func (h *AcademyHandler) enrollments(c *gin.Context, items []academyapp.EnrollmentResponse) {
	if items == nil {
		items = []academyapp.EnrollmentResponse{}
	}
	h.Success(c, items)
}
