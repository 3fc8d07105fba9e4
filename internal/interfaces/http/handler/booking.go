package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	bookingapp "github.com/glowstudio/backend/internal/application/booking"
	"github.com/google/uuid"
)

// BookingHandler serves service packages and appointment bookings
type BookingHandler struct {
	BaseHandler
	bookings *bookingapp.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *bookingapp.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// ListPackages godoc
// @ID           listPackages
// @Summary      List bookable service packages
// @Tags         bookings
// @Produce      json
// @Success      200 {object} APIResponse[[]bookingapp.PackageResponse]
// @Router       /packages [get]
func (h *BookingHandler) ListPackages(c *gin.Context) {
	h.listPackages(c, true)
}

// AdminListPackages godoc
// @ID           listAdminPackages
// @Summary      List all service packages including inactive ones
// @Tags         admin-bookings
// @Produce      json
// @Success      200 {object} APIResponse[[]bookingapp.PackageResponse]
// @Security     BearerAuth
// @Router       /admin/packages [get]
func (h *BookingHandler) AdminListPackages(c *gin.Context) {
	h.listPackages(c, false)
}

func (h *BookingHandler) listPackages(c *gin.Context, activeOnly bool) {
	resp, err := h.bookings.ListPackages(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp == nil {
		resp = []bookingapp.PackageResponse{}
	}
	h.Success(c, resp)
}

// GetPackage godoc
// @ID           getPackage
// @Summary      Get an active service package
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Package ID"
// @Success      200 {object} APIResponse[bookingapp.PackageResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /packages/{id} [get]
func (h *BookingHandler) GetPackage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.bookings.GetPackage(c.Request.Context(), id, true)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreatePackage godoc
// @ID           createAdminPackage
// @Summary      Create a service package
// @Tags         admin-bookings
// @Accept       json
// @Produce      json
// @Param        request body bookingapp.PackageRequest true "Package"
// @Success      201 {object} APIResponse[bookingapp.PackageResponse]
// @Security     BearerAuth
// @Router       /admin/packages [post]
func (h *BookingHandler) CreatePackage(c *gin.Context) {
	var req bookingapp.PackageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.bookings.CreatePackage(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdatePackage godoc
// @ID           updateAdminPackage
// @Summary      Update a service package
// @Tags         admin-bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Package ID"
// @Param        request body bookingapp.PackageRequest true "Package"
// @Success      200 {object} APIResponse[bookingapp.PackageResponse]
// @Security     BearerAuth
// @Router       /admin/packages/{id} [put]
func (h *BookingHandler) UpdatePackage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req bookingapp.PackageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.bookings.UpdatePackage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeletePackage godoc
// @ID           deleteAdminPackage
// @Summary      Delete a service package without bookings
// @Tags         admin-bookings
// @Param        id path string true "Package ID"
// @Success      204
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/packages/{id} [delete]
func (h *BookingHandler) DeletePackage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.bookings.DeletePackage(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Availability godoc
// @ID           getAvailability
// @Summary      List free start times for a package on a day
// @Tags         bookings
// @Produce      json
// @Param        date query string true "Day (YYYY-MM-DD)"
// @Param        package_id query string true "Package ID"
// @Param        guest_count query int false "Guests"
// @Success      200 {object} APIResponse[bookingapp.AvailabilityResponse]
// @Router       /bookings/availability [get]
func (h *BookingHandler) Availability(c *gin.Context) {
	var q bookingapp.AvailabilityQuery
	if !h.bindQuery(c, &q) {
		return
	}
	resp, err := h.bookings.Availability(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @ID           createBooking
// @Summary      Request an appointment
// @Description  The slot must lie inside business hours, respect the minimum lead time and not overlap another booking.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body bookingapp.CreateBookingRequest true "Booking"
// @Success      201 {object} APIResponse[bookingapp.BookingResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req bookingapp.CreateBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.bookings.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListMine godoc
// @ID           listMyBookings
// @Summary      List the caller's bookings
// @Tags         bookings
// @Produce      json
// @Param        status query string false "Booking status"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]bookingapp.BookingResponse]
// @Security     BearerAuth
// @Router       /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var filter bookingapp.BookingListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.bookings.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// GetMine godoc
// @ID           getMyBooking
// @Summary      Get one of the caller's bookings
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200 {object} APIResponse[bookingapp.BookingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetMine(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.bookings.GetMine(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelMine godoc
// @ID           cancelMyBooking
// @Summary      Cancel one of the caller's bookings
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID"
// @Param        request body bookingapp.ReasonRequest false "Reason"
// @Success      200 {object} APIResponse[bookingapp.BookingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelMine(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	req, ok := h.reason(c)
	if !ok {
		return
	}
	resp, err := h.bookings.CancelMine(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// reason binds an optional reason body
func (h *BookingHandler) reason(c *gin.Context) (bookingapp.ReasonRequest, bool) {
	var req bookingapp.ReasonRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return req, false
	}
	return req, true
}

// AdminList godoc
// @ID           listAdminBookings
// @Summary      List all bookings
// @Tags         admin-bookings
// @Produce      json
// @Param        status query string false "Booking status"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]bookingapp.BookingResponse]
// @Security     BearerAuth
// @Router       /admin/bookings [get]
func (h *BookingHandler) AdminList(c *gin.Context) {
	var filter bookingapp.BookingListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// AdminGet godoc
// @ID           getAdminBooking
// @Summary      Get any booking
// @Tags         admin-bookings
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200 {object} APIResponse[bookingapp.BookingResponse]
// @Security     BearerAuth
// @Router       /admin/bookings/{id} [get]
func (h *BookingHandler) AdminGet(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Confirm godoc
// @ID           confirmAdminBooking
// @Summary      Confirm a pending booking
// @Tags         admin-bookings
// @Param        id path string true "Booking ID"
// @Success      200 {object} APIResponse[bookingapp.BookingResponse]
// @Security     BearerAuth
// @Router       /admin/bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.bookings.Confirm)
}

// Complete godoc
// @ID           completeAdminBooking
// @Summary      Mark a confirmed booking as completed
// @Tags         admin-bookings
// @Param        id path string true "Booking ID"
// @Success      200 {object} APIResponse[bookingapp.BookingResponse]
// @Security     BearerAuth
// @Router       /admin/bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.bookings.Complete)
}

// Reject godoc
// @ID           rejectAdminBooking
// @Summary      Reject a pending booking
// @Tags         admin-bookings
// @Accept       json
// @Param        id path string true "Booking ID"
// @Param        request body bookingapp.ReasonRequest false "Reason"
// @Success      200 {object} APIResponse[bookingapp.BookingResponse]
// @Security     BearerAuth
// @Router       /admin/bookings/{id}/reject [post]
func (h *BookingHandler) Reject(c *gin.Context) {
	h.transitionWithReason(c, h.bookings.Reject)
}

// Cancel godoc
// @ID           cancelAdminBooking
// @Summary      Cancel a booking on the studio's behalf
// @Tags         admin-bookings
// @Accept       json
// @Param        id path string true "Booking ID"
// @Param        request body bookingapp.ReasonRequest false "Reason"
// @Success      200 {object} APIResponse[bookingapp.BookingResponse]
// @Security     BearerAuth
// @Router       /admin/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transitionWithReason(c, h.bookings.Cancel)
}

func (h *BookingHandler) transition(c *gin.Context, apply func(context.Context, uuid.UUID) (*bookingapp.BookingResponse, error)) {
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

func (h *BookingHandler) transitionWithReason(c *gin.Context, apply func(context.Context, uuid.UUID, bookingapp.ReasonRequest) (*bookingapp.BookingResponse, error)) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	req, ok := h.reason(c)
	if !ok {
		return
	}
	resp, err := apply(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
