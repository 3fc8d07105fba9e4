package booking

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/booking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PackageRequest carries the editable fields of a service package
type PackageRequest struct {
	Name            string          `json:"name" binding:"required,min=1,max=150"`
	Description     string          `json:"description" binding:"max=2000"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=15,max=720"`
	Price           decimal.Decimal `json:"price"`
	HomeService     bool            `json:"home_service"`
	Active          *bool           `json:"active"`
}

func (r PackageRequest) details() booking.PackageDetails {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return booking.PackageDetails{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		HomeService:     r.HomeService,
		Active:          active,
	}
}

// PackageResponse represents a service package in API responses
type PackageResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	HomeService     bool            `json:"home_service"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToPackageResponse converts a domain ServicePackage to PackageResponse
func ToPackageResponse(p *booking.ServicePackage) PackageResponse {
	return PackageResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		DurationMinutes: p.DurationMinutes,
		Price:           p.Price,
		HomeService:     p.HomeService,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// CreateBookingRequest is a customer's appointment request
type CreateBookingRequest struct {
	PackageID  uuid.UUID `json:"package_id" binding:"required"`
	StartAt    time.Time `json:"start_at" binding:"required"`
	Location   string    `json:"location" binding:"required,oneof=studio home"`
	Address    string    `json:"address" binding:"required_if=Location home,max=500"`
	GuestCount int       `json:"guest_count" binding:"omitempty,min=1,max=20"`
	Notes      string    `json:"notes" binding:"max=1000"`
}

// ReasonRequest carries an optional cancel or reject reason
type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// BookingListFilter represents booking listing parameters
type BookingListFilter struct {
	Status   string     `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled rejected"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	OrderBy  string     `form:"order_by" binding:"omitempty,oneof=start_at created_at status"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AvailabilityQuery asks for the free start times of a day
type AvailabilityQuery struct {
	Date       string `form:"date" binding:"required,datetime=2006-01-02"`
	PackageID  string `form:"package_id" binding:"required,uuid"`
	GuestCount int    `form:"guest_count" binding:"omitempty,min=1,max=20"`
}

// AvailabilityResponse lists bookable start times
type AvailabilityResponse struct {
	Date            string      `json:"date"`
	PackageID       uuid.UUID   `json:"package_id"`
	DurationMinutes int         `json:"duration_minutes"`
	Slots           []time.Time `json:"slots"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	PackageID    uuid.UUID       `json:"package_id"`
	PackageName  string          `json:"package_name"`
	StartAt      time.Time       `json:"start_at"`
	EndAt        time.Time       `json:"end_at"`
	Location     string          `json:"location"`
	Address      string          `json:"address,omitempty"`
	GuestCount   int             `json:"guest_count"`
	Price        decimal.Decimal `json:"price"`
	Notes        string          `json:"notes,omitempty"`
	Status       string          `json:"status"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	ConfirmedAt  *time.Time      `json:"confirmed_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToBookingResponse converts a domain Booking to BookingResponse
func ToBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		UserID:       b.UserID,
		PackageID:    b.PackageID,
		PackageName:  b.PackageName,
		StartAt:      b.StartAt,
		EndAt:        b.EndAt,
		Location:     string(b.Location),
		Address:      b.Address,
		GuestCount:   b.GuestCount,
		Price:        b.Price,
		Notes:        b.Notes,
		Status:       string(b.Status),
		CancelReason: b.CancelReason,
		ConfirmedAt:  b.ConfirmedAt,
		CompletedAt:  b.CompletedAt,
		CancelledAt:  b.CancelledAt,
		CreatedAt:    b.CreatedAt,
	}
}
