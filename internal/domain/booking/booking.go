package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a booking
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// HoldsSlot reports whether a booking in this status occupies its time slot
func (s Status) HoldsSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses are the statuses that block the calendar
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

// Location is where the appointment takes place
type Location string

const (
	LocationStudio Location = "studio"
	LocationHome   Location = "home"
)

// IsValid checks if the location is known
func (l Location) IsValid() bool {
	return l == LocationStudio || l == LocationHome
}

// Booking is a customer's makeup appointment
type Booking struct {
	shared.BaseAggregateRoot
	UserID       uuid.UUID
	PackageID    uuid.UUID
	PackageName  string
	StartAt      time.Time
	EndAt        time.Time
	Location     Location
	Address      string
	GuestCount   int
	Price        decimal.Decimal
	Notes        string
	Status       Status
	CancelReason string
	ConfirmedAt  *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
}

// Request is a customer's booking request
type Request struct {
	UserID     uuid.UUID
	StartAt    time.Time
	Location   Location
	Address    string
	GuestCount int
	Notes      string
}

// Rules are the studio-wide scheduling settings
type Rules struct {
	LeadTime       time.Duration
	OpenHour       int
	CloseHour      int
	HomeServiceFee decimal.Decimal
	Location       *time.Location
}

// NewBooking validates a request against a package and the studio rules and
// returns a pending booking. Overlap with other bookings is checked by the caller.
func NewBooking(pkg *ServicePackage, req Request, rules Rules, now time.Time) (*Booking, error) {
	if pkg == nil || !pkg.Active {
		return nil, shared.NewDomainError("PACKAGE_UNAVAILABLE", "Service package is not available")
	}
	if req.UserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !req.Location.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location must be studio or home")
	}
	if req.Location == LocationHome {
		if !pkg.HomeService {
			return nil, shared.NewDomainError("HOME_SERVICE_UNAVAILABLE", "This package is not offered as a home service")
		}
		if strings.TrimSpace(req.Address) == "" {
			return nil, shared.NewDomainError("ADDRESS_REQUIRED", "Address is required for home service")
		}
	}
	if req.GuestCount < 1 || req.GuestCount > 20 {
		return nil, shared.NewDomainError("INVALID_GUEST_COUNT", "Guest count must be between 1 and 20")
	}
	if len(req.Notes) > 1000 {
		return nil, shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
	}

	start := req.StartAt
	end := start.Add(time.Duration(pkg.DurationMinutes*req.GuestCount) * time.Minute)
	if err := rules.CheckWindow(start, end, now); err != nil {
		return nil, err
	}

	price := valueobject.NewMoney(pkg.Price).MulInt(req.GuestCount)
	if req.Location == LocationHome {
		price = price.Add(valueobject.NewMoney(rules.HomeServiceFee).NonNegative())
	}

	b := &Booking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            req.UserID,
		PackageID:         pkg.ID,
		PackageName:       pkg.Name,
		StartAt:           start.UTC(),
		EndAt:             end.UTC(),
		Location:          req.Location,
		GuestCount:        req.GuestCount,
		Price:             price.Amount(),
		Notes:             strings.TrimSpace(req.Notes),
		Status:            StatusPending,
	}
	if req.Location == LocationHome {
		b.Address = strings.TrimSpace(req.Address)
	}
	return b, nil
}

// CheckWindow verifies the lead time and that [start, end) fits in business hours
func (r Rules) CheckWindow(start, end time.Time, now time.Time) error {
	if start.Before(now.Add(r.LeadTime)) {
		return shared.NewDomainError("TOO_SOON",
			fmt.Sprintf("Bookings must be made at least %s in advance", r.LeadTime))
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	ls, le := start.In(loc), end.In(loc)
	open := time.Date(ls.Year(), ls.Month(), ls.Day(), r.OpenHour, 0, 0, 0, loc)
	closing := time.Date(ls.Year(), ls.Month(), ls.Day(), r.CloseHour, 0, 0, 0, loc)
	if ls.Before(open) || le.After(closing) {
		return shared.NewDomainError("OUTSIDE_BUSINESS_HOURS",
			fmt.Sprintf("Appointments must fit between %02d:00 and %02d:00", r.OpenHour, r.CloseHour))
	}
	return nil
}

// Overlaps reports whether the booking's slot intersects [start, end)
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && start.Before(b.EndAt)
}

// Confirm accepts a pending booking
func (b *Booking) Confirm() error {
	if b.Status != StatusPending {
		return invalidTransition(b.Status, StatusConfirmed)
	}
	now := time.Now()
	b.Status = StatusConfirmed
	b.ConfirmedAt = &now
	b.IncrementVersion()
	return nil
}

// Reject declines a pending booking
func (b *Booking) Reject(reason string) error {
	if b.Status != StatusPending {
		return invalidTransition(b.Status, StatusRejected)
	}
	b.Status = StatusRejected
	b.CancelReason = strings.TrimSpace(reason)
	b.IncrementVersion()
	return nil
}

// Complete marks a confirmed booking as done
func (b *Booking) Complete() error {
	if b.Status != StatusConfirmed {
		return invalidTransition(b.Status, StatusCompleted)
	}
	now := time.Now()
	b.Status = StatusCompleted
	b.CompletedAt = &now
	b.IncrementVersion()
	return nil
}

// Cancel releases a pending or confirmed booking
func (b *Booking) Cancel(reason string) error {
	if !b.Status.HoldsSlot() {
		return invalidTransition(b.Status, StatusCancelled)
	}
	now := time.Now()
	b.Status = StatusCancelled
	b.CancelReason = strings.TrimSpace(reason)
	b.CancelledAt = &now
	b.IncrementVersion()
	return nil
}

// IsOwnedBy reports whether the booking belongs to userID
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}

func invalidTransition(from, to Status) error {
	return shared.NewDomainError("INVALID_STATE",
		fmt.Sprintf("Cannot change booking status from %s to %s", from, to))
}
