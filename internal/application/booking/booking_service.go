package booking

import (
	"context"
	"errors"
	"time"

	"github.com/glowstudio/backend/internal/application/uow"
	"github.com/glowstudio/backend/internal/domain/booking"
	"github.com/glowstudio/backend/internal/domain/setting"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Scheduling defaults used when a setting is missing
const (
	DefaultLeadHours = 24
	DefaultOpenHour  = 9
	DefaultCloseHour = 19
)

var (
	errSlotUnavailable    = shared.NewDomainError("SLOT_UNAVAILABLE", "The requested time slot is no longer available")
	errPackageUnavailable = shared.NewDomainError("PACKAGE_UNAVAILABLE", "Service package is not available")
)

// BookingService schedules makeup appointments
type BookingService struct {
	tx       uow.TransactionScope
	packages booking.PackageRepository
	bookings booking.Repository
	settings setting.Reader
	loc      *time.Location
	metrics  *telemetry.BusinessMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService creates a new BookingService. loc is the studio's time zone.
func NewBookingService(
	tx uow.TransactionScope,
	packages booking.PackageRepository,
	bookings booking.Repository,
	settings setting.Reader,
	loc *time.Location,
	logger *zap.Logger,
) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		tx:       tx,
		packages: packages,
		bookings: bookings,
		settings: settings,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// SetBusinessMetrics enables booking counters
func (s *BookingService) SetBusinessMetrics(m *telemetry.BusinessMetrics) {
	s.metrics = m
}

func (s *BookingService) rules(ctx context.Context) booking.Rules {
	return booking.Rules{
		LeadTime:       time.Duration(s.settings.Int(ctx, setting.KeyBookingLeadHours, DefaultLeadHours)) * time.Hour,
		OpenHour:       s.settings.Int(ctx, setting.KeyBusinessOpenHour, DefaultOpenHour),
		CloseHour:      s.settings.Int(ctx, setting.KeyBusinessCloseHour, DefaultCloseHour),
		HomeServiceFee: s.settings.Decimal(ctx, setting.KeyHomeServiceFee, decimal.Zero),
		Location:       s.loc,
	}
}

// ListPackages lists service packages; the storefront only sees active ones
func (s *BookingService) ListPackages(ctx context.Context, activeOnly bool) ([]PackageResponse, error) {
	packages, err := s.packages.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]PackageResponse, 0, len(packages))
	for i := range packages {
		out = append(out, ToPackageResponse(&packages[i]))
	}
	return out, nil
}

// GetPackage returns a package. With activeOnly an inactive package is not found.
func (s *BookingService) GetPackage(ctx context.Context, id uuid.UUID, activeOnly bool) (*PackageResponse, error) {
	p, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activeOnly && !p.Active {
		return nil, shared.ErrNotFound
	}
	r := ToPackageResponse(p)
	return &r, nil
}

// CreatePackage adds a service package
func (s *BookingService) CreatePackage(ctx context.Context, req PackageRequest) (*PackageResponse, error) {
	p, err := booking.NewServicePackage(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.packages.Save(ctx, p); err != nil {
		return nil, err
	}
	r := ToPackageResponse(p)
	return &r, nil
}

// UpdatePackage replaces a package's fields. Existing bookings keep their price.
func (s *BookingService) UpdatePackage(ctx context.Context, id uuid.UUID, req PackageRequest) (*PackageResponse, error) {
	p, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.packages.Save(ctx, p); err != nil {
		return nil, err
	}
	r := ToPackageResponse(p)
	return &r, nil
}

// DeletePackage removes a package that was never booked
func (s *BookingService) DeletePackage(ctx context.Context, id uuid.UUID) error {
	booked, err := s.packages.HasBookings(ctx, id)
	if err != nil {
		return err
	}
	if booked {
		return shared.NewDomainError("INVALID_STATE", "Package has bookings, deactivate it instead")
	}
	return s.packages.Delete(ctx, id)
}

// Create books an appointment. The day's calendar is locked while the slot
// is checked and inserted.
func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	pkg, err := s.packages.FindByID(ctx, req.PackageID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, errPackageUnavailable
	}
	if err != nil {
		return nil, err
	}

	guests := req.GuestCount
	if guests == 0 {
		guests = 1
	}
	b, err := booking.NewBooking(pkg, booking.Request{
		UserID:     userID,
		StartAt:    req.StartAt,
		Location:   booking.Location(req.Location),
		Address:    req.Address,
		GuestCount: guests,
		Notes:      req.Notes,
	}, s.rules(ctx), s.now())
	if err != nil {
		return nil, err
	}

	err = s.tx.Execute(ctx, func(repos uow.Repositories) error {
		if err := repos.Bookings().LockCalendarDay(ctx, s.dayOf(b.StartAt)); err != nil {
			return err
		}
		busy, err := repos.Bookings().FindActiveBetween(ctx, b.StartAt, b.EndAt)
		if err != nil {
			return err
		}
		if len(busy) > 0 {
			return errSlotUnavailable
		}
		return repos.Bookings().Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("package", b.PackageName),
		zap.Time("start_at", b.StartAt),
		zap.String("location", string(b.Location)),
	)
	if s.metrics != nil {
		s.metrics.RecordBookingCreated(ctx, string(b.Location))
	}
	r := ToBookingResponse(b)
	return &r, nil
}

// dayOf returns local midnight of the day t falls on
func (s *BookingService) dayOf(t time.Time) time.Time {
	l := t.In(s.loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, s.loc)
}

// Availability lists the free start times of a day for a package
func (s *BookingService) Availability(ctx context.Context, q AvailabilityQuery) (*AvailabilityResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", q.Date, s.loc)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Date must be formatted as YYYY-MM-DD")
	}
	packageID, err := uuid.Parse(q.PackageID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid package ID")
	}
	pkg, err := s.packages.FindByID(ctx, packageID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, errPackageUnavailable
	}
	if err != nil {
		return nil, err
	}
	if !pkg.Active {
		return nil, errPackageUnavailable
	}

	guests := q.GuestCount
	if guests < 1 {
		guests = 1
	}
	length := time.Duration(pkg.DurationMinutes*guests) * time.Minute

	busy, err := s.bookings.FindActiveBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{
		Date:            q.Date,
		PackageID:       pkg.ID,
		DurationMinutes: int(length / time.Minute),
		Slots:           booking.FreeSlots(day, length, s.rules(ctx), busy, s.now()),
	}, nil
}

// ListMine lists the caller's bookings
func (s *BookingService) ListMine(ctx context.Context, userID uuid.UUID, filter BookingListFilter) (shared.Paginated[BookingResponse], error) {
	return s.list(ctx, &userID, filter)
}

// List lists all bookings for staff
func (s *BookingService) List(ctx context.Context, filter BookingListFilter) (shared.Paginated[BookingResponse], error) {
	return s.list(ctx, nil, filter)
}

func (s *BookingService) list(ctx context.Context, userID *uuid.UUID, filter BookingListFilter) (shared.Paginated[BookingResponse], error) {
	query := booking.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		UserID: userID,
	}
	query.Normalize()
	if filter.Status != "" {
		st := booking.Status(filter.Status)
		query.Status = &st
	}
	if filter.From != nil {
		from := s.dayOf(*filter.From)
		query.From = &from
	}
	if filter.To != nil {
		to := s.dayOf(*filter.To).AddDate(0, 0, 1)
		query.To = &to
	}

	bookings, total, err := s.bookings.FindAll(ctx, query)
	if err != nil {
		return shared.Paginated[BookingResponse]{}, err
	}
	items := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, ToBookingResponse(&bookings[i]))
	}
	return shared.NewPaginated(items, total, query.Page, query.PageSize), nil
}

// GetMine returns one of the caller's bookings
func (s *BookingService) GetMine(ctx context.Context, userID, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(userID) {
		return nil, shared.ErrNotFound
	}
	r := ToBookingResponse(b)
	return &r, nil
}

// Get returns any booking
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r := ToBookingResponse(b)
	return &r, nil
}

// CancelMine lets the owner cancel a pending or confirmed booking
func (s *BookingService) CancelMine(ctx context.Context, userID, id uuid.UUID, req ReasonRequest) (*BookingResponse, error) {
	return s.transition(ctx, id, func(b *booking.Booking) error {
		if !b.IsOwnedBy(userID) {
			return shared.ErrNotFound
		}
		return b.Cancel(req.Reason)
	})
}

// Confirm accepts a pending booking
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	return s.transition(ctx, id, (*booking.Booking).Confirm)
}

// Reject declines a pending booking
func (s *BookingService) Reject(ctx context.Context, id uuid.UUID, req ReasonRequest) (*BookingResponse, error) {
	return s.transition(ctx, id, func(b *booking.Booking) error { return b.Reject(req.Reason) })
}

// Complete marks a confirmed booking as done
func (s *BookingService) Complete(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	return s.transition(ctx, id, (*booking.Booking).Complete)
}

// Cancel cancels a booking on the studio's behalf
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID, req ReasonRequest) (*BookingResponse, error) {
	return s.transition(ctx, id, func(b *booking.Booking) error { return b.Cancel(req.Reason) })
}

func (s *BookingService) transition(ctx context.Context, id uuid.UUID, apply func(*booking.Booking) error) (*BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := b.Status
	if err := apply(b); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("Booking status changed",
		zap.String("booking_id", b.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(b.Status)),
	)
	r := ToBookingResponse(b)
	return &r, nil
}

// PendingCount reports bookings awaiting confirmation
func (s *BookingService) PendingCount(ctx context.Context) (int64, error) {
	return s.bookings.CountByStatus(ctx, booking.StatusPending)
}
