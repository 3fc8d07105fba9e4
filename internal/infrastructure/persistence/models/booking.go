package models

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/booking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServicePackageModel is the persistence model for a bookable service.
type ServicePackageModel struct {
	AggregateModel
	Name            string          `gorm:"type:varchar(150);not null"`
	Description     string          `gorm:"type:text"`
	DurationMinutes int             `gorm:"not null"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	HomeService     bool            `gorm:"not null;default:false"`
	Active          bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ServicePackageModel) TableName() string {
	return "service_packages"
}

// ToDomain converts the persistence model to a domain ServicePackage.
func (m *ServicePackageModel) ToDomain() *booking.ServicePackage {
	return &booking.ServicePackage{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		DurationMinutes:   m.DurationMinutes,
		Price:             m.Price,
		HomeService:       m.HomeService,
		Active:            m.Active,
	}
}

// ServicePackageModelFromDomain creates a persistence model from a domain ServicePackage.
func ServicePackageModelFromDomain(p *booking.ServicePackage) *ServicePackageModel {
	m := &ServicePackageModel{
		Name:            p.Name,
		Description:     p.Description,
		DurationMinutes: p.DurationMinutes,
		Price:           p.Price,
		HomeService:     p.HomeService,
		Active:          p.Active,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// BookingModel is the persistence model for the Booking aggregate.
type BookingModel struct {
	AggregateModel
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	PackageID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	PackageName  string           `gorm:"type:varchar(150);not null"`
	StartAt      time.Time        `gorm:"not null;index"`
	EndAt        time.Time        `gorm:"not null"`
	Location     booking.Location `gorm:"type:varchar(20);not null"`
	Address      string           `gorm:"type:text"`
	GuestCount   int              `gorm:"not null;default:1"`
	Price        decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Notes        string           `gorm:"type:text"`
	Status       booking.Status   `gorm:"type:varchar(20);not null;index"`
	CancelReason string           `gorm:"type:text"`
	ConfirmedAt  *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the persistence model to a domain Booking.
func (m *BookingModel) ToDomain() *booking.Booking {
	return &booking.Booking{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		PackageID:         m.PackageID,
		PackageName:       m.PackageName,
		StartAt:           m.StartAt.UTC(),
		EndAt:             m.EndAt.UTC(),
		Location:          m.Location,
		Address:           m.Address,
		GuestCount:        m.GuestCount,
		Price:             m.Price,
		Notes:             m.Notes,
		Status:            m.Status,
		CancelReason:      m.CancelReason,
		ConfirmedAt:       m.ConfirmedAt,
		CompletedAt:       m.CompletedAt,
		CancelledAt:       m.CancelledAt,
	}
}

// BookingModelFromDomain creates a persistence model from a domain Booking.
func BookingModelFromDomain(b *booking.Booking) *BookingModel {
	m := &BookingModel{
		UserID:       b.UserID,
		PackageID:    b.PackageID,
		PackageName:  b.PackageName,
		StartAt:      b.StartAt,
		EndAt:        b.EndAt,
		Location:     b.Location,
		Address:      b.Address,
		GuestCount:   b.GuestCount,
		Price:        b.Price,
		Notes:        b.Notes,
		Status:       b.Status,
		CancelReason: b.CancelReason,
		ConfirmedAt:  b.ConfirmedAt,
		CompletedAt:  b.CompletedAt,
		CancelledAt:  b.CancelledAt,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}
