package models

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/academy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MakeupClassModel is the persistence model for a scheduled class.
type MakeupClassModel struct {
	AggregateModel
	Title           string              `gorm:"type:varchar(200);not null"`
	Slug            string              `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description     string              `gorm:"type:text"`
	Instructor      string              `gorm:"type:varchar(100)"`
	Level           academy.Level       `gorm:"type:varchar(20);not null"`
	StartAt         time.Time           `gorm:"not null;index"`
	DurationMinutes int                 `gorm:"not null"`
	Location        string              `gorm:"type:varchar(255)"`
	Capacity        int                 `gorm:"not null"`
	EnrolledCount   int                 `gorm:"not null;default:0"`
	Price           decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Status          academy.ClassStatus `gorm:"type:varchar(20);not null;index"`
	CoverImageURL   string              `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (MakeupClassModel) TableName() string {
	return "makeup_classes"
}

// ToDomain converts the persistence model to a domain MakeupClass.
func (m *MakeupClassModel) ToDomain() *academy.MakeupClass {
	return &academy.MakeupClass{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Slug:              m.Slug,
		Description:       m.Description,
		Instructor:        m.Instructor,
		Level:             m.Level,
		StartAt:           m.StartAt.UTC(),
		DurationMinutes:   m.DurationMinutes,
		Location:          m.Location,
		Capacity:          m.Capacity,
		EnrolledCount:     m.EnrolledCount,
		Price:             m.Price,
		Status:            m.Status,
		CoverImageURL:     m.CoverImageURL,
	}
}

// MakeupClassModelFromDomain creates a persistence model from a domain MakeupClass.
func MakeupClassModelFromDomain(c *academy.MakeupClass) *MakeupClassModel {
	m := &MakeupClassModel{
		Title:           c.Title,
		Slug:            c.Slug,
		Description:     c.Description,
		Instructor:      c.Instructor,
		Level:           c.Level,
		StartAt:         c.StartAt,
		DurationMinutes: c.DurationMinutes,
		Location:        c.Location,
		Capacity:        c.Capacity,
		EnrolledCount:   c.EnrolledCount,
		Price:           c.Price,
		Status:          c.Status,
		CoverImageURL:   c.CoverImageURL,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// EnrollmentModel is a student's seat in a class.
type EnrollmentModel struct {
	BaseModel
	ClassID     uuid.UUID                `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	Status      academy.EnrollmentStatus `gorm:"type:varchar(20);not null"`
	PricePaid   decimal.Decimal          `gorm:"type:decimal(12,2);not null"`
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (EnrollmentModel) TableName() string {
	return "enrollments"
}

// ToDomain converts the persistence model to a domain Enrollment.
func (m *EnrollmentModel) ToDomain() *academy.Enrollment {
	return &academy.Enrollment{
		BaseEntity:  m.BaseModel.ToDomain(),
		ClassID:     m.ClassID,
		UserID:      m.UserID,
		Status:      m.Status,
		PricePaid:   m.PricePaid,
		CancelledAt: m.CancelledAt,
	}
}

// EnrollmentModelFromDomain creates a persistence model from a domain Enrollment.
func EnrollmentModelFromDomain(e *academy.Enrollment) *EnrollmentModel {
	m := &EnrollmentModel{
		ClassID:     e.ClassID,
		UserID:      e.UserID,
		Status:      e.Status,
		PricePaid:   e.PricePaid,
		CancelledAt: e.CancelledAt,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
