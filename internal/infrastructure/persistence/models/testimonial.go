package models

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/testimonial"
	"github.com/google/uuid"
)

// TestimonialModel is the persistence model for a customer testimonial.
type TestimonialModel struct {
	AggregateModel
	AuthorName  string             `gorm:"type:varchar(100);not null"`
	UserID      *uuid.UUID         `gorm:"type:uuid;index"`
	Rating      int                `gorm:"not null"`
	Title       string             `gorm:"type:varchar(200)"`
	Content     string             `gorm:"type:text;not null"`
	ServiceType string             `gorm:"type:varchar(100)"`
	Status      testimonial.Status `gorm:"type:varchar(20);not null;index"`
	Featured    bool               `gorm:"not null;default:false"`
	ApprovedAt  *time.Time
}

// TableName returns the table name for GORM
func (TestimonialModel) TableName() string {
	return "testimonials"
}

// ToDomain converts the persistence model to a domain Testimonial.
func (m *TestimonialModel) ToDomain() *testimonial.Testimonial {
	return &testimonial.Testimonial{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AuthorName:        m.AuthorName,
		UserID:            m.UserID,
		Rating:            m.Rating,
		Title:             m.Title,
		Content:           m.Content,
		ServiceType:       m.ServiceType,
		Status:            m.Status,
		Featured:          m.Featured,
		ApprovedAt:        m.ApprovedAt,
	}
}

// TestimonialModelFromDomain creates a persistence model from a domain Testimonial.
func TestimonialModelFromDomain(t *testimonial.Testimonial) *TestimonialModel {
	m := &TestimonialModel{
		AuthorName:  t.AuthorName,
		UserID:      t.UserID,
		Rating:      t.Rating,
		Title:       t.Title,
		Content:     t.Content,
		ServiceType: t.ServiceType,
		Status:      t.Status,
		Featured:    t.Featured,
		ApprovedAt:  t.ApprovedAt,
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}
