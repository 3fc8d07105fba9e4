package academy

import (
	"time"

	"github.com/glowstudio/backend/internal/domain/academy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClassRequest carries the editable fields of a class
type ClassRequest struct {
	Title           string          `json:"title" binding:"required,min=1,max=200"`
	Slug            string          `json:"slug" binding:"omitempty,slug,max=200"`
	Description     string          `json:"description" binding:"max=5000"`
	Instructor      string          `json:"instructor" binding:"max=150"`
	Level           string          `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	StartAt         time.Time       `json:"start_at" binding:"required"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=30,max=1440"`
	Location        string          `json:"location" binding:"max=300"`
	Capacity        int             `json:"capacity" binding:"required,min=1"`
	Price           decimal.Decimal `json:"price"`
	CoverImageURL   string          `json:"cover_image_url" binding:"omitempty,url,max=500"`
}

func (r ClassRequest) details() academy.ClassDetails {
	return academy.ClassDetails{
		Title:           r.Title,
		Slug:            r.Slug,
		Description:     r.Description,
		Instructor:      r.Instructor,
		Level:           academy.Level(r.Level),
		StartAt:         r.StartAt,
		DurationMinutes: r.DurationMinutes,
		Location:        r.Location,
		Capacity:        r.Capacity,
		Price:           r.Price,
		CoverImageURL:   r.CoverImageURL,
	}
}

// ClassListFilter represents class listing parameters
type ClassListFilter struct {
	Search   string `form:"search"`
	Level    string `form:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Status   string `form:"status" binding:"omitempty,oneof=scheduled cancelled completed"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=start_at created_at title price"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ClassResponse represents a class in API responses
type ClassResponse struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	Instructor      string          `json:"instructor"`
	Level           string          `json:"level"`
	StartAt         time.Time       `json:"start_at"`
	EndAt           time.Time       `json:"end_at"`
	DurationMinutes int             `json:"duration_minutes"`
	Location        string          `json:"location"`
	Capacity        int             `json:"capacity"`
	EnrolledCount   int             `json:"enrolled_count"`
	SeatsLeft       int             `json:"seats_left"`
	Price           decimal.Decimal `json:"price"`
	Status          string          `json:"status"`
	CoverImageURL   string          `json:"cover_image_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToClassResponse converts a domain MakeupClass to ClassResponse
func ToClassResponse(c *academy.MakeupClass) ClassResponse {
	return ClassResponse{
		ID:              c.ID,
		Title:           c.Title,
		Slug:            c.Slug,
		Description:     c.Description,
		Instructor:      c.Instructor,
		Level:           string(c.Level),
		StartAt:         c.StartAt,
		EndAt:           c.StartAt.Add(time.Duration(c.DurationMinutes) * time.Minute),
		DurationMinutes: c.DurationMinutes,
		Location:        c.Location,
		Capacity:        c.Capacity,
		EnrolledCount:   c.EnrolledCount,
		SeatsLeft:       c.SeatsLeft(),
		Price:           c.Price,
		Status:          string(c.Status),
		CoverImageURL:   c.CoverImageURL,
		CreatedAt:       c.CreatedAt,
	}
}

// StudentInfo identifies the student behind an enrollment
type StudentInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// EnrollmentResponse represents an enrollment in API responses
type EnrollmentResponse struct {
	ID          uuid.UUID       `json:"id"`
	ClassID     uuid.UUID       `json:"class_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Status      string          `json:"status"`
	PricePaid   decimal.Decimal `json:"price_paid"`
	EnrolledAt  time.Time       `json:"enrolled_at"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	Class       *ClassResponse  `json:"class,omitempty"`
	Student     *StudentInfo    `json:"student,omitempty"`
}

// ToEnrollmentResponse converts a domain Enrollment to EnrollmentResponse
func ToEnrollmentResponse(e *academy.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:          e.ID,
		ClassID:     e.ClassID,
		UserID:      e.UserID,
		Status:      string(e.Status),
		PricePaid:   e.PricePaid,
		EnrolledAt:  e.CreatedAt,
		CancelledAt: e.CancelledAt,
	}
}
