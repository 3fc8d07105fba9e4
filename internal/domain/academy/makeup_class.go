package academy

import (
	"strings"
	"time"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Level is the skill level a class targets
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// IsValid checks if the level is known
func (l Level) IsValid() bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

// ClassStatus represents the lifecycle state of a class
type ClassStatus string

const (
	ClassScheduled ClassStatus = "scheduled"
	ClassCancelled ClassStatus = "cancelled"
	ClassCompleted ClassStatus = "completed"
)

// MakeupClass is a scheduled group workshop with limited seats
type MakeupClass struct {
	shared.BaseAggregateRoot
	Title           string
	Slug            string
	Description     string
	Instructor      string
	Level           Level
	StartAt         time.Time
	DurationMinutes int
	Location        string
	Capacity        int
	EnrolledCount   int
	Price           decimal.Decimal
	Status          ClassStatus
	CoverImageURL   string
}

// ClassDetails carries the editable fields of a class
type ClassDetails struct {
	Title           string
	Slug            string
	Description     string
	Instructor      string
	Level           Level
	StartAt         time.Time
	DurationMinutes int
	Location        string
	Capacity        int
	Price           decimal.Decimal
	CoverImageURL   string
}

// NewMakeupClass creates a scheduled class
func NewMakeupClass(d ClassDetails) (*MakeupClass, error) {
	c := &MakeupClass{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            ClassScheduled,
	}
	if err := c.apply(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields. Capacity cannot drop below current enrollment.
func (c *MakeupClass) Update(d ClassDetails) error {
	if c.Status != ClassScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only scheduled classes can be edited")
	}
	if d.Capacity < c.EnrolledCount {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity cannot be lower than the number of enrolled students")
	}
	if err := c.apply(d); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *MakeupClass) apply(d ClassDetails) error {
	title := strings.TrimSpace(d.Title)
	if title == "" || len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1 to 200 characters")
	}
	slug, err := shared.ResolveSlug(d.Slug, title)
	if err != nil {
		return err
	}
	if !d.Level.IsValid() {
		return shared.NewDomainError("INVALID_LEVEL", "Level must be beginner, intermediate or advanced")
	}
	if d.StartAt.IsZero() {
		return shared.NewDomainError("INVALID_START", "Start time is required")
	}
	if d.DurationMinutes < 30 || d.DurationMinutes > 1440 {
		return shared.NewDomainError("INVALID_DURATION", "Duration must be between 30 and 1440 minutes")
	}
	if d.Capacity < 1 {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity must be at least 1")
	}
	if d.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	c.Title = title
	c.Slug = slug
	c.Description = strings.TrimSpace(d.Description)
	c.Instructor = strings.TrimSpace(d.Instructor)
	c.Level = d.Level
	c.StartAt = d.StartAt.UTC()
	c.DurationMinutes = d.DurationMinutes
	c.Location = strings.TrimSpace(d.Location)
	c.Capacity = d.Capacity
	c.Price = d.Price.Round(2)
	c.CoverImageURL = d.CoverImageURL
	return nil
}

// SeatsLeft returns the number of free seats
func (c *MakeupClass) SeatsLeft() int {
	if left := c.Capacity - c.EnrolledCount; left > 0 {
		return left
	}
	return 0
}

// CheckEnrollable verifies a new student may join at time now
func (c *MakeupClass) CheckEnrollable(now time.Time) error {
	if c.Status != ClassScheduled {
		return shared.NewDomainError("CLASS_UNAVAILABLE", "Class is not open for enrollment")
	}
	if !c.StartAt.After(now) {
		return shared.NewDomainError("CLASS_STARTED", "Class has already started")
	}
	if c.SeatsLeft() == 0 {
		return shared.NewDomainError("CLASS_FULL", "Class is full")
	}
	return nil
}

// Cancel calls off a scheduled class
func (c *MakeupClass) Cancel() error {
	if c.Status != ClassScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only scheduled classes can be cancelled")
	}
	c.Status = ClassCancelled
	c.IncrementVersion()
	return nil
}

// Complete marks a scheduled class as held
func (c *MakeupClass) Complete() error {
	if c.Status != ClassScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only scheduled classes can be completed")
	}
	c.Status = ClassCompleted
	c.IncrementVersion()
	return nil
}
