package booking

import (
	"strings"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 720
)

// ServicePackage is a bookable makeup service such as a bridal look
type ServicePackage struct {
	shared.BaseAggregateRoot
	Name            string
	Description     string
	DurationMinutes int
	Price           decimal.Decimal
	HomeService     bool
	Active          bool
}

// PackageDetails carries the editable fields of a package
type PackageDetails struct {
	Name            string
	Description     string
	DurationMinutes int
	Price           decimal.Decimal
	HomeService     bool
	Active          bool
}

// NewServicePackage creates a package
func NewServicePackage(d PackageDetails) (*ServicePackage, error) {
	p := &ServicePackage{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields
func (p *ServicePackage) Update(d PackageDetails) error {
	if err := p.apply(d); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

func (p *ServicePackage) apply(d PackageDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" || len(name) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Package name must be 1 to 150 characters")
	}
	if d.DurationMinutes < MinDurationMinutes || d.DurationMinutes > MaxDurationMinutes {
		return shared.NewDomainError("INVALID_DURATION", "Duration must be between 15 and 720 minutes")
	}
	if d.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Name = name
	p.Description = strings.TrimSpace(d.Description)
	p.DurationMinutes = d.DurationMinutes
	p.Price = d.Price.Round(2)
	p.HomeService = d.HomeService
	p.Active = d.Active
	return nil
}
