package persistence

import (
	"errors"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repositories translate
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgExclusionViolation  = "23P01"
)

// ErrSlotUnavailable is returned when the bookings exclusion constraint rejects an insert
var ErrSlotUnavailable = shared.NewDomainError("SLOT_UNAVAILABLE", "The requested time slot is no longer available")

// translateError maps driver and GORM errors onto domain errors.
// Unknown errors are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return shared.NewDomainError("ALREADY_EXISTS", uniqueMessage(pgErr.ConstraintName))
		case pgExclusionViolation:
			return ErrSlotUnavailable
		case pgForeignKeyViolation:
			return shared.NewDomainError("INVALID_REFERENCE", "Referenced resource does not exist")
		case pgCheckViolation:
			return shared.NewDomainError("INVALID_INPUT", "Value violates constraint "+pgErr.ConstraintName)
		}
	}
	// With TranslateError enabled the sqlite and postgres dialectors report these generically.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return shared.NewDomainError("INVALID_REFERENCE", "Referenced resource does not exist")
	}
	return err
}

func uniqueMessage(constraint string) string {
	if constraint == "" {
		return "Resource already exists"
	}
	return "Resource already exists (" + constraint + ")"
}
