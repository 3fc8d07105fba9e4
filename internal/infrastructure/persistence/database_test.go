package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("successful ping", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing()

		assert.NoError(t, db.Ping(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping failure is returned", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		err := db.Ping(context.Background())
		assert.EqualError(t, err, "connection refused")
	})
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, stats.InUse+stats.Idle, stats.OpenConnections)
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"record not found", gorm.ErrRecordNotFound, "NOT_FOUND"},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "products_slug_key"}, "ALREADY_EXISTS"},
		{"exclusion violation", &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"}, "SLOT_UNAVAILABLE"},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, "INVALID_REFERENCE"},
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "products_stock_check"}, "INVALID_INPUT"},
		{"translated duplicate", gorm.ErrDuplicatedKey, "ALREADY_EXISTS"},
		{"translated foreign key", gorm.ErrForeignKeyViolated, "INVALID_REFERENCE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, shared.IsDomainError(translateError(tt.err), tt.code))
		})
	}

	t.Run("passes through unknown errors", func(t *testing.T) {
		err := errors.New("boom")
		assert.Same(t, err, translateError(err))
		assert.NoError(t, translateError(nil))
	})
}

func TestGormProductRepository_AdjustStock_SQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(db.DB)

	mock.ExpectExec(`UPDATE "products" SET .* WHERE .*stock \+ \$\d+ >= 0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$\d+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stock"}).AddRow("7f1f7b2e-4c2a-4c1e-9a55-3f1c0b7d9a11", 0))

	_, err := repo.AdjustStock(context.Background(), mustUUID(t, "7f1f7b2e-4c2a-4c1e-9a55-3f1c0b7d9a11"), -1)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}
