package academy

import (
	"context"
	"testing"
	"time"

	"github.com/glowstudio/backend/internal/domain/identity"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/persistence"
	"github.com/glowstudio/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	svc   *AcademyService
	users *persistence.GormUserRepository
	logs  *observer.ObservedLogs
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	core, logs := observer.New(zap.InfoLevel)
	f := &fixture{
		users: persistence.NewGormUserRepository(db),
		logs:  logs,
		now:   time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewAcademyService(
		persistence.NewGormTransactionScope(db),
		persistence.NewGormMakeupClassRepository(db),
		persistence.NewGormEnrollmentRepository(db),
		f.users,
		zap.New(core),
	)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) class(t *testing.T, title string, capacity int, startIn time.Duration) *ClassResponse {
	t.Helper()
	c, err := f.svc.CreateClass(context.Background(), ClassRequest{
		Title:           title,
		Level:           "beginner",
		StartAt:         f.now.Add(startIn),
		DurationMinutes: 120,
		Capacity:        capacity,
		Price:           decimal.NewFromInt(150),
		Instructor:      "Mira Sol",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) student(t *testing.T, email string) uuid.UUID {
	t.Helper()
	u, err := identity.NewCustomer(email, "s3cret-pass", "Student "+email)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func TestAcademyService_EnrollUntilFull(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.class(t, "Everyday Makeup Basics", 2, 72*time.Hour)
	assert.Equal(t, "everyday-makeup-basics", c.Slug)
	assert.Equal(t, 2, c.SeatsLeft)

	a, b, late := f.student(t, "a@example.com"), f.student(t, "b@example.com"), f.student(t, "c@example.com")

	first, err := f.svc.Enroll(ctx, a, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "enrolled", first.Status)
	assert.Equal(t, "150.00", first.PricePaid.StringFixed(2))
	assert.Equal(t, 1, first.Class.SeatsLeft)

	_, err = f.svc.Enroll(ctx, a, c.ID)
	assert.True(t, shared.IsDomainError(err, "ALREADY_ENROLLED"))

	_, err = f.svc.Enroll(ctx, b, c.ID)
	require.NoError(t, err)

	_, err = f.svc.Enroll(ctx, late, c.ID)
	assert.True(t, shared.IsDomainError(err, "CLASS_FULL"))

	got, err := f.svc.GetClassBySlug(ctx, c.Slug)
	require.NoError(t, err)
	assert.Equal(t, 2, got.EnrolledCount)
	assert.Zero(t, got.SeatsLeft)

	// a cancellation frees the seat
	_, err = f.svc.CancelEnrollment(ctx, a, first.ID)
	require.NoError(t, err)
	_, err = f.svc.Enroll(ctx, late, c.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, f.logs.FilterMessage("Student enrolled").Len())
}

func TestAcademyService_CancelEnrollmentRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.class(t, "Evening Glam", 5, 2*time.Hour)
	student := f.student(t, "d@example.com")

	e, err := f.svc.Enroll(ctx, student, c.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelEnrollment(ctx, uuid.New(), e.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	f.now = f.now.Add(3 * time.Hour)
	_, err = f.svc.CancelEnrollment(ctx, student, e.ID)
	assert.True(t, shared.IsDomainError(err, "CLASS_STARTED"))

	_, err = f.svc.Enroll(ctx, f.student(t, "e@example.com"), c.ID)
	assert.True(t, shared.IsDomainError(err, "CLASS_STARTED"))
}

func TestAcademyService_CancelClassCancelsEnrollments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.class(t, "Bridal Masterclass", 10, 96*time.Hour)
	s1, s2 := f.student(t, "f@example.com"), f.student(t, "g@example.com")
	_, err := f.svc.Enroll(ctx, s1, c.ID)
	require.NoError(t, err)
	_, err = f.svc.Enroll(ctx, s2, c.ID)
	require.NoError(t, err)

	cancelled, err := f.svc.CancelClass(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	enrollments, err := f.svc.ClassEnrollments(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	for _, e := range enrollments {
		assert.Equal(t, "cancelled", e.Status)
		require.NotNil(t, e.Student)
		assert.Contains(t, e.Student.Email, "@example.com")
	}

	_, err = f.svc.Enroll(ctx, f.student(t, "h@example.com"), c.ID)
	assert.True(t, shared.IsDomainError(err, "CLASS_UNAVAILABLE"))
	_, err = f.svc.CompleteClass(ctx, c.ID)
	assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))

	logged := f.logs.FilterMessage("Class cancelled").All()
	require.Len(t, logged, 1)
	assert.Equal(t, int64(2), logged[0].ContextMap()["enrollments_cancelled"])
}

func TestAcademyService_UpdateCapacityAndSlug(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.class(t, "Contour Clinic", 3, 48*time.Hour)
	other := f.class(t, "Lash Lab", 3, 48*time.Hour)
	for _, email := range []string{"i@example.com", "j@example.com"} {
		_, err := f.svc.Enroll(ctx, f.student(t, email), c.ID)
		require.NoError(t, err)
	}

	req := ClassRequest{
		Title: "Contour Clinic", Level: "advanced", StartAt: f.now.Add(48 * time.Hour),
		DurationMinutes: 90, Capacity: 1, Price: decimal.NewFromInt(200),
	}
	_, err := f.svc.UpdateClass(ctx, c.ID, req)
	assert.True(t, shared.IsDomainError(err, "INVALID_CAPACITY"))

	req.Capacity = 2
	req.Slug = other.Slug
	_, err = f.svc.UpdateClass(ctx, c.ID, req)
	assert.True(t, shared.IsDomainError(err, "ALREADY_EXISTS"))

	req.Slug = ""
	updated, err := f.svc.UpdateClass(ctx, c.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "advanced", updated.Level)
	assert.Zero(t, updated.SeatsLeft)

	assert.True(t, shared.IsDomainError(f.svc.DeleteClass(ctx, c.ID), "INVALID_STATE"))
	assert.NoError(t, f.svc.DeleteClass(ctx, other.ID))
}

func TestAcademyService_Listing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	soon := f.class(t, "Skin Prep", 5, 24*time.Hour)
	later := f.class(t, "Color Theory", 5, 240*time.Hour)
	f.class(t, "Old Workshop", 5, -24*time.Hour)

	public, err := f.svc.ListClasses(ctx, ClassListFilter{}, true)
	require.NoError(t, err)
	require.Len(t, public.Items, 2)
	assert.Equal(t, soon.ID, public.Items[0].ID)
	assert.Equal(t, later.ID, public.Items[1].ID)

	all, err := f.svc.ListClasses(ctx, ClassListFilter{}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	byLevel, err := f.svc.ListClasses(ctx, ClassListFilter{Level: "advanced"}, true)
	require.NoError(t, err)
	assert.Empty(t, byLevel.Items)

	student := f.student(t, "k@example.com")
	_, err = f.svc.Enroll(ctx, student, later.ID)
	require.NoError(t, err)
	mine, err := f.svc.MyEnrollments(ctx, student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Color Theory", mine[0].Class.Title)
}
