package testimonial

import (
	"context"
	"errors"
	"testing"

	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/domain/testimonial"
	"github.com/glowstudio/backend/internal/infrastructure/persistence"
	"github.com/glowstudio/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newService(t *testing.T) *TestimonialService {
	t.Helper()
	return NewTestimonialService(persistence.NewGormTestimonialRepository(testutil.NewSQLiteDB(t)), nil)
}

func submit(t *testing.T, svc *TestimonialService, author string, rating int) *Response {
	t.Helper()
	r, err := svc.Submit(context.Background(), nil, SubmitRequest{
		AuthorName: author,
		Rating:     rating,
		Content:    "Flawless makeup that lasted all night long.",
	})
	require.NoError(t, err)
	return r
}

func TestTestimonialService_SubmitStartsPending(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	userID := uuid.New()

	r, err := svc.Submit(ctx, &userID, SubmitRequest{
		AuthorName:  " Lena ",
		Rating:      5,
		Title:       "Wedding day",
		Content:     "Everyone asked who did my makeup!",
		ServiceType: "bridal",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", r.Status)
	assert.Equal(t, "Lena", r.AuthorName)
	require.NotNil(t, r.UserID)
	assert.Equal(t, userID, *r.UserID)

	_, err = svc.Submit(ctx, nil, SubmitRequest{AuthorName: "Bo", Rating: 9, Content: "Long enough to pass"})
	assert.True(t, shared.IsDomainError(err, "INVALID_RATING"))

	public, err := svc.ListPublic(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, public.Items)
	assert.Zero(t, public.Summary.Count)
}

func TestTestimonialService_ModerationAndPublicListing(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a := submit(t, svc, "Ana", 5)
	b := submit(t, svc, "Bea", 4)
	c := submit(t, svc, "Cara", 4)
	spam := submit(t, svc, "Spam", 1)

	_, err := svc.SetFeatured(ctx, a.ID, FeatureRequest{Featured: true})
	assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))

	for _, id := range []uuid.UUID{a.ID, b.ID, c.ID} {
		_, err := svc.Approve(ctx, id)
		require.NoError(t, err)
	}
	_, err = svc.Reject(ctx, spam.ID)
	require.NoError(t, err)

	featured, err := svc.SetFeatured(ctx, b.ID, FeatureRequest{Featured: true})
	require.NoError(t, err)
	assert.True(t, featured.Featured)

	public, err := svc.ListPublic(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), public.Total)
	// featured first
	assert.Equal(t, b.ID, public.Items[0].ID)
	assert.Equal(t, int64(3), public.Summary.Count)
	assert.InDelta(t, 4.3, public.Summary.AverageRating, 0.001)

	yes := true
	onlyFeatured, err := svc.ListPublic(ctx, ListFilter{Featured: &yes})
	require.NoError(t, err)
	require.Len(t, onlyFeatured.Items, 1)

	rejected, err := svc.List(ctx, ListFilter{Status: "rejected"})
	require.NoError(t, err)
	require.Len(t, rejected.Items, 1)
	assert.Equal(t, "Spam", rejected.Items[0].AuthorName)

	pending, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)

	require.NoError(t, svc.Delete(ctx, spam.ID))
	assert.ErrorIs(t, svc.Delete(ctx, spam.ID), shared.ErrNotFound)
}

// MockRepository is a mock testimonial.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*testimonial.Testimonial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*testimonial.Testimonial), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, filter testimonial.Filter) ([]testimonial.Testimonial, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]testimonial.Testimonial), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Save(ctx context.Context, t *testimonial.Testimonial) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ApprovedSummary(ctx context.Context) (testimonial.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(testimonial.Summary), args.Error(1)
}

func (m *MockRepository) CountByStatus(ctx context.Context, status testimonial.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func TestTestimonialService_ApproveSaveFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	core, logs := observer.New(zap.InfoLevel)
	svc := NewTestimonialService(repo, zap.New(core))

	tm, err := testimonial.NewTestimonial(testimonial.Submission{AuthorName: "Dee", Rating: 3, Content: "Good but a little late."})
	require.NoError(t, err)
	repo.On("FindByID", ctx, tm.ID).Return(tm, nil)
	repo.On("Save", ctx, tm).Return(errors.New("connection reset"))

	_, err = svc.Approve(ctx, tm.ID)
	assert.EqualError(t, err, "connection reset")
	assert.Zero(t, logs.FilterMessage("Testimonial moderated").Len())
	repo.AssertExpectations(t)
}
