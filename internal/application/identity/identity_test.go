package identity

import (
	"context"
	"testing"
	"time"

	"github.com/glowstudio/backend/internal/domain/identity"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/auth"
	"github.com/glowstudio/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters-long",
		Issuer:                 "glow-studio-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
	})
}

func newCustomer(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewCustomer("amira@example.com", "correct-horse", "Amira Noor")
	require.NoError(t, err)
	return u
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a customer and returns tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		svc := NewAuthService(repo, newJWT(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		resp, err := svc.Register(ctx, RegisterRequest{
			Email: " New@Example.com ", Password: "password123", FullName: "New Customer", Phone: "+60123456789",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "new@example.com", resp.User.Email)
		assert.Equal(t, "customer", resp.User.Role)
		assert.Equal(t, "+60123456789", resp.User.Phone)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)
		svc := NewAuthService(repo, newJWT(), nil, zap.NewNop())

		_, err := svc.Register(ctx, RegisterRequest{Email: "taken@example.com", Password: "password123", FullName: "X"})
		assert.True(t, shared.IsDomainError(err, "ALREADY_EXISTS"))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("short password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "short@example.com").Return(false, nil)
		svc := NewAuthService(repo, newJWT(), nil, zap.NewNop())

		_, err := svc.Register(ctx, RegisterRequest{Email: "short@example.com", Password: "short", FullName: "X"})
		assert.True(t, shared.IsDomainError(err, "INVALID_PASSWORD"))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := newCustomer(t)

	repo := new(MockUserRepository)
	repo.On("FindByEmail", ctx, "amira@example.com").Return(user, nil)
	repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)
	repo.On("Update", ctx, user).Return(nil)
	svc := NewAuthService(repo, newJWT(), nil, zap.NewNop())

	_, wrongPassword := svc.Login(ctx, LoginRequest{Email: "amira@example.com", Password: "nope-nope"})
	_, unknownEmail := svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "correct-horse"})
	require.Error(t, wrongPassword)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.True(t, shared.IsDomainError(unknownEmail, "UNAUTHORIZED"))

	resp, err := svc.Login(ctx, LoginRequest{Email: "AMIRA@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotNil(t, resp.User.LastLoginAt)
	repo.AssertCalled(t, "Update", ctx, user)
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	ctx := context.Background()
	user := newCustomer(t)
	require.NoError(t, user.SetStatus(identity.UserStatusDisabled))

	repo := new(MockUserRepository)
	repo.On("FindByEmail", ctx, "amira@example.com").Return(user, nil)
	svc := NewAuthService(repo, newJWT(), nil, zap.NewNop())

	_, err := svc.Login(ctx, LoginRequest{Email: "amira@example.com", Password: "correct-horse"})
	assert.True(t, shared.IsDomainError(err, "FORBIDDEN"))
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	user := newCustomer(t)
	jwtSvc := newJWT()
	blacklist := auth.NewInMemoryTokenBlacklist()

	repo := new(MockUserRepository)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	svc := NewAuthService(repo, jwtSvc, blacklist, zap.NewNop())

	pair, err := jwtSvc.GenerateTokenPair(auth.Subject{UserID: user.ID, Email: user.Email, Role: "customer"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, refreshed.RefreshToken)

	// the rotated refresh token cannot be replayed
	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.True(t, shared.IsDomainError(err, "UNAUTHORIZED"))

	// an access token is not a refresh token
	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: pair.AccessToken})
	assert.True(t, shared.IsDomainError(err, "UNAUTHORIZED"))

	require.NoError(t, svc.Logout(ctx, refreshed.AccessToken))
	claims, err := jwtSvc.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	revoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.True(t, shared.IsDomainError(svc.Logout(ctx, "garbage"), "UNAUTHORIZED"))
}

func TestUserService_ProfileAndPassword(t *testing.T) {
	ctx := context.Background()
	user := newCustomer(t)
	repo := new(MockUserRepository)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("Update", ctx, user).Return(nil)
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewUserService(repo, newJWT(), blacklist, zap.NewNop())

	resp, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{FullName: "Amira N.", Phone: "0123"})
	require.NoError(t, err)
	assert.Equal(t, "Amira N.", resp.FullName)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{OldPassword: "wrong-one", NewPassword: "new-password"})
	assert.True(t, shared.IsDomainError(err, "INVALID_PASSWORD"))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{OldPassword: "correct-horse", NewPassword: "new-password"}))
	assert.True(t, user.VerifyPassword("new-password"))

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	role := identity.RoleCustomer
	repo.On("FindAll", ctx, identity.UserFilter{Search: "amira", Role: &role, Page: 1, PageSize: 20}).
		Return([]*identity.User{newCustomer(t)}, int64(1), nil)
	svc := NewUserService(repo, newJWT(), nil, zap.NewNop())

	page, err := svc.List(ctx, UserListFilter{Search: "amira", Role: "customer"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.TotalPages)
}

func TestUserService_SetStatus(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	user := newCustomer(t)
	repo := new(MockUserRepository)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("Update", ctx, user).Return(nil).Once()
	svc := NewUserService(repo, newJWT(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())

	_, err := svc.SetStatus(ctx, adminID, adminID, SetUserStatusRequest{Status: "disabled"})
	assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))

	resp, err := svc.SetStatus(ctx, adminID, user.ID, SetUserStatusRequest{Status: "disabled"})
	require.NoError(t, err)
	assert.Equal(t, "disabled", resp.Status)

	// no change, no write
	_, err = svc.SetStatus(ctx, adminID, user.ID, SetUserStatusRequest{Status: "disabled"})
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "admin@glow.test").Return(nil, shared.ErrNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.IsAdmin() && u.FullName == "Administrator"
		})).Return(nil)
		svc := NewUserService(repo, newJWT(), nil, zap.NewNop())

		require.NoError(t, svc.EnsureAdmin(ctx, "Admin@Glow.test", "bootstrap-pass", ""))
		repo.AssertExpectations(t)
	})

	t.Run("promotes an existing customer", func(t *testing.T) {
		user := newCustomer(t)
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "amira@example.com").Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)
		svc := NewUserService(repo, newJWT(), nil, zap.NewNop())

		require.NoError(t, svc.EnsureAdmin(ctx, "amira@example.com", "ignored-pass", "Amira"))
		assert.True(t, user.IsAdmin())
		repo.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("noop when empty", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), newJWT(), nil, zap.NewNop())
		assert.NoError(t, svc.EnsureAdmin(ctx, "", "", ""))
	})
}
