package identity

import (
	"context"
	"errors"

	"github.com/glowstudio/backend/internal/domain/identity"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles profile management and user administration
type UserService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Me returns the caller's account
func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile changes the caller's name and phone
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.FullName, req.Phone); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword verifies the old password, sets the new one and revokes
// every token issued before the change
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.revokeAll(ctx, user.ID)
	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// List returns users for the admin console
func (s *UserService) List(ctx context.Context, filter UserListFilter) (shared.Paginated[UserResponse], error) {
	f := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}
	f.Normalize()

	query := identity.UserFilter{
		Search:   filter.Search,
		Page:     f.Page,
		PageSize: f.PageSize,
	}
	if filter.Role != "" {
		role := identity.Role(filter.Role)
		query.Role = &role
	}
	if filter.Status != "" {
		status := identity.UserStatus(filter.Status)
		query.Status = &status
	}

	users, total, err := s.userRepo.FindAll(ctx, query)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserResponse(u))
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// SetStatus enables or disables an account. Admins cannot disable themselves.
func (s *UserService) SetStatus(ctx context.Context, actorID, userID uuid.UUID, req SetUserStatusRequest) (*UserResponse, error) {
	status := identity.UserStatus(req.Status)
	if actorID == userID && status == identity.UserStatusDisabled {
		return nil, shared.NewDomainError("INVALID_STATE", "You cannot disable your own account")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := user.Status
	if err := user.SetStatus(status); err != nil {
		return nil, err
	}
	if user.Status != previous {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		if status == identity.UserStatusDisabled {
			s.revokeAll(ctx, user.ID)
		}
		s.logger.Info("User status changed",
			zap.String("user_id", user.ID.String()),
			zap.String("status", string(status)),
			zap.String("actor_id", actorID.String()))
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// EnsureAdmin creates the bootstrap admin account, or promotes and re-enables
// an existing account with that email. It does nothing when email is empty.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, fullName string) error {
	if email == "" {
		return nil
	}
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, normalized)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		if fullName == "" {
			fullName = "Administrator"
		}
		admin, err := identity.NewUser(normalized, password, fullName, identity.RoleAdmin)
		if err != nil {
			return err
		}
		if err := s.userRepo.Create(ctx, admin); err != nil {
			// another instance may have created it concurrently
			if errors.Is(err, shared.ErrAlreadyExists) {
				return nil
			}
			return err
		}
		s.logger.Info("Bootstrap admin created", zap.String("email", normalized))
		return nil
	case err != nil:
		return err
	}

	// each save carries exactly one version bump
	if !user.IsAdmin() {
		user.PromoteToAdmin()
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		s.logger.Info("Existing account promoted to admin", zap.String("email", normalized))
	}
	if !user.IsActive() {
		if err := user.SetStatus(identity.UserStatusActive); err != nil {
			return err
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

func (s *UserService) revokeAll(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
		s.logger.Warn("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
