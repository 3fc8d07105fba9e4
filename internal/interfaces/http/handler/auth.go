package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	identityapp "github.com/glowstudio/backend/internal/application/identity"
	"github.com/glowstudio/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves sign-up, login, token refresh and the caller's profile
type AuthHandler struct {
	BaseHandler
	auth  *identityapp.AuthService
	users *identityapp.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *identityapp.AuthService, users *identityapp.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Register godoc
// @ID           registerAuth
// @Summary      Register a customer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterRequest true "Sign-up details"
// @Success      201 {object} APIResponse[identityapp.AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Login godoc
// @ID           loginAuth
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[identityapp.AuthResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh godoc
// @ID           refreshAuth
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[identityapp.AuthResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.auth.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout godoc
// @ID           logoutAuth
// @Summary      Revoke the current access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader(middleware.AuthHeaderKey), middleware.BearerPrefix))
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Logged out"})
}

// Me godoc
// @ID           getMe
// @Summary      Get the caller's profile
// @Tags         account
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	resp, err := h.users.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProfile godoc
// @ID           updateMe
// @Summary      Update the caller's name and phone
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateProfileRequest true "Profile"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /me [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req identityapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.users.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword godoc
// @ID           changeMyPassword
// @Summary      Change the caller's password
// @Description  Other sessions of the user are signed out.
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request body identityapp.ChangePasswordRequest true "Passwords"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /me/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req identityapp.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Password changed"})
}

// UserHandler serves the admin user directory
type UserHandler struct {
	BaseHandler
	users *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *identityapp.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List godoc
// @ID           listAdminUsers
// @Summary      List users
// @Tags         admin-users
// @Produce      json
// @Param        search query string false "Email or name"
// @Param        role query string false "customer or admin"
// @Param        status query string false "active or disabled"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]identityapp.UserResponse]
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// SetStatus godoc
// @ID           setAdminUserStatus
// @Summary      Enable or disable a user
// @Description  Disabling revokes every token the user holds. Admins cannot disable themselves.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body identityapp.SetUserStatusRequest true "Status"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/status [put]
func (h *UserHandler) SetStatus(c *gin.Context) {
	actorID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.SetUserStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.users.SetStatus(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
