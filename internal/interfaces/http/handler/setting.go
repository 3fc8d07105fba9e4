package handler

import (
	"github.com/gin-gonic/gin"
	settingapp "github.com/glowstudio/backend/internal/application/setting"
)

// SettingHandler serves studio settings
type SettingHandler struct {
	BaseHandler
	settings *settingapp.SettingService
}

// NewSettingHandler creates a new SettingHandler
func NewSettingHandler(settings *settingapp.SettingService) *SettingHandler {
	return &SettingHandler{settings: settings}
}

// Public godoc
// @ID           getPublicSettings
// @Summary      Get the settings the storefront may read
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[map[string]string]
// @Router       /settings [get]
func (h *SettingHandler) Public(c *gin.Context) {
	resp, err := h.settings.Public(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listAdminSettings
// @Summary      List every setting
// @Tags         admin-settings
// @Produce      json
// @Success      200 {object} APIResponse[[]settingapp.SettingResponse]
// @Security     BearerAuth
// @Router       /admin/settings [get]
func (h *SettingHandler) List(c *gin.Context) {
	resp, err := h.settings.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get godoc
// @ID           getAdminSetting
// @Summary      Get one setting
// @Tags         admin-settings
// @Produce      json
// @Param        key path string true "Setting key"
// @Success      200 {object} APIResponse[settingapp.SettingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/settings/{key} [get]
func (h *SettingHandler) Get(c *gin.Context) {
	resp, err := h.settings.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Upsert godoc
// @ID           upsertAdminSettings
// @Summary      Create or update settings in one call
// @Description  Values are checked against their type. Nothing is written if any entry fails.
// @Tags         admin-settings
// @Accept       json
// @Produce      json
// @Param        request body settingapp.UpsertSettingsRequest true "Settings"
// @Success      200 {object} APIResponse[[]settingapp.SettingResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/settings [put]
func (h *SettingHandler) Upsert(c *gin.Context) {
	var req settingapp.UpsertSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.settings.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteAdminSetting
// @Summary      Delete a custom setting
// @Description  Seeded settings cannot be deleted.
// @Tags         admin-settings
// @Param        key path string true "Setting key"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/settings/{key} [delete]
func (h *SettingHandler) Delete(c *gin.Context) {
	if err := h.settings.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
