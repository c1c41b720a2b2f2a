// Engine settings HTTP handlers (admin only).
//
//   - GET /recommendations/settings
//   - PUT /recommendations/settings
//
// The router guards both with middleware.RequireRole(middleware.RoleAdmin).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recs-backend/internal/services"
)

// GetSettings godoc
// @ID          getSettings
// @Summary     Get engine settings
// @Description Returns the stored engine settings, or the defaults when none are stored.
// @Tags        Settings
// @Produce     json
//
// @Param       X-User-Role  header  string  true  "Caller role"  example(admin)
//
// @Success     200  {object} recommend.Settings
// @Failure     403  {object} handlers.ErrorResponse "Not an admin"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations/settings [get]
func (h *Handlers) GetSettings(c *gin.Context) {
	s, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load settings", err)
		return
	}
	ok(c, http.StatusOK, s)
}

// UpdateSettings godoc
// @ID          updateSettings
// @Summary     Update engine settings
// @Description Merges the given fields onto the current settings. Weights must be keyed by a known algorithm and be non-negative. Runs already in progress keep the settings they started with.
// @Tags        Settings
// @Accept      json
// @Produce     json
//
// @Param       X-User-Role  header  string  true  "Caller role"  example(admin)
// @Param       body         body    services.SettingsInput  true  "Fields to change"
//
// @Success     200  {object} recommend.Settings
// @Failure     400  {object} handlers.ErrorResponse "Invalid settings"
// @Failure     403  {object} handlers.ErrorResponse "Not an admin"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations/settings [put]
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var in services.SettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	s, err := h.settingsSvc.Update(c.Request.Context(), in)
	switch {
	case errors.Is(err, services.ErrInvalidSettings):
		fail(c, http.StatusBadRequest, ErrCodeInvalidSettings, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "could not update settings", err)
	default:
		h.remember(c, http.StatusOK)
		ok(c, http.StatusOK, s)
	}
}
