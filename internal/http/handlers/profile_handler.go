// Profile HTTP handlers.
//
//   - GET /recommendations/profile  (read, created empty on first access)
//   - PUT /recommendations/profile  (update explicit preferences)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recs-backend/internal/services"
)

// UpdatePreferencesRequest is the JSON payload of PUT /recommendations/profile.
// Omitted fields are left unchanged; an empty list clears the field.
type UpdatePreferencesRequest struct {
	PreferredCategories       *[]string `json:"preferred_categories,omitempty"        example:"data-science,web"`
	PreferredDifficultyLevels *[]string `json:"preferred_difficulty_levels,omitempty" example:"beginner,intermediate"`
	PreferredLearningStyles   *[]string `json:"preferred_learning_styles,omitempty"   example:"video"`
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Get my learning profile
// @Description Returns the caller's profile with the derived feature snapshot and viewed courses.
// @Tags        Profile
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (forwarded by the gateway)"  example(user123)
//
// @Success     200  {object} domain.UserProfile
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations/profile [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.profileSvc.Get(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load profile", err)
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdatePreferences godoc
// @ID          updatePreferences
// @Summary     Update my preferences
// @Description Replaces the given explicit preference lists. Difficulty levels must be beginner, intermediate or advanced.
// @Tags        Profile
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (forwarded by the gateway)"  example(user123)
// @Param       body       body    handlers.UpdatePreferencesRequest true "Preferences"
//
// @Success     200  {object} domain.UserProfile
// @Failure     400  {object} handlers.ErrorResponse "Invalid preferences"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations/profile [put]
func (h *Handlers) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.profileSvc.UpdatePreferences(c.Request.Context(), userID(c), services.PreferencesInput{
		Categories:       req.PreferredCategories,
		DifficultyLevels: req.PreferredDifficultyLevels,
		LearningStyles:   req.PreferredLearningStyles,
	})
	switch {
	case errors.Is(err, services.ErrInvalidPreferences):
		fail(c, http.StatusBadRequest, ErrCodeInvalidPreferences, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "could not update preferences", err)
	default:
		ok(c, http.StatusOK, p)
	}
}
