// Interaction HTTP handler.
//
//   - POST /recommendations/interactions
//   - GET  /recommendations/interactions
//
// Tracking is fire-and-forget from the client's point of view: once the
// body parses, the response is always 2xx. A rejected or failed event is
// reported as {"tracked": false} so a page render never breaks on it.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/services"
)

// TrackInteractionRequest is one interaction event.
type TrackInteractionRequest struct {
	CourseID string `json:"course_id" binding:"required" example:"3f0c1d2e-4b5a-6789-abcd-ef0123456789"`
	// Type is one of viewed, enrolled, completed, rated, wishlisted, searched.
	Type domain.InteractionType `json:"interaction_type" binding:"required" example:"viewed"`
	// Rating is 1..5 and only meaningful for rated events.
	Rating *int `json:"rating,omitempty" example:"5"`
	// TimeSpent is in seconds.
	TimeSpent int            `json:"time_spent,omitempty" example:"120"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TrackInteractionResponse reports whether the event was stored.
type TrackInteractionResponse struct {
	Tracked     bool                `json:"tracked" example:"true"`
	Interaction *domain.Interaction `json:"interaction,omitempty"`
	// Code and Reason are set when Tracked is false.
	Code   string `json:"code,omitempty" example:"not_tracked"`
	Reason string `json:"reason,omitempty" example:"course not found"`
}

// trackReason exposes validation causes and hides storage failures.
func trackReason(err error) string {
	for _, cause := range []error{
		services.ErrInvalidInteractionType,
		services.ErrInvalidRating,
		services.ErrInvalidTimeSpent,
		services.ErrCourseNotFound,
	} {
		if errors.Is(err, cause) {
			return cause.Error()
		}
	}
	return "temporarily unavailable"
}

// TrackInteraction godoc
// @ID          trackInteraction
// @Summary     Track an interaction
// @Description Records a user-course event. Re-sending the same interaction type for a course updates the stored event. Returns 202 when stored and 200 with tracked=false when not.
// @Tags        Interactions
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (forwarded by the gateway)"  example(user123)
// @Param       body       body    handlers.TrackInteractionRequest true "Interaction event"
//
// @Success     202  {object} handlers.TrackInteractionResponse "Tracked"
// @Success     200  {object} handlers.TrackInteractionResponse "Not tracked"
// @Failure     400  {object} handlers.ErrorResponse "Malformed body"
// @Router      /recommendations/interactions [post]
func (h *Handlers) TrackInteraction(c *gin.Context) {
	var req TrackInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "course_id and interaction_type are required")
		return
	}

	it, err := h.trackSvc.Track(c.Request.Context(), services.TrackInput{
		UserID:    userID(c),
		CourseID:  req.CourseID,
		Type:      req.Type,
		Rating:    req.Rating,
		TimeSpent: req.TimeSpent,
		Metadata:  req.Metadata,
	})
	if err != nil {
		ok(c, http.StatusOK, TrackInteractionResponse{
			Tracked: false,
			Code:    ErrCodeNotTracked,
			Reason:  trackReason(err),
		})
		return
	}
	ok(c, http.StatusAccepted, TrackInteractionResponse{Tracked: true, Interaction: it})
}

// InteractionListResponse is the caller's interaction history.
type InteractionListResponse struct {
	Count        int                  `json:"count" example:"3"`
	Interactions []domain.Interaction `json:"interactions"`
}

// ListInteractions godoc
// @ID          listInteractions
// @Summary     List tracked interactions
// @Description Returns the caller's stored interaction events, newest first.
// @Tags        Interactions
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (forwarded by the gateway)"  example(user123)
//
// @Success     200  {object} handlers.InteractionListResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations/interactions [get]
func (h *Handlers) ListInteractions(c *gin.Context) {
	items, err := h.trackSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list interactions", err)
		return
	}
	if items == nil {
		items = []domain.Interaction{}
	}
	ok(c, http.StatusOK, InteractionListResponse{Count: len(items), Interactions: items})
}
