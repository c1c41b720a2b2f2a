// Feedback HTTP handlers.
//
//   - POST /recommendations/{id}/feedback  (create or overwrite feedback)
//   - GET  /recommendations/feedback       (list the caller's feedback, paginated)
//
// Feedback is unique per (user, recommendation); submitting again replaces
// the kind and comment of the existing row.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/services"
)

// SubmitFeedbackRequest is the JSON payload for feedback on a recommendation.
type SubmitFeedbackRequest struct {
	// Kind is one of helpful, not_helpful, irrelevant, misleading.
	Kind domain.FeedbackKind `json:"kind" binding:"required" example:"helpful"`
	// Comment is optional free text, clipped to 2000 characters.
	Comment string `json:"comment,omitempty" example:"Exactly what I was looking for"`
}

// ListFeedbackResponse wraps a page of feedback and pagination information.
type ListFeedbackResponse struct {
	Feedback   []domain.Feedback `json:"feedback"`
	Pagination Pagination        `json:"pagination"`
}

// SubmitFeedback godoc
// @ID          submitFeedback
// @Summary     Leave feedback on a recommendation
// @Description Records the caller's verdict on one of their recommendations. A second call overwrites the first.
// @Tags        Feedback
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (forwarded by the gateway)"  example(user123)
// @Param       id         path    string  true  "Recommendation ID (UUID)"            format(uuid)
// @Param       body       body    handlers.SubmitFeedbackRequest true "Feedback payload"
//
// @Success     200  {object} domain.Feedback
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload or kind"
// @Failure     404  {object} handlers.ErrorResponse "Recommendation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /recommendations/{id}/feedback [post]
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "kind is required")
		return
	}

	fb, err := h.fbSvc.Submit(c.Request.Context(), userID(c), c.Param("id"), req.Kind, req.Comment)
	switch {
	case errors.Is(err, services.ErrInvalidFeedbackKind):
		fail(c, http.StatusBadRequest, ErrCodeInvalidFeedback, "kind must be one of helpful, not_helpful, irrelevant, misleading")
	case errors.Is(err, services.ErrRecommendationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recommendation not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not save feedback", err)
	default:
		h.remember(c, http.StatusOK)
		ok(c, http.StatusOK, fb)
	}
}

// ListFeedback godoc
// @ID          listFeedback
// @Summary     List my feedback (paginated)
// @Description Returns the caller's feedback, newest first.
// @Tags        Feedback
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (forwarded by the gateway)"  example(user123)
// @Param       page       query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListFeedbackResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations/feedback [get]
func (h *Handlers) ListFeedback(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.fbSvc.ListPage(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list feedback", err)
		return
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	ok(c, http.StatusOK, ListFeedbackResponse{
		Feedback:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}
