// Recommendation HTTP handlers.
//
//   - GET  /recommendations                (active batch, weak ETag)
//   - GET  /recommendations/{id}           (one recommendation)
//   - POST /recommendations/generate       (generate or reuse the batch)
//   - POST /recommendations/{id}/click     (mark clicked)
//   - POST /recommendations/{id}/dismiss   (mark dismissed)
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/http/middleware"
	"github.com/tbourn/go-recs-backend/internal/recommend"
	"github.com/tbourn/go-recs-backend/internal/repo"
	"github.com/tbourn/go-recs-backend/internal/services"
)

// HeaderIdempotencyReplayed is set to "true" when a response was served
// from an earlier request with the same Idempotency-Key.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

//
// DTOs
//

// GenerateRequest is the optional JSON body of POST /recommendations/generate.
type GenerateRequest struct {
	// Force regenerates even when an active batch exists.
	Force bool `json:"force" example:"false"`
}

// RecommendationListResponse is the active batch plus the derived state.
type RecommendationListResponse struct {
	State           services.State          `json:"state" example:"active"`
	Count           int                     `json:"count" example:"10"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// GenerateResponse is returned by POST /recommendations/generate.
type GenerateResponse struct {
	Regenerated      bool                    `json:"regenerated" example:"true"`
	Count            int                     `json:"count" example:"10"`
	FailedAlgorithms []domain.Algorithm      `json:"failed_algorithms,omitempty"`
	Recommendations  []domain.Recommendation `json:"recommendations"`
}

//
// Helpers
//

// recommendationsETag is a weak validator over everything the list shows.
func recommendationsETag(uid string, st repo.RecommendationStats) string {
	var gen, touched int64
	if st.LatestGenerated != nil {
		gen = st.LatestGenerated.UnixNano()
	}
	if st.LatestTouched != nil {
		touched = st.LatestTouched.UnixNano()
	}
	return fmt.Sprintf(`W/"recs:%s:%d:%d:%d"`, uid, st.Count, gen, touched)
}

// recommendationError maps service errors of the single-item endpoints.
func recommendationError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrRecommendationNotFound) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recommendation not found")
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "could not update recommendation", err)
}

// publicView returns rec without the internal rationale keys. The stored
// row is left untouched.
func publicView(rec domain.Recommendation) domain.Recommendation {
	if len(rec.ReasonData) == 0 {
		return rec
	}
	data := make(datatypes.JSONMap, len(rec.ReasonData))
	for k, v := range rec.ReasonData {
		data[k] = v
	}
	for _, k := range recommend.InternalReasonKeys {
		delete(data, k)
	}
	rec.ReasonData = data
	return rec
}

// publicList applies publicView to items and never returns nil.
func publicList(items []domain.Recommendation) []domain.Recommendation {
	out := make([]domain.Recommendation, 0, len(items))
	for _, r := range items {
		out = append(out, publicView(r))
	}
	return out
}

// publicResponse serves one recommendation.
func publicResponse(c *gin.Context, rec *domain.Recommendation) {
	ok(c, http.StatusOK, publicView(*rec))
}

//
// Handlers
//

// ListRecommendations godoc
// @ID          listRecommendations
// @Summary     List active recommendations
// @Description Returns the caller's non-expired recommendations, best first, with the generation state. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Recommendations
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (forwarded by the gateway)"  example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"          example(W/\"recs:user123:10:0:0\")
//
// @Success     200  {object} handlers.RecommendationListResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations [get]
func (h *Handlers) ListRecommendations(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	// ETag pre-check (best effort).
	if st, err := h.recSvc.ActiveStats(ctx, uid); err == nil {
		etag := recommendationsETag(uid, st)
		c.Header("ETag", etag)
		c.Header("Cache-Control", "private, no-cache")
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, err := h.recSvc.Active(ctx, uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list recommendations", err)
		return
	}
	state, err := h.recSvc.State(ctx, uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list recommendations", err)
		return
	}
	ok(c, http.StatusOK, RecommendationListResponse{
		State:           state,
		Count:           len(items),
		Recommendations: publicList(items),
	})
}

// GetRecommendation godoc
// @ID          getRecommendation
// @Summary     Get one recommendation
// @Description Returns a recommendation owned by the caller, expired or not.
// @Tags        Recommendations
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (forwarded by the gateway)"  example(user123)
// @Param       id         path    string  true  "Recommendation ID (UUID)"            format(uuid)
//
// @Success     200  {object} domain.Recommendation
// @Failure     404  {object} handlers.ErrorResponse "Recommendation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations/{id} [get]
func (h *Handlers) GetRecommendation(c *gin.Context) {
	rec, err := h.recSvc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRecommendationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recommendation not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load recommendation", err)
		return
	}
	publicResponse(c, rec)
}

// GenerateRecommendations godoc
// @ID          generateRecommendations
// @Summary     Generate recommendations
// @Description Returns the active batch unchanged unless it is missing, expired or force is set; otherwise runs the engine and replaces the batch. Generator failures never fail the call. Supports idempotency via the Idempotency-Key header: a replay returns the current batch without regenerating.
// @Tags        Recommendations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (forwarded by the gateway)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"     example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.GenerateRequest  false  "Generation options"
//
// @Success     200  {object} handlers.GenerateResponse
// @Header      200  {string} Idempotency-Replayed "true when served from a previous request"
// @Failure     400  {object} handlers.ErrorResponse "Invalid body or Idempotency-Key"
// @Failure     429  {object} handlers.ErrorResponse "Rate limited"
// @Failure     500  {object} handlers.ErrorResponse "Generation failed"
// @Router      /recommendations/generate [post]
func (h *Handlers) GenerateRecommendations(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	// Idempotency (replay path): answer from current state.
	if middleware.IsReplay(c) {
		items, err := h.recSvc.Active(ctx, uid)
		if err == nil {
			c.Header(HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusOK, GenerateResponse{
				Regenerated:     false,
				Count:           len(items),
				Recommendations: publicList(items),
			})
			return
		}
		middleware.LoggerFrom(c).Warn().Err(err).Msg("replay lookup failed, generating")
	}

	res, err := h.recSvc.Generate(ctx, uid, req.Force)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, "could not generate recommendations", err)
		return
	}

	h.remember(c, http.StatusOK)
	ok(c, http.StatusOK, GenerateResponse{
		Regenerated:      res.Regenerated,
		Count:            len(res.Items),
		FailedAlgorithms: res.FailedAlgorithms,
		Recommendations:  publicList(res.Items),
	})
}

// ClickRecommendation godoc
// @ID          clickRecommendation
// @Summary     Mark a recommendation as clicked
// @Description Sets is_clicked and keeps the first click time. Repeating the call is harmless.
// @Tags        Recommendations
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (forwarded by the gateway)"  example(user123)
// @Param       id         path    string  true  "Recommendation ID (UUID)"            format(uuid)
//
// @Success     200  {object} domain.Recommendation
// @Failure     404  {object} handlers.ErrorResponse "Recommendation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations/{id}/click [post]
func (h *Handlers) ClickRecommendation(c *gin.Context) {
	rec, err := h.recSvc.Click(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		recommendationError(c, err)
		return
	}
	publicResponse(c, rec)
}

// DismissRecommendation godoc
// @ID          dismissRecommendation
// @Summary     Dismiss a recommendation
// @Description Sets is_dismissed and keeps the first dismissal time. Repeating the call is harmless.
// @Tags        Recommendations
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (forwarded by the gateway)"  example(user123)
// @Param       id         path    string  true  "Recommendation ID (UUID)"            format(uuid)
//
// @Success     200  {object} domain.Recommendation
// @Failure     404  {object} handlers.ErrorResponse "Recommendation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recommendations/{id}/dismiss [post]
func (h *Handlers) DismissRecommendation(c *gin.Context) {
	rec, err := h.recSvc.Dismiss(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		recommendationError(c, err)
		return
	}
	publicResponse(c, rec)
}
