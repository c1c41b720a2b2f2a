package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/services"
)

func TestSubmitFeedback(t *testing.T) {
	var got struct {
		uid, recID string
		kind       domain.FeedbackKind
		comment    string
	}
	svc := stubFeedbackSvc{submit: func(_ context.Context, uid, recID string, kind domain.FeedbackKind, comment string) (*domain.Feedback, error) {
		got.uid, got.recID, got.kind, got.comment = uid, recID, kind, comment
		switch {
		case !kind.Valid():
			return nil, fmt.Errorf("submit: %w", services.ErrInvalidFeedbackKind)
		case recID == "missing":
			return nil, services.ErrRecommendationNotFound
		case recID == "broken":
			return nil, errors.New("constraint failed")
		}
		return &domain.Feedback{ID: "fb-1", UserID: uid, RecommendationID: recID, Kind: kind, Comment: comment}, nil
	}}
	r := newTestRouter(Services{Feedback: svc})

	w := doJSON(t, r, http.MethodPost, "/recommendations/rec-1/feedback",
		SubmitFeedbackRequest{Kind: domain.FeedbackHelpful, Comment: "spot on"}, asUser("u1"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	fb := decode[domain.Feedback](t, w)
	if fb.Kind != domain.FeedbackHelpful || got.uid != "u1" || got.recID != "rec-1" || got.comment != "spot on" {
		t.Fatalf("unexpected: body=%+v call=%+v", fb, got)
	}

	cases := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"missing kind", "/recommendations/rec-1/feedback", map[string]string{"comment": "x"}, http.StatusBadRequest, ErrCodeBadRequest},
		{"unknown kind", "/recommendations/rec-1/feedback", SubmitFeedbackRequest{Kind: "meh"}, http.StatusBadRequest, ErrCodeInvalidFeedback},
		{"not found", "/recommendations/missing/feedback", SubmitFeedbackRequest{Kind: domain.FeedbackIrrelevant}, http.StatusNotFound, ErrCodeNotFound},
		{"storage error", "/recommendations/broken/feedback", SubmitFeedbackRequest{Kind: domain.FeedbackMisleading}, http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, tc.path, tc.body, asUser("u1"))
			if w.Code != tc.status {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.status, w.Body.String())
			}
			if er := decode[ErrorResponse](t, w); er.Code != tc.code {
				t.Fatalf("code=%q want %q", er.Code, tc.code)
			}
		})
	}
}

func TestListFeedback_Paginated(t *testing.T) {
	svc := stubFeedbackSvc{list: func(_ context.Context, uid string, page, pageSize int) ([]domain.Feedback, int64, error) {
		if uid != "u1" || page != 2 || pageSize != 1 {
			t.Fatalf("args uid=%q page=%d size=%d", uid, page, pageSize)
		}
		return []domain.Feedback{{ID: "fb-2", UserID: uid, Kind: domain.FeedbackNotHelpful}}, 3, nil
	}}
	w := doJSON(t, newTestRouter(Services{Feedback: svc}), http.MethodGet, "/recommendations/feedback?page=2&page_size=1", nil, asUser("u1"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	resp := decode[ListFeedbackResponse](t, w)
	if len(resp.Feedback) != 1 || resp.Pagination.Total != 3 || resp.Pagination.TotalPages != 3 || !resp.Pagination.HasNext {
		t.Fatalf("unexpected: %+v", resp)
	}
}

func TestListFeedback_EmptyAndError(t *testing.T) {
	w := doJSON(t, newTestRouter(Services{}), http.MethodGet, "/recommendations/feedback", nil, nil)
	if w.Code != http.StatusOK || !contains(w.Body.String(), `"feedback":[]`) {
		t.Fatalf("empty: %d %s", w.Code, w.Body.String())
	}

	svc := stubFeedbackSvc{list: func(context.Context, string, int, int) ([]domain.Feedback, int64, error) {
		return nil, 0, errors.New("boom")
	}}
	w = doJSON(t, newTestRouter(Services{Feedback: svc}), http.MethodGet, "/recommendations/feedback", nil, nil)
	if w.Code != http.StatusInternalServerError || decode[ErrorResponse](t, w).Code != ErrCodeListFailed {
		t.Fatalf("error: %d %s", w.Code, w.Body.String())
	}
}
