package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/http/middleware"
	"github.com/tbourn/go-recs-backend/internal/recommend"
	"github.com/tbourn/go-recs-backend/internal/repo"
	"github.com/tbourn/go-recs-backend/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

// ---- function-field stubs for the service contracts ----

type stubRecSvc struct {
	generate func(ctx context.Context, userID string, force bool) (*services.GenerateResult, error)
	active   func(ctx context.Context, userID string) ([]domain.Recommendation, error)
	stats    func(ctx context.Context, userID string) (repo.RecommendationStats, error)
	state    func(ctx context.Context, userID string) (services.State, error)
	get      func(ctx context.Context, userID, id string) (*domain.Recommendation, error)
	click    func(ctx context.Context, userID, id string) (*domain.Recommendation, error)
	dismiss  func(ctx context.Context, userID, id string) (*domain.Recommendation, error)
}

func (s stubRecSvc) Generate(ctx context.Context, userID string, force bool) (*services.GenerateResult, error) {
	if s.generate != nil {
		return s.generate(ctx, userID, force)
	}
	return &services.GenerateResult{}, nil
}

func (s stubRecSvc) Active(ctx context.Context, userID string) ([]domain.Recommendation, error) {
	if s.active != nil {
		return s.active(ctx, userID)
	}
	return nil, nil
}

func (s stubRecSvc) ActiveStats(ctx context.Context, userID string) (repo.RecommendationStats, error) {
	if s.stats != nil {
		return s.stats(ctx, userID)
	}
	return repo.RecommendationStats{}, nil
}

func (s stubRecSvc) State(ctx context.Context, userID string) (services.State, error) {
	if s.state != nil {
		return s.state(ctx, userID)
	}
	return services.StateNoActive, nil
}

func (s stubRecSvc) Get(ctx context.Context, userID, id string) (*domain.Recommendation, error) {
	if s.get != nil {
		return s.get(ctx, userID, id)
	}
	return nil, services.ErrRecommendationNotFound
}

func (s stubRecSvc) Click(ctx context.Context, userID, id string) (*domain.Recommendation, error) {
	if s.click != nil {
		return s.click(ctx, userID, id)
	}
	return nil, services.ErrRecommendationNotFound
}

func (s stubRecSvc) Dismiss(ctx context.Context, userID, id string) (*domain.Recommendation, error) {
	if s.dismiss != nil {
		return s.dismiss(ctx, userID, id)
	}
	return nil, services.ErrRecommendationNotFound
}

type stubFeedbackSvc struct {
	submit func(ctx context.Context, userID, recID string, kind domain.FeedbackKind, comment string) (*domain.Feedback, error)
	list   func(ctx context.Context, userID string, page, pageSize int) ([]domain.Feedback, int64, error)
}

func (s stubFeedbackSvc) Submit(ctx context.Context, userID, recID string, kind domain.FeedbackKind, comment string) (*domain.Feedback, error) {
	if s.submit != nil {
		return s.submit(ctx, userID, recID, kind, comment)
	}
	return &domain.Feedback{UserID: userID, RecommendationID: recID, Kind: kind, Comment: comment}, nil
}

func (s stubFeedbackSvc) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Feedback, int64, error) {
	if s.list != nil {
		return s.list(ctx, userID, page, pageSize)
	}
	return nil, 0, nil
}

type stubProfileSvc struct {
	get    func(ctx context.Context, userID string) (*domain.UserProfile, error)
	update func(ctx context.Context, userID string, in services.PreferencesInput) (*domain.UserProfile, error)
}

func (s stubProfileSvc) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if s.get != nil {
		return s.get(ctx, userID)
	}
	return &domain.UserProfile{UserID: userID}, nil
}

func (s stubProfileSvc) UpdatePreferences(ctx context.Context, userID string, in services.PreferencesInput) (*domain.UserProfile, error) {
	if s.update != nil {
		return s.update(ctx, userID, in)
	}
	return &domain.UserProfile{UserID: userID}, nil
}

type stubTrackSvc struct {
	track func(ctx context.Context, in services.TrackInput) (*domain.Interaction, error)
	list  func(ctx context.Context, userID string) ([]domain.Interaction, error)
}

func (s stubTrackSvc) List(ctx context.Context, userID string) ([]domain.Interaction, error) {
	if s.list != nil {
		return s.list(ctx, userID)
	}
	return nil, nil
}

func (s stubTrackSvc) Track(ctx context.Context, in services.TrackInput) (*domain.Interaction, error) {
	if s.track != nil {
		return s.track(ctx, in)
	}
	return &domain.Interaction{UserID: in.UserID, CourseID: in.CourseID, Type: in.Type}, nil
}

type stubSettingsSvc struct {
	get    func(ctx context.Context) (recommend.Settings, error)
	update func(ctx context.Context, in services.SettingsInput) (recommend.Settings, error)
}

func (s stubSettingsSvc) Get(ctx context.Context) (recommend.Settings, error) {
	if s.get != nil {
		return s.get(ctx)
	}
	return recommend.DefaultSettings(), nil
}

func (s stubSettingsSvc) Update(ctx context.Context, in services.SettingsInput) (recommend.Settings, error) {
	if s.update != nil {
		return s.update(ctx, in)
	}
	return recommend.DefaultSettings(), nil
}

// memIdem is an in-memory IdempotencyStore that also serves as the lookup.
type memIdem struct {
	mu   sync.Mutex
	seen map[string]int
}

func newMemIdem() *memIdem { return &memIdem{seen: map[string]int{}} }

func (m *memIdem) Remember(_ context.Context, userID, scope, key string, status int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[userID+"|"+scope+"|"+key] = status
	return nil
}

func (m *memIdem) Seen(_ context.Context, userID, scope, key string, _ time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[userID+"|"+scope+"|"+key]
	return ok, nil
}

func (m *memIdem) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}

// ---- router and request helpers ----

// newTestRouter mounts every handler the way the API router does, minus
// rate limiting and logging.
func newTestRouter(s Services) *gin.Engine {
	if s.Recommendations == nil {
		s.Recommendations = stubRecSvc{}
	}
	if s.Feedback == nil {
		s.Feedback = stubFeedbackSvc{}
	}
	if s.Profiles == nil {
		s.Profiles = stubProfileSvc{}
	}
	if s.Interactions == nil {
		s.Interactions = stubTrackSvc{}
	}
	if s.Settings == nil {
		s.Settings = stubSettingsSvc{}
	}
	h := New(s)

	var lookup middleware.IdempotencyLookup
	if m, ok := s.Idempotency.(*memIdem); ok {
		lookup = m.Seen
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Identity(), middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, lookup))

	g := r.Group("/recommendations")
	g.GET("", h.ListRecommendations)
	g.POST("/generate", h.GenerateRecommendations)
	g.GET("/feedback", h.ListFeedback)
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdatePreferences)
	g.POST("/interactions", h.TrackInteraction)
	g.GET("/interactions", h.ListInteractions)
	admin := g.Group("/settings", middleware.RequireRole(middleware.RoleAdmin))
	admin.GET("", h.GetSettings)
	admin.PUT("", h.UpdateSettings)
	g.GET("/:id", h.GetRecommendation)
	g.POST("/:id/click", h.ClickRecommendation)
	g.POST("/:id/dismiss", h.DismissRecommendation)
	g.POST("/:id/feedback", h.SubmitFeedback)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		buf = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if buf.Len() > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v; body=%s", v, err, w.Body.String())
	}
	return v
}

func asUser(uid string) map[string]string {
	return map[string]string{middleware.HeaderUserID: uid}
}

func contains(s, sub string) bool { return strings.Contains(s, sub) }
