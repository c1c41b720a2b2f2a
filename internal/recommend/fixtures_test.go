package recommend

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"gorm.io/datatypes"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

var errBoom = errors.New("boom")

// memSource is an in-memory Source for generator and engine tests.
type memSource struct {
	courses      []domain.Course
	interactions map[string][]domain.Interaction
	enrolled     map[string][]string

	coursesErr      error
	interactionsErr error
	enrolledErr     error
}

func newMemSource() *memSource {
	return &memSource{interactions: map[string][]domain.Interaction{}, enrolled: map[string][]string{}}
}

func (m *memSource) Courses(context.Context) ([]domain.Course, error) {
	if m.coursesErr != nil {
		return nil, m.coursesErr
	}
	return m.courses, nil
}

func (m *memSource) InteractionSets(context.Context) (map[string][]string, error) {
	if m.interactionsErr != nil {
		return nil, m.interactionsErr
	}
	out := map[string][]string{}
	for u, its := range m.interactions {
		seen := map[string]bool{}
		for _, it := range its {
			if !seen[it.CourseID] {
				seen[it.CourseID] = true
				out[u] = append(out[u], it.CourseID)
			}
		}
		sort.Strings(out[u])
	}
	return out, nil
}

func (m *memSource) UserInteractions(_ context.Context, userID string) ([]domain.Interaction, error) {
	if m.interactionsErr != nil {
		return nil, m.interactionsErr
	}
	return m.interactions[userID], nil
}

func (m *memSource) ActiveEnrollments(_ context.Context, userID string) ([]string, error) {
	if m.enrolledErr != nil {
		return nil, m.enrolledErr
	}
	return m.enrolled[userID], nil
}

func (m *memSource) addCourse(id, category string, level domain.DifficultyLevel, rating float64, enrollments int, created time.Time) {
	m.courses = append(m.courses, domain.Course{
		ID: id, Title: id, Category: category, DifficultyLevel: level, Status: domain.CoursePublished,
		AvgRating: rating, EnrollmentCount: enrollments, CreatedAt: created,
	})
}

func (m *memSource) interact(user, course string, typ domain.InteractionType, rating int) {
	it := domain.Interaction{UserID: user, CourseID: course, Type: typ}
	if rating > 0 {
		r := rating
		it.Rating = &r
	}
	m.interactions[user] = append(m.interactions[user], it)
}

func profileWith(userID string, completed ...string) *domain.UserProfile {
	p := domain.NewUserProfile(userID, time.Now())
	p.CompletedCourses = datatypes.JSONSlice[string](completed)
	return p
}

// stubGenerator returns fixed candidates, an error, or panics.
type stubGenerator struct {
	alg   domain.Algorithm
	cands []Candidate
	err   error
	panic bool
	delay time.Duration
}

func (s stubGenerator) Algorithm() domain.Algorithm { return s.alg }

func (s stubGenerator) Generate(ctx context.Context, _ Input) ([]Candidate, error) {
	if s.panic {
		panic("generator exploded")
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.cands, s.err
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func candidateFor(cands []Candidate, courseID string) (Candidate, bool) {
	for _, c := range cands {
		if c.CourseID == courseID {
			return c, true
		}
	}
	return Candidate{}, false
}
