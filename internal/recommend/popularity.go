package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// Popularity proposes the most popular published courses the user has not
// interacted with, where popularity = 0.7×enrollments + 0.3×(avg_rating×10).
type Popularity struct {
	Source Source
	Limit  int
}

// NewPopularity returns the generator with its standard limit.
func NewPopularity(src Source) *Popularity {
	return &Popularity{Source: src, Limit: 10}
}

func (g *Popularity) Algorithm() domain.Algorithm { return domain.AlgorithmPopularity }

// PopularityScore is the raw popularity of a course; it is unbounded and
// only used for ordering.
func PopularityScore(c domain.Course) float64 {
	return 0.7*float64(c.EnrollmentCount) + 0.3*(c.AvgRating*10)
}

func (g *Popularity) Generate(ctx context.Context, in Input) ([]Candidate, error) {
	its, err := g.Source.UserInteractions(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user interactions: %w", err)
	}
	courses, err := g.Source.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	interacted := interactedSet(its)

	pool := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if c.Status != domain.CoursePublished {
			continue
		}
		if _, ok := interacted[c.ID]; ok {
			continue
		}
		pool = append(pool, c)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		pi, pj := PopularityScore(pool[i]), PopularityScore(pool[j])
		if pi != pj {
			return pi > pj
		}
		return pool[i].ID < pool[j].ID
	})
	if len(pool) > g.Limit {
		pool = pool[:g.Limit]
	}

	out := make([]Candidate, 0, len(pool))
	for i, c := range pool {
		out = append(out, Candidate{
			CourseID:  c.ID,
			Algorithm: domain.AlgorithmPopularity,
			Score:     rankScore(0.7, 0.05, 0.1, i),
			Reason:    fmt.Sprintf("Popular with %d learners and rated %.1f out of 5", c.EnrollmentCount, c.AvgRating),
			ReasonData: map[string]any{
				"enrollment_count": c.EnrollmentCount,
				"avg_rating":       c.AvgRating,
				"popularity_score": PopularityScore(c),
			},
		})
	}
	return out, nil
}
