package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// ContentBased proposes unseen published courses in the user's preferred
// categories, best rated first.
type ContentBased struct {
	Source Source
	// Limit caps the number of proposals.
	Limit int
	// InferredCategories is how many categories are inferred from the
	// user's own interactions when the profile states none.
	InferredCategories int
}

// NewContentBased returns the generator with its standard limits.
func NewContentBased(src Source) *ContentBased {
	return &ContentBased{Source: src, Limit: 10, InferredCategories: 3}
}

func (g *ContentBased) Algorithm() domain.Algorithm { return domain.AlgorithmContentBased }

func (g *ContentBased) Generate(ctx context.Context, in Input) ([]Candidate, error) {
	its, err := g.Source.UserInteractions(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user interactions: %w", err)
	}
	courses, err := g.Source.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	categories := g.preferredCategories(in.Profile, its, courses)
	if len(categories) == 0 {
		return nil, nil
	}
	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}
	interacted := interactedSet(its)

	pool := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if c.Status != domain.CoursePublished {
			continue
		}
		if _, ok := wanted[c.Category]; !ok {
			continue
		}
		if _, ok := interacted[c.ID]; ok {
			continue
		}
		pool = append(pool, c)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].AvgRating != pool[j].AvgRating {
			return pool[i].AvgRating > pool[j].AvgRating
		}
		if pool[i].EnrollmentCount != pool[j].EnrollmentCount {
			return pool[i].EnrollmentCount > pool[j].EnrollmentCount
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
			Algorithm: domain.AlgorithmContentBased,
			Score:     rankScore(0.8, 0.05, 0.1, i),
			Reason:    fmt.Sprintf("Matches your interest in %s", displayCategory(c.Category)),
			ReasonData: map[string]any{
				"category":   c.Category,
				"avg_rating": c.AvgRating,
			},
		})
	}
	return out, nil
}

// preferredCategories returns the profile's explicit categories, or else the
// most frequent categories among the user's interactions (ties by name).
func (g *ContentBased) preferredCategories(p *domain.UserProfile, its []domain.Interaction, courses []domain.Course) []string {
	if p != nil && len(p.PreferredCategories) > 0 {
		return p.PreferredCategories
	}
	catOf := make(map[string]string, len(courses))
	for _, c := range courses {
		catOf[c.ID] = c.Category
	}
	counts := make(map[string]int)
	for _, it := range its {
		if cat := catOf[it.CourseID]; cat != "" {
			counts[cat]++
		}
	}
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if len(cats) > g.InferredCategories {
		cats = cats[:g.InferredCategories]
	}
	return cats
}

var slugSpaces = strings.NewReplacer("-", " ", "_", " ")

// displayCategory turns a category slug such as "data-science" into
// "Data Science" for user-facing rationale text.
func displayCategory(slug string) string {
	return cases.Title(language.English).String(slugSpaces.Replace(slug))
}
