package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// RuleKind enumerates the knowledge-based rules. The set is closed; Generate
// dispatches on it with a switch.
type RuleKind int

const (
	// RuleNextDifficultyTier proposes courses one tier above a completed
	// course in the same category.
	RuleNextDifficultyTier RuleKind = iota + 1
	// RuleTrendingItem proposes recently created courses with the most
	// enrollments.
	RuleTrendingItem
)

func (k RuleKind) String() string {
	switch k {
	case RuleNextDifficultyTier:
		return "next_difficulty_tier"
	case RuleTrendingItem:
		return "trending_item"
	}
	return fmt.Sprintf("rule(%d)", int(k))
}

// Rule is one entry of the knowledge-based rule table.
type Rule struct {
	Kind  RuleKind
	Score float64
	Limit int
	// Window bounds course age for RuleTrendingItem.
	Window time.Duration
}

// DefaultRules is the standard rule table.
func DefaultRules() []Rule {
	return []Rule{
		{Kind: RuleNextDifficultyTier, Score: 0.9, Limit: 5},
		{Kind: RuleTrendingItem, Score: 0.8, Limit: 5, Window: 30 * 24 * time.Hour},
	}
}

// KnowledgeBased applies a table of rules; every rule may fire.
type KnowledgeBased struct {
	Source Source
	Rules  []Rule
}

// NewKnowledgeBased returns the generator with DefaultRules.
func NewKnowledgeBased(src Source) *KnowledgeBased {
	return &KnowledgeBased{Source: src, Rules: DefaultRules()}
}

func (g *KnowledgeBased) Algorithm() domain.Algorithm { return domain.AlgorithmKnowledge }

func (g *KnowledgeBased) Generate(ctx context.Context, in Input) ([]Candidate, error) {
	courses, err := g.Source.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	its, err := g.Source.UserInteractions(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user interactions: %w", err)
	}
	interacted := interactedSet(its)

	var out []Candidate
	for _, r := range g.Rules {
		switch r.Kind {
		case RuleNextDifficultyTier:
			out = append(out, nextTier(r, in.Profile, courses, interacted)...)
		case RuleTrendingItem:
			out = append(out, trending(r, in.Now, courses)...)
		default:
			return nil, fmt.Errorf("unknown knowledge rule %s", r.Kind)
		}
	}
	return keepBest(out), nil
}

type tierTarget struct {
	category string
	level    domain.DifficultyLevel
}

func nextTier(r Rule, p *domain.UserProfile, courses []domain.Course, interacted map[string]struct{}) []Candidate {
	if p == nil || len(p.CompletedCourses) == 0 {
		return nil
	}
	byID := make(map[string]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	completed := make(map[string]struct{}, len(p.CompletedCourses))
	targets := make(map[tierTarget]struct{})
	for _, id := range p.CompletedCourses {
		completed[id] = struct{}{}
		if c, ok := byID[id]; ok {
			targets[tierTarget{c.Category, c.DifficultyLevel.Next()}] = struct{}{}
		}
	}

	var pool []domain.Course
	for _, c := range courses {
		if c.Status != domain.CoursePublished {
			continue
		}
		if _, ok := targets[tierTarget{c.Category, c.DifficultyLevel}]; !ok {
			continue
		}
		if _, ok := completed[c.ID]; ok {
			continue
		}
		if _, ok := interacted[c.ID]; ok {
			continue
		}
		pool = append(pool, c)
	}
	sortByEnrollments(pool)
	if len(pool) > r.Limit {
		pool = pool[:r.Limit]
	}

	out := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		out = append(out, Candidate{
			CourseID:  c.ID,
			Algorithm: domain.AlgorithmKnowledge,
			Score:     r.Score,
			Reason:    fmt.Sprintf("A natural next step in %s at %s level", displayCategory(c.Category), c.DifficultyLevel),
			ReasonData: map[string]any{
				"rule":             r.Kind.String(),
				"category":         c.Category,
				"difficulty_level": string(c.DifficultyLevel),
			},
		})
	}
	return out
}

func trending(r Rule, now time.Time, courses []domain.Course) []Candidate {
	since := now.Add(-r.Window)
	var pool []domain.Course
	for _, c := range courses {
		if c.Status != domain.CoursePublished || c.CreatedAt.Before(since) {
			continue
		}
		pool = append(pool, c)
	}
	sortByEnrollments(pool)
	if len(pool) > r.Limit {
		pool = pool[:r.Limit]
	}

	out := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		out = append(out, Candidate{
			CourseID:  c.ID,
			Algorithm: domain.AlgorithmKnowledge,
			Score:     r.Score,
			Reason:    fmt.Sprintf("New and trending with %d recent enrollments", c.EnrollmentCount),
			ReasonData: map[string]any{
				"rule":               r.Kind.String(),
				"recent_enrollments": c.EnrollmentCount,
				"days_old":           int(now.Sub(c.CreatedAt).Hours() / 24),
			},
		})
	}
	return out
}

func sortByEnrollments(cs []domain.Course) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].EnrollmentCount != cs[j].EnrollmentCount {
			return cs[i].EnrollmentCount > cs[j].EnrollmentCount
		}
		return cs[i].ID < cs[j].ID
	})
}
