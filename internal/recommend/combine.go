package recommend

import (
	"slices"
	"sort"
	"strings"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// MaxReasons caps how many distinct rationale strings a composite carries.
const MaxReasons = 3

// ReasonSeparator joins the rationale strings of a composite.
const ReasonSeparator = " | "

// ReasonKeySimilarUser names the neighbour behind a collaborative candidate.
// It is stored for internal use and never shown to the recommended user.
const ReasonKeySimilarUser = "similar_user_id"

// InternalReasonKeys are rationale data keys withheld from API responses.
var InternalReasonKeys = []string{ReasonKeySimilarUser}

// Ranked is one composite entry produced by Combine.
type Ranked struct {
	CourseID   string
	Score      float64
	Algorithms []domain.Algorithm
	Reasons    []string
	ReasonData map[string]any
}

// Reason joins the composite's rationale strings for display.
func (r Ranked) Reason() string { return strings.Join(r.Reasons, ReasonSeparator) }

type group struct {
	ranked Ranked
	// best score per algorithm; an algorithm proposing the same course twice
	// counts once
	scores map[domain.Algorithm]float64
}

// Combine merges candidates into a ranked, deduplicated list of at most
// s.MaxRecommendationsPerUser entries.
//
// The composite score of a course is Σ score×weight / Σ weight taken only
// over the algorithms that proposed it; an algorithm that did not propose it
// contributes to neither sum. When every contributing weight is zero the
// plain mean of the contributing scores is used. Rationale strings are kept
// in candidate order (distinct, at most MaxReasons); rationale data keys
// collide last-write-wins. Equal composite scores are ordered by course ID.
func Combine(cands []Candidate, s Settings) []Ranked {
	groups := make(map[string]*group)
	order := make([]string, 0, len(cands))

	for _, c := range cands {
		g, ok := groups[c.CourseID]
		if !ok {
			g = &group{
				ranked: Ranked{CourseID: c.CourseID, ReasonData: map[string]any{}},
				scores: make(map[domain.Algorithm]float64),
			}
			groups[c.CourseID] = g
			order = append(order, c.CourseID)
		}
		if prev, seen := g.scores[c.Algorithm]; !seen {
			g.scores[c.Algorithm] = c.Score
			g.ranked.Algorithms = append(g.ranked.Algorithms, c.Algorithm)
		} else if c.Score > prev {
			g.scores[c.Algorithm] = c.Score
		}
		if c.Reason != "" && len(g.ranked.Reasons) < MaxReasons && !slices.Contains(g.ranked.Reasons, c.Reason) {
			g.ranked.Reasons = append(g.ranked.Reasons, c.Reason)
		}
		for k, v := range c.ReasonData {
			g.ranked.ReasonData[k] = v
		}
	}

	out := make([]Ranked, 0, len(order))
	for _, id := range order {
		g := groups[id]
		g.ranked.Score = clamp01(composite(g.ranked.Algorithms, g.scores, s))
		out = append(out, g.ranked)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CourseID < out[j].CourseID
	})

	limit := s.MaxRecommendationsPerUser
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func composite(algs []domain.Algorithm, scores map[domain.Algorithm]float64, s Settings) float64 {
	var num, den, sum float64
	for _, a := range algs {
		w := s.Weight(a)
		num += scores[a] * w
		den += w
		sum += scores[a]
	}
	if den > 0 {
		return num / den
	}
	if len(algs) == 0 {
		return 0
	}
	return sum / float64(len(algs))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
