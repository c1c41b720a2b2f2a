package recommend

import (
	"context"
	"time"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// Candidate is one generator's proposal of a course for a user. Candidates
// live only for the duration of a generation run.
type Candidate struct {
	CourseID   string
	Algorithm  domain.Algorithm
	Score      float64
	Reason     string
	ReasonData map[string]any
}

// Input is everything a generator may read about the target user besides
// the Source.
type Input struct {
	UserID   string
	Profile  *domain.UserProfile
	Settings Settings
	Now      time.Time
}

// Generator proposes candidates for one user. Implementations must not
// write anywhere; an error means "this generator contributes nothing".
type Generator interface {
	Algorithm() domain.Algorithm
	Generate(ctx context.Context, in Input) ([]Candidate, error)
}

// interactedSet returns the set of course IDs the user has any interaction
// with.
func interactedSet(interactions []domain.Interaction) map[string]struct{} {
	out := make(map[string]struct{}, len(interactions))
	for _, it := range interactions {
		out[it.CourseID] = struct{}{}
	}
	return out
}

// rankScore is the decaying score used by ranked generators:
// max(floor, start - step*rank).
func rankScore(start, step, floor float64, rank int) float64 {
	s := start - step*float64(rank)
	if s < floor {
		return floor
	}
	return s
}

// keepBest collapses duplicate course IDs within one generator's output,
// keeping the highest-scoring candidate and the original order.
func keepBest(in []Candidate) []Candidate {
	idx := make(map[string]int, len(in))
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		if i, ok := idx[c.CourseID]; ok {
			if c.Score > out[i].Score {
				out[i] = c
			}
			continue
		}
		idx[c.CourseID] = len(out)
		out = append(out, c)
	}
	return out
}
