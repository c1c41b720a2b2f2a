package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// Collaborative proposes courses that similar users rated highly.
type Collaborative struct {
	Source Source
	// Neighbors caps how many similar users are consulted.
	Neighbors int
	// PerNeighbor caps how many courses each neighbour contributes.
	PerNeighbor int
	// MinRating is the lowest rating (out of 5) that counts as "liked".
	MinRating int
}

// NewCollaborative returns the generator with its standard limits.
func NewCollaborative(src Source) *Collaborative {
	return &Collaborative{Source: src, Neighbors: 10, PerNeighbor: 3, MinRating: 4}
}

func (g *Collaborative) Algorithm() domain.Algorithm { return domain.AlgorithmCollaborative }

// Generate scores each liked course as similarity × rating/5. The
// neighbour's identity goes into ReasonData only, never into Reason.
func (g *Collaborative) Generate(ctx context.Context, in Input) ([]Candidate, error) {
	sets, err := g.Source.InteractionSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load interaction sets: %w", err)
	}
	neighbors := SimilarUsers(in.UserID, sets)
	if len(neighbors) > g.Neighbors {
		neighbors = neighbors[:g.Neighbors]
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(sets[in.UserID]))
	for _, id := range sets[in.UserID] {
		seen[id] = struct{}{}
	}

	var out []Candidate
	for _, n := range neighbors {
		its, err := g.Source.UserInteractions(ctx, n.UserID)
		if err != nil {
			return nil, fmt.Errorf("load interactions of neighbour: %w", err)
		}
		liked := make([]domain.Interaction, 0, len(its))
		for _, it := range its {
			if it.Type != domain.InteractionRated || it.Rating == nil || *it.Rating < g.MinRating {
				continue
			}
			if _, ok := seen[it.CourseID]; ok {
				continue
			}
			liked = append(liked, it)
		}
		sort.SliceStable(liked, func(i, j int) bool {
			if *liked[i].Rating != *liked[j].Rating {
				return *liked[i].Rating > *liked[j].Rating
			}
			return liked[i].CourseID < liked[j].CourseID
		})
		if len(liked) > g.PerNeighbor {
			liked = liked[:g.PerNeighbor]
		}
		for _, it := range liked {
			rating := *it.Rating
			out = append(out, Candidate{
				CourseID:  it.CourseID,
				Algorithm: domain.AlgorithmCollaborative,
				Score:     n.Similarity * float64(rating) / 5,
				Reason:    "Learners with interests similar to yours rated this course highly",
				ReasonData: map[string]any{
					ReasonKeySimilarUser: n.UserID,
					"similarity_score":   n.Similarity,
					"rating":             rating,
				},
			})
		}
	}
	return keepBest(out), nil
}
