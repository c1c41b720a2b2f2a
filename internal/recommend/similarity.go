package recommend

import "sort"

// MinSimilarity is the threshold a neighbour must exceed to be kept.
const MinSimilarity = 0.1

// Neighbor is another user and their similarity to the target.
type Neighbor struct {
	UserID     string
	Similarity float64
}

// Similarity returns the Jaccard index |a∩b| / |a∪b| of two item sets.
// Duplicate IDs inside a slice are counted once. Either set empty yields 0.
func Similarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, id := range b {
		setB[id] = struct{}{}
	}
	inter := 0
	for id := range setA {
		if _, ok := setB[id]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// SimilarUsers ranks every other user in sets by similarity to target,
// keeping only those above MinSimilarity, highest first. Ties keep
// ascending user-ID order. A target with no interactions has no neighbours.
func SimilarUsers(target string, sets map[string][]string) []Neighbor {
	mine := sets[target]
	if len(mine) == 0 {
		return nil
	}
	users := make([]string, 0, len(sets))
	for u := range sets {
		if u != target {
			users = append(users, u)
		}
	}
	sort.Strings(users)

	out := make([]Neighbor, 0, len(users))
	for _, u := range users {
		if sim := Similarity(mine, sets[u]); sim > MinSimilarity {
			out = append(out, Neighbor{UserID: u, Similarity: sim})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out
}
