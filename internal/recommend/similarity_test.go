package recommend

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestSimilarity_ConcreteScenario(t *testing.T) {
	u := []string{"A", "B"}
	v := []string{"B", "C"}
	if got := Similarity(u, v); !approx(got, 1.0/3.0) {
		t.Fatalf("Similarity(U,V) = %v; want 0.333", got)
	}
}

func TestSimilarity_EmptySetsAreZero(t *testing.T) {
	if got := Similarity(nil, []string{"A"}); got != 0 {
		t.Fatalf("empty a: got %v", got)
	}
	if got := Similarity([]string{"A"}, []string{}); got != 0 {
		t.Fatalf("empty b: got %v", got)
	}
	if got := Similarity([]string{"A", "A"}, []string{"A"}); got != 1 {
		t.Fatalf("duplicates should count once: got %v", got)
	}
}

func TestSimilarity_SymmetricAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randomSet := func() []string {
		n := rng.Intn(8)
		out := make([]string, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, fmt.Sprintf("c%d", rng.Intn(12)))
		}
		return out
	}
	for i := 0; i < 500; i++ {
		a, b := randomSet(), randomSet()
		ab, ba := Similarity(a, b), Similarity(b, a)
		if ab != ba {
			t.Fatalf("not symmetric for %v / %v: %v vs %v", a, b, ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Fatalf("out of bounds for %v / %v: %v", a, b, ab)
		}
	}
}

func TestSimilarUsers_ThresholdOrderAndSelfExclusion(t *testing.T) {
	sets := map[string][]string{
		"me":    {"A", "B", "C"},
		"twin":  {"A", "B", "C"},
		"half":  {"A", "B", "X", "Y"},
		"far":   {"A", "P", "Q", "R", "S", "T", "U", "V", "W", "Z"}, // 1/12 < 0.1
		"none":  {"Q"},
		"tie-b": {"A", "Z"},
		"tie-a": {"B", "Z"},
	}
	got := SimilarUsers("me", sets)

	want := []string{"twin", "half", "tie-a", "tie-b"}
	if len(got) != len(want) {
		t.Fatalf("neighbours = %+v; want ids %v", got, want)
	}
	for i, n := range got {
		if n.UserID != want[i] {
			t.Fatalf("neighbour[%d] = %s; want %s (%+v)", i, n.UserID, want[i], got)
		}
		if n.Similarity <= MinSimilarity {
			t.Fatalf("neighbour %s below threshold: %v", n.UserID, n.Similarity)
		}
	}
	if got[0].Similarity != 1 {
		t.Fatalf("twin similarity = %v", got[0].Similarity)
	}
}

func TestSimilarUsers_TargetWithoutInteractions(t *testing.T) {
	sets := map[string][]string{"other": {"A"}}
	if got := SimilarUsers("ghost", sets); len(got) != 0 {
		t.Fatalf("expected no neighbours, got %+v", got)
	}
}
