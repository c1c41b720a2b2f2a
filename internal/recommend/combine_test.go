package recommend

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

func TestCombine_BlendingScenario(t *testing.T) {
	cands := []Candidate{
		{CourseID: "X", Algorithm: domain.AlgorithmContentBased, Score: 0.8, Reason: "content"},
		{CourseID: "X", Algorithm: domain.AlgorithmPopularity, Score: 0.6, Reason: "popular"},
		{CourseID: "Y", Algorithm: domain.AlgorithmKnowledge, Score: 0.9, Reason: "next step"},
	}
	out := Combine(cands, DefaultSettings())
	if len(out) != 2 {
		t.Fatalf("expected 2 composites, got %+v", out)
	}

	byID := map[string]Ranked{}
	for _, r := range out {
		byID[r.CourseID] = r
	}
	x := byID["X"]
	want := (0.8*0.25 + 0.6*0.20) / (0.25 + 0.20)
	if !approx(x.Score, want) || !approx(x.Score, 0.711) {
		t.Fatalf("X composite = %v; want %v", x.Score, want)
	}
	if len(x.Algorithms) != 2 || x.Algorithms[0] != domain.AlgorithmContentBased {
		t.Fatalf("X algorithms = %v", x.Algorithms)
	}
	if x.Reason() != "content | popular" {
		t.Fatalf("X reason = %q", x.Reason())
	}

	y := byID["Y"]
	if !approx(y.Score, 0.9) {
		t.Fatalf("single-source Y must keep its own score, got %v", y.Score)
	}
	if out[0].CourseID != "Y" {
		t.Fatalf("Y (0.9) must rank before X (0.711): %+v", out)
	}
}

func TestCombine_CapAndOrder(t *testing.T) {
	var cands []Candidate
	for i := 0; i < 25; i++ {
		cands = append(cands, Candidate{
			CourseID:  fmt.Sprintf("c%02d", i),
			Algorithm: domain.AlgorithmPopularity,
			Score:     float64(i) / 25,
		})
	}
	s := DefaultSettings()
	s.MaxRecommendationsPerUser = 5
	out := Combine(cands, s)
	if len(out) != 5 {
		t.Fatalf("cap not applied: %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].Score < out[i].Score {
			t.Fatalf("not sorted descending at %d: %+v", i, out)
		}
	}
	if out[0].CourseID != "c24" {
		t.Fatalf("best first, got %s", out[0].CourseID)
	}
}

func TestCombine_EqualScoresOrderByCourseID(t *testing.T) {
	cands := []Candidate{
		{CourseID: "zeta", Algorithm: domain.AlgorithmPopularity, Score: 0.5},
		{CourseID: "mid", Algorithm: domain.AlgorithmPopularity, Score: 0.7},
		{CourseID: "alpha", Algorithm: domain.AlgorithmPopularity, Score: 0.5},
		{CourseID: "beta", Algorithm: domain.AlgorithmPopularity, Score: 0.5},
	}
	out := Combine(cands, DefaultSettings())
	var got []string
	for _, r := range out {
		got = append(got, r.CourseID)
	}
	if strings.Join(got, ",") != "mid,alpha,beta,zeta" {
		t.Fatalf("order = %v", got)
	}
}

func TestCombine_ZeroWeightsFallBackToMean(t *testing.T) {
	s := DefaultSettings()
	s.Weights = map[domain.Algorithm]float64{
		domain.AlgorithmContentBased: 0,
		domain.AlgorithmPopularity:   0,
	}
	out := Combine([]Candidate{
		{CourseID: "X", Algorithm: domain.AlgorithmContentBased, Score: 0.8},
		{CourseID: "X", Algorithm: domain.AlgorithmPopularity, Score: 0.4},
	}, s)
	if len(out) != 1 || !approx(out[0].Score, 0.6) {
		t.Fatalf("expected plain mean 0.6, got %+v", out)
	}
}

func TestCombine_UnknownAlgorithmUsesFallbackWeight(t *testing.T) {
	s := DefaultSettings()
	s.Weights = map[domain.Algorithm]float64{domain.AlgorithmPopularity: 0.6}
	out := Combine([]Candidate{
		{CourseID: "X", Algorithm: domain.AlgorithmPopularity, Score: 1.0},
		{CourseID: "X", Algorithm: domain.AlgorithmKnowledge, Score: 0.2},
	}, s)
	want := (1.0*0.6 + 0.2*FallbackWeight) / (0.6 + FallbackWeight)
	if !approx(out[0].Score, want) {
		t.Fatalf("composite = %v; want %v", out[0].Score, want)
	}
}

func TestCombine_ReasonsCappedDistinct_DataLastWriteWins(t *testing.T) {
	cands := []Candidate{
		{CourseID: "X", Algorithm: domain.AlgorithmCollaborative, Score: 0.5, Reason: "r1", ReasonData: map[string]any{"k": 1, "a": "x"}},
		{CourseID: "X", Algorithm: domain.AlgorithmContentBased, Score: 0.5, Reason: "r1", ReasonData: map[string]any{"k": 2}},
		{CourseID: "X", Algorithm: domain.AlgorithmPopularity, Score: 0.5, Reason: "r2"},
		{CourseID: "X", Algorithm: domain.AlgorithmKnowledge, Score: 0.5, Reason: "r3"},
		{CourseID: "X", Algorithm: domain.AlgorithmKnowledge, Score: 0.5, Reason: "r4"},
	}
	out := Combine(cands, DefaultSettings())
	r := out[0]
	if strings.Join(r.Reasons, ",") != "r1,r2,r3" {
		t.Fatalf("reasons = %v", r.Reasons)
	}
	if r.ReasonData["k"] != 2 || r.ReasonData["a"] != "x" {
		t.Fatalf("reason data = %v", r.ReasonData)
	}
	if len(r.Algorithms) != 4 {
		t.Fatalf("algorithms should be distinct: %v", r.Algorithms)
	}
}

func TestCombine_BoundsAndEmpty(t *testing.T) {
	if out := Combine(nil, DefaultSettings()); len(out) != 0 {
		t.Fatalf("empty input must give empty output")
	}
	out := Combine([]Candidate{
		{CourseID: "hi", Algorithm: domain.AlgorithmPopularity, Score: 1.7},
		{CourseID: "lo", Algorithm: domain.AlgorithmPopularity, Score: -0.2},
	}, DefaultSettings())
	for _, r := range out {
		if r.Score < 0 || r.Score > 1 {
			t.Fatalf("composite out of [0,1]: %+v", r)
		}
	}
}
