package rag

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRerankBySectionWeight_Ordering(t *testing.T) {
	hits := []Hit{
		{PaperID: "p1", Section: "Abstract", Score: 0.8},
		{PaperID: "p1", Section: "Methods", Score: 0.79},
		{PaperID: "p1", Section: "Results", Score: 0.78},
	}

	got := RerankBySectionWeight(hits, 5)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	wantOrder := []string{"Methods", "Results", "Abstract"}
	wantScores := []float64{0.79 * 1.2, 0.78 * 1.1, 0.8 * 0.9}
	for i := range got {
		if got[i].Section != wantOrder[i] {
			t.Errorf("position %d section = %s, want %s", i, got[i].Section, wantOrder[i])
		}
		if !almostEqual(got[i].Score, wantScores[i]) {
			t.Errorf("position %d score = %v, want %v", i, got[i].Score, wantScores[i])
		}
	}
}

func TestRerankBySectionWeight_StableOnTies(t *testing.T) {
	hits := []Hit{
		{PointID: "first", Section: "introduction", Score: 0.7},
		{PointID: "second", Section: "conclusion", Score: 0.7},
	}

	got := RerankBySectionWeight(hits, 5)
	if got[0].PointID != "first" || got[1].PointID != "second" {
		t.Errorf("tied hits were reordered: %s, %s", got[0].PointID, got[1].PointID)
	}
}

func TestRerankBySectionWeight_UnrecognizedSectionKeepsScore(t *testing.T) {
	hits := []Hit{{Section: "appendix", Score: 0.5}}

	got := RerankBySectionWeight(hits, 5)
	if !almostEqual(got[0].Score, 0.5) {
		t.Errorf("score = %v, want 0.5 for unrecognized section", got[0].Score)
	}
}

func TestRerankBySectionWeight_UnknownBucketDiscounts(t *testing.T) {
	hits := []Hit{{Section: "Unknown", Score: 1.0}}

	got := RerankBySectionWeight(hits, 5)
	if !almostEqual(got[0].Score, 0.9) {
		t.Errorf("score = %v, want 0.9 for explicit unknown section", got[0].Score)
	}
}

func TestRerankBySectionWeight_TopKFlooredAtOne(t *testing.T) {
	hits := []Hit{
		{Section: "methods", Score: 0.9},
		{Section: "results", Score: 0.8},
	}

	got := RerankBySectionWeight(hits, 0)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 when topK <= 0", len(got))
	}
}

func TestRerankBySectionWeight_DoesNotMutateInput(t *testing.T) {
	hits := []Hit{{Section: "methods", Score: 0.5}}

	_ = RerankBySectionWeight(hits, 5)
	if !almostEqual(hits[0].Score, 0.5) {
		t.Errorf("input score was mutated: %v", hits[0].Score)
	}
}
