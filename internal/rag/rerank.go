package rag

import (
	"sort"
	"strings"
)

// sectionWeights boosts methodologically dense sections over boilerplate.
// Retrieval similarity alone under-weights Methods and Results relative to
// the Abstract, so scores get a fixed per-section multiplier. Section names
// are matched case-insensitively; anything not in the table keeps its score.
var sectionWeights = map[string]float64{
	"abstract":     0.9,
	"introduction": 1.0,
	"methods":      1.2,
	"methodology":  1.2,
	"results":      1.1,
	"discussion":   1.05,
	"conclusion":   1.0,
	"unknown":      0.9,
}

// RerankBySectionWeight re-scores hits by section multiplier, sorts them by
// descending adjusted score and truncates to topK. The sort is stable, so
// ties keep their retrieval order. topK is floored at 1.
func RerankBySectionWeight(hits []Hit, topK int) []Hit {
	if topK < 1 {
		topK = 1
	}

	out := make([]Hit, len(hits))
	copy(out, hits)
	for i := range out {
		weight, ok := sectionWeights[strings.ToLower(out[i].Section)]
		if !ok {
			weight = 1.0
		}
		out[i].Score *= weight
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > topK {
		out = out[:topK]
	}
	return out
}
