package summary

import (
	"math"
	"sort"
)

// Scored pairs a summary with its cosine similarity to a query embedding.
type Scored struct {
	Summary Summary
	Score   float64
}

// Cosine returns dot(a,b) / (|a|*|b|). Mismatched lengths or a zero vector
// score 0 so a malformed document never breaks ranking.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rank orders candidates by descending similarity to query. Candidates with
// no embedding or a wrong-dimension embedding are dropped. The sort is stable,
// so ties keep the candidates' storage order and repeated calls return the
// same ordering.
func rank(candidates []Summary, query []float64, k int) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Embedding) == 0 || len(c.Embedding) != len(query) {
			continue
		}
		scored = append(scored, Scored{Summary: c, Score: Cosine(query, c.Embedding)})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
