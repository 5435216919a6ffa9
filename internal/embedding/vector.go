package embedding

import (
	"fmt"
	"math"
)

// CosineSimilarity computes the cosine of the angle between two vectors.
// A zero-magnitude vector yields 0 rather than NaN.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// SimilarityPercent converts a cosine similarity to a rounded integer
// percentage, the unit stored on similarity groups.
func SimilarityPercent(similarity float64) int {
	return int(math.Round(similarity * 100))
}
