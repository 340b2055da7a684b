// ABOUTME: Relatedness strategies for scoring a chunk embedding against a query
// ABOUTME: Cosine similarity is the default; any Score implementation can be plugged in
package retrieval

import "math"

// Relatedness scores two embeddings; higher means more related
type Relatedness interface {
	Score(a, b []float64) float64
}

// RelatednessFunc adapts a plain function to the Relatedness interface
type RelatednessFunc func(a, b []float64) float64

// Score calls f(a, b)
func (f RelatednessFunc) Score(a, b []float64) float64 {
	return f(a, b)
}

// Cosine scores by 1 - cosine distance, i.e. cosine similarity
type Cosine struct{}

// Score returns the cosine similarity of a and b. Vectors of different length
// or with zero norm score 0.
func (Cosine) Score(a, b []float64) float64 {
	if len(a) != len(b) {
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

	distance := 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	return 1 - distance
}

// DotProduct scores by the raw inner product; equivalent to cosine for unit vectors
var DotProduct = RelatednessFunc(func(a, b []float64) float64 {
	n := min(len(a), len(b))
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
})
