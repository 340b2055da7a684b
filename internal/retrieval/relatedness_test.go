// ABOUTME: Tests for relatedness strategies
// ABOUTME: Cosine similarity edge cases and function adapters
package retrieval

import (
	"math"
	"testing"
)

func TestCosine_Score(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
		delta    float64
	}{
		{"identical vectors", []float64{1, 0, 0}, []float64{1, 0, 0}, 1.0, 1e-9},
		{"orthogonal vectors", []float64{1, 0}, []float64{0, 1}, 0.0, 1e-9},
		{"opposite vectors", []float64{1, 0, 0}, []float64{-1, 0, 0}, -1.0, 1e-9},
		{"scale invariant", []float64{2, 0}, []float64{5, 0}, 1.0, 1e-9},
		{"similar vectors", []float64{1, 0, 0}, []float64{0.9, 0.1, 0}, 0.9939, 1e-3},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0.0, 0},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}, 0.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine{}.Score(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("Cosine.Score(%v, %v) = %.6f, want %.6f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestRelatednessFunc(t *testing.T) {
	var rel Relatedness = RelatednessFunc(func(a, b []float64) float64 { return 42 })
	if got := rel.Score(nil, nil); got != 42 {
		t.Errorf("Score() = %f, want 42", got)
	}
}

func TestDotProduct(t *testing.T) {
	if got := DotProduct.Score([]float64{1, 2, 3}, []float64{4, 5, 6}); got != 32 {
		t.Errorf("DotProduct = %f, want 32", got)
	}
	if got := DotProduct.Score([]float64{1, 2}, []float64{4}); got != 4 {
		t.Errorf("DotProduct with mismatched lengths = %f, want 4", got)
	}
}
