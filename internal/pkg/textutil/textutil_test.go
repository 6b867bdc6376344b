package textutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"mismatched length", []float32{1, 2}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestNormalizeVector(t *testing.T) {
	v := []float32{3, 4}
	n := NormalizeVector(v)

	assert.InDelta(t, 0.6, n[0], 1e-6)
	assert.InDelta(t, 0.8, n[1], 1e-6)
	// input untouched
	assert.Equal(t, []float32{3, 4}, v)

	var norm float64
	for _, x := range n {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestNormalizeVectorZero(t *testing.T) {
	n := NormalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, n)
}

func TestDotProductMatchesCosineForUnitVectors(t *testing.T) {
	a := NormalizeVector([]float32{1, 2, 3, 4})
	b := NormalizeVector([]float32{4, 3, 2, 1})
	assert.InDelta(t, float64(CosineSimilarity(a, b)), float64(DotProduct(a, b)), 1e-6)
}

func TestHashText(t *testing.T) {
	h1 := HashText("hello")
	h2 := HashText("hello")
	h3 := HashText("world")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("hi"))
	assert.Equal(t, 1, EstimateTokens("four"))
	assert.Equal(t, 2, EstimateTokens("fives"))
	assert.Equal(t, 25, EstimateTokens(string(make([]rune, 0))+repeatRune('a', 100)))
}

func repeatRune(r rune, n int) string {
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = r
	}
	return string(runes)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", TruncateRunes("abc", 0))
	assert.Equal(t, "ab", TruncateRunes("abc", 2))
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "数学", TruncateRunes("数学の勉強", 2))
}

func TestEstimateTokensUnicode(t *testing.T) {
	// counted in runes, not bytes
	s := "数学の勉強は楽しい"
	require.Equal(t, (9+3)/4, EstimateTokens(s))
}
