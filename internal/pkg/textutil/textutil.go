// Package textutil provides text processing utilities for the retrieval
// pipeline: sentence-aware chunking, vector math, token estimation, and
// content hashing.
package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
)

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns 0 for mismatched lengths or zero vectors.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// NormalizeVector returns a copy of v scaled to unit length. A zero
// vector is returned unchanged.
func NormalizeVector(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	inv := 1 / math.Sqrt(norm)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// DotProduct returns the dot product of two equal-length vectors.
// For unit vectors this equals their cosine similarity.
func DotProduct(a, b []float32) float32 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return float32(dot)
}

// HashText returns the hex-encoded SHA-256 digest of s. Used as the
// cache key for embeddings and retrieval results.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// EstimateTokens estimates the token count of s. Uses the common
// four-characters-per-token heuristic, rounded up, so budgets err on
// the safe side for short strings.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	n := 0
	for range s {
		n++
	}
	return (n + 3) / 4
}

// TruncateRunes truncates s to at most maxRunes runes.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
