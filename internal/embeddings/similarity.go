package embeddings

import "math"

// Similarity returns the cosine similarity of a and b clamped to [0, 1]. It
// returns 0 when either vector has zero norm or the lengths differ.
func Similarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	switch {
	case math.IsNaN(sim) || sim < 0:
		return 0
	case sim > 1:
		return 1
	default:
		return sim
	}
}

// BatchSimilarity pairs a and b index-wise, truncating to the shorter list.
func BatchSimilarity(a, b [][]float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = Similarity(a[i], b[i])
	}
	return out
}

// Normalize scales each vector to unit length. Zero vectors stay zero.
func Normalize(vectors [][]float64) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, vec := range vectors {
		var norm float64
		for _, x := range vec {
			norm += x * x
		}
		scaled := make([]float64, len(vec))
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j, x := range vec {
				scaled[j] = x / norm
			}
		}
		out[i] = scaled
	}
	return out
}
