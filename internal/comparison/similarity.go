package comparison

import (
	"context"

	"github.com/spigell/resume-scorer/internal/embeddings"
	"gonum.org/v1/gonum/stat"
)

// Embedder turns texts into vectors. embeddings.Provider satisfies it.
type Embedder interface {
	Embed(ctx context.Context, texts []string) [][]float64
}

// Pair is the similarity of two resumes, identified by their batch positions.
type Pair struct {
	First      int     `json:"resume_1"`
	Second     int     `json:"resume_2"`
	Similarity float64 `json:"similarity"`
}

// SimilarityStats summarizes how alike the resumes of a batch are.
type SimilarityStats struct {
	Average float64 `json:"average_similarity"`
	Max     float64 `json:"max_similarity"`
	Min     float64 `json:"min_similarity"`
	Pairs   []Pair  `json:"pairwise_similarities"`
}

// Similarity embeds texts in one batch and compares every pair. Fewer than
// two texts yield empty stats.
func Similarity(ctx context.Context, embedder Embedder, texts []string) SimilarityStats {
	if len(texts) < 2 || embedder == nil {
		return SimilarityStats{}
	}

	vectors := embedder.Embed(ctx, texts)
	if len(vectors) != len(texts) {
		return SimilarityStats{}
	}

	var out SimilarityStats
	values := make([]float64, 0, len(texts)*(len(texts)-1)/2)
	for i := range vectors {
		for j := i + 1; j < len(vectors); j++ {
			sim := embeddings.Similarity(vectors[i], vectors[j])
			out.Pairs = append(out.Pairs, Pair{First: i, Second: j, Similarity: sim})
			values = append(values, sim)
		}
	}

	out.Average = stat.Mean(values, nil)
	out.Max, out.Min = values[0], values[0]
	for _, v := range values[1:] {
		out.Max = max(out.Max, v)
		out.Min = min(out.Min, v)
	}
	return out
}
