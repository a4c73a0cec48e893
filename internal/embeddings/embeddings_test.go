package embeddings

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubEmbedder struct {
	vectors [][]float64
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "opposite clamps to zero", a: []float64{1, 0}, b: []float64{-1, 0}, want: 0},
		{name: "zero norm", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
		{name: "length mismatch", a: []float64{1}, b: []float64{1, 1}, want: 0},
		{name: "45 degrees", a: []float64{1, 0}, b: []float64{1, 1}, want: 1 / math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestBatchSimilarityTruncates(t *testing.T) {
	a := [][]float64{{1, 0}, {0, 1}, {1, 1}}
	b := [][]float64{{1, 0}, {1, 0}}

	got := BatchSimilarity(a, b)
	require.Len(t, got, 2)
	assert.InDelta(t, 1, got[0], 1e-9)
	assert.InDelta(t, 0, got[1], 1e-9)
}

func TestNormalize(t *testing.T) {
	got := Normalize([][]float64{{3, 4}, {0, 0}})
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, got[0], 1e-9)
	assert.Equal(t, []float64{0, 0}, got[1])
}

func TestTFIDFSimilarity(t *testing.T) {
	same := TFIDFSimilarity("python developer with sql", "python developer with sql")
	assert.InDelta(t, 1, same, 1e-9)

	related := TFIDFSimilarity("python developer with sql skills", "senior python engineer")
	unrelated := TFIDFSimilarity("python developer with sql skills", "registered nurse in pediatrics")
	assert.Greater(t, related, unrelated)
	assert.Zero(t, unrelated)

	assert.Zero(t, TFIDFSimilarity("the and of", "python"))
}

func TestAnalyzeBuildsBigrams(t *testing.T) {
	got := analyze("The Machine Learning engineer")
	assert.Equal(t, []string{"machine", "learning", "engineer", "machine learning", "learning engineer"}, got)
}

func TestLexicalEmbedPreservesCosine(t *testing.T) {
	texts := []string{
		"python developer with machine learning experience",
		"data scientist with python and ml skills",
		"software engineer with java and spring boot",
	}

	vectors, err := lexicalEmbed(texts)
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, vec := range vectors {
		assert.Len(t, vec, lexicalDimension)
	}

	rows, err := tfidfMatrix(texts)
	require.NoError(t, err)
	assert.InDelta(t, Similarity(rows[0], rows[1]), Similarity(vectors[0], vectors[1]), 1e-6)
	assert.InDelta(t, Similarity(rows[0], rows[2]), Similarity(vectors[0], vectors[2]), 1e-6)
}

func TestProviderRemoteTier(t *testing.T) {
	remote := &stubEmbedder{vectors: [][]float64{{1, 0}, {0, 1}}}
	p := NewProvider(remote, nil, Config{}, zap.NewNop())

	vectors, tier := p.EmbedWithTier(context.Background(), []string{"a", "b"})
	assert.Equal(t, TierRemote, tier)
	assert.Equal(t, remote.vectors, vectors)
}

func TestProviderFallsBackWhenRemoteMalformed(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	remote := &stubEmbedder{vectors: [][]float64{{1, 0}}}
	p := NewProvider(remote, nil, Config{}, zap.New(core))

	_, tier := p.EmbedWithTier(context.Background(), []string{"python developer", "java developer"})
	assert.Equal(t, TierLexical, tier)
	assert.Equal(t, 1, observed.FilterMessage("embedding tier failed, falling back").Len())
}

func TestProviderUnconfiguredRemoteIsQuiet(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	p := NewProvider(&stubEmbedder{err: ai.ErrUnconfigured}, NewModelCache(t.TempDir()), Config{}, zap.New(core))

	_, tier := p.EmbedWithTier(context.Background(), []string{"python developer", "java developer"})
	assert.Equal(t, TierLexical, tier)
	assert.Zero(t, observed.Len())
}

func TestProviderLocalTier(t *testing.T) {
	dir := t.TempDir()
	model := "3 2\npython 1 0\ndeveloper 0 1\njava 1 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.vec"), []byte(model), 0o600))

	remote := &stubEmbedder{err: errors.New("503")}
	p := NewProvider(remote, NewModelCache(dir), Config{LocalModel: "tiny"}, zap.NewNop())

	vectors, tier := p.EmbedWithTier(context.Background(), []string{"Python developer", "Java"})
	require.Equal(t, TierLocal, tier)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, vectors[0], 1e-9)
	assert.InDeltaSlice(t, []float64{1, 1}, vectors[1], 1e-9)

	// A text with no known token makes the whole tier fail.
	_, tier = p.EmbedWithTier(context.Background(), []string{"python", "kubernetes"})
	assert.Equal(t, TierLexical, tier)
}

func TestProviderNeverFails(t *testing.T) {
	p := NewProvider(&stubEmbedder{err: errors.New("down")}, NewModelCache(t.TempDir()), Config{Dimension: 16}, zap.NewNop())

	texts := []string{"", "the of and"}
	vectors, tier := p.EmbedWithTier(context.Background(), texts)

	assert.Equal(t, TierConstant, tier)
	require.Len(t, vectors, len(texts))
	for _, vec := range vectors {
		assert.Len(t, vec, 16)
	}
	assert.Zero(t, Similarity(vectors[0], vectors[1]))

	empty, _ := p.EmbedWithTier(context.Background(), nil)
	assert.Empty(t, empty)
}

func TestModelCacheLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.vec")
	require.NoError(t, os.WriteFile(path, []byte("go 1 2\n"), 0o600))

	cache := NewModelCache(dir)

	var wg sync.WaitGroup
	models := make([]*WordVectors, 8)
	for i := range models {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := cache.Load("m")
			assert.NoError(t, err)
			models[i] = m
		}(i)
	}
	wg.Wait()

	for _, m := range models[1:] {
		assert.Same(t, models[0], m)
	}

	// Removing the file does not matter once the model is cached.
	require.NoError(t, os.Remove(path))
	m, err := cache.Load("m")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Dimension())

	_, err = cache.Load("missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseWordVectorsRejectsRaggedRows(t *testing.T) {
	_, err := ParseWordVectors("bad", strings.NewReader("a 1 2\nb 1\n"))
	assert.Error(t, err)

	_, err = ParseWordVectors("empty", strings.NewReader(""))
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	p := NewProvider(nil, nil, Config{}, zap.NewNop())
	texts := []string{
		"python developer with machine learning experience",
		"registered nurse working night shifts",
		"senior python developer building ml pipelines",
	}

	idx := p.BuildIndex(context.Background(), texts)
	assert.Equal(t, TierLexical, idx.Tier)
	assert.Equal(t, lexicalDimension, idx.Dimension)

	hits := p.Search(context.Background(), idx, "python developer", 2)
	assert.Len(t, hits, 2)
	assert.Empty(t, p.Search(context.Background(), nil, "python", 3))
}

func TestTextSimilarity(t *testing.T) {
	p := NewProvider(nil, nil, Config{}, zap.NewNop())

	related := p.TextSimilarity(context.Background(), "python sql developer", "python developer")
	unrelated := p.TextSimilarity(context.Background(), "python sql developer", "pediatric nurse")
	assert.Greater(t, related, unrelated)
}
