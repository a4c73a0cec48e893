// Package embeddings turns text into vectors through a chain of fallback
// tiers and compares the vectors with cosine similarity.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/logger"
	"go.uber.org/zap"
)

const (
	// DefaultModel is the local model consulted when none is configured.
	DefaultModel = "all-MiniLM-L6-v2"
	// DefaultDimension is the width of the last-resort vectors.
	DefaultDimension = 384
)

// Tier identifies which fallback level produced a set of vectors.
type Tier string

const (
	TierRemote   Tier = "remote"
	TierLocal    Tier = "local"
	TierLexical  Tier = "lexical"
	TierConstant Tier = "constant"
)

// Config selects the local model and the last-resort vector width.
type Config struct {
	LocalModel string
	Dimension  int
}

// Provider embeds texts with the first tier that succeeds: the remote
// embedder, a locally cached model, a TF-IDF projection and finally constant
// zero vectors. Embedding never fails.
type Provider struct {
	remote     ai.Embedder
	models     *ModelCache
	localModel string
	dimension  int
	logger     *zap.Logger
}

// NewProvider builds a Provider. remote and models may be nil to skip their tiers.
func NewProvider(remote ai.Embedder, models *ModelCache, cfg Config, log *zap.Logger) *Provider {
	if cfg.LocalModel == "" {
		cfg.LocalModel = DefaultModel
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultDimension
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		remote:     remote,
		models:     models,
		localModel: cfg.LocalModel,
		dimension:  cfg.Dimension,
		logger:     log,
	}
}

// Embed returns one vector per text.
func (p *Provider) Embed(ctx context.Context, texts []string) [][]float64 {
	vectors, _ := p.EmbedWithTier(ctx, texts)
	return vectors
}

// EmbedWithTier returns one vector per text and the tier that produced them.
func (p *Provider) EmbedWithTier(ctx context.Context, texts []string) ([][]float64, Tier) {
	if len(texts) == 0 {
		return [][]float64{}, TierConstant
	}

	if p.remote != nil {
		vectors, err := p.remote.Embed(ctx, texts)
		if err == nil && len(vectors) != len(texts) {
			err = fmt.Errorf("remote returned %d vectors for %d texts", len(vectors), len(texts))
		}
		if err == nil {
			return p.use(TierRemote, vectors)
		}
		p.fallback(TierRemote, err)
	}

	if p.models != nil {
		vectors, err := p.embedLocal(texts)
		if err == nil {
			return p.use(TierLocal, vectors)
		}
		p.fallback(TierLocal, err)
	}

	vectors, err := lexicalEmbed(texts)
	if err == nil {
		return p.use(TierLexical, vectors)
	}
	p.fallback(TierLexical, err)

	out := make([][]float64, len(texts))
	for i := range out {
		out[i] = make([]float64, p.dimension)
	}
	return p.use(TierConstant, out)
}

func (p *Provider) embedLocal(texts []string) ([][]float64, error) {
	model, err := p.models.Load(p.localModel)
	if err != nil {
		return nil, err
	}
	return model.Embed(texts)
}

func (p *Provider) use(tier Tier, vectors [][]float64) ([][]float64, Tier) {
	p.logger.Debug("embeddings produced",
		append(logger.StringFields(logger.StringField{Key: logger.FieldTier, Value: string(tier)}),
			zap.Int("texts", len(vectors)))...,
	)
	return vectors, tier
}

func (p *Provider) fallback(tier Tier, err error) {
	fields := logger.StringFields(logger.StringField{Key: logger.FieldTier, Value: string(tier)})
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	// Missing optional capabilities are expected; real failures are not.
	if err == nil || errors.Is(err, ai.ErrUnconfigured) || errors.Is(err, fs.ErrNotExist) {
		p.logger.Debug("embedding tier unavailable", fields...)
		return
	}
	p.logger.Warn("embedding tier failed, falling back", fields...)
}

// TextSimilarity embeds both texts in one batch and compares them.
func (p *Provider) TextSimilarity(ctx context.Context, a, b string) float64 {
	vectors := p.Embed(ctx, []string{a, b})
	if len(vectors) < 2 {
		return 0
	}
	return Similarity(vectors[0], vectors[1])
}

// Index is a set of texts embedded together for nearest-neighbour search.
type Index struct {
	Texts     []string    `json:"texts"`
	Vectors   [][]float64 `json:"embeddings"`
	Tier      Tier        `json:"tier"`
	Dimension int         `json:"dimension"`
}

// Match is a search hit.
type Match struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// BuildIndex embeds texts for later searches.
func (p *Provider) BuildIndex(ctx context.Context, texts []string) *Index {
	vectors, tier := p.EmbedWithTier(ctx, texts)
	idx := &Index{Texts: append([]string(nil), texts...), Vectors: vectors, Tier: tier}
	if len(vectors) > 0 {
		idx.Dimension = len(vectors[0])
	}
	return idx
}

// Search returns up to topK indexed texts most similar to query, best first.
// Ties keep index order.
func (p *Provider) Search(ctx context.Context, idx *Index, query string, topK int) []Match {
	if idx == nil || len(idx.Vectors) == 0 || topK <= 0 {
		return []Match{}
	}

	vectors, tier := p.EmbedWithTier(ctx, []string{query})
	if tier != idx.Tier {
		p.logger.Warn("query and index were embedded by different tiers",
			zap.String("query_tier", string(tier)),
			zap.String("index_tier", string(idx.Tier)),
		)
	}

	matches := make([]Match, len(idx.Vectors))
	for i, vec := range idx.Vectors {
		matches[i] = Match{Text: idx.Texts[i], Score: Similarity(vectors[0], vec)}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
