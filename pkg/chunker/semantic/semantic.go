// Package semantic implements the embedding-aware chunker: it splits text
// into sentences, finds boundaries where cosine similarity between
// sliding-window-smoothed neighboring sentence embeddings drops below a
// threshold, and greedily packs each resulting group by a token budget.
package semantic

import (
	"context"
	"fmt"
	"strings"

	"github.com/wyvernzora/chonkie/pkg/chunk"
	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	"github.com/wyvernzora/chonkie/pkg/embedding"
	"github.com/wyvernzora/chonkie/pkg/mathutil"
	"github.com/wyvernzora/chonkie/pkg/sentence"
	"github.com/wyvernzora/chonkie/pkg/tokenizer"
)

const component = "semantic chunker"

type options struct {
	chunkSize           int
	minSentences        int
	similarityThreshold float64
	similarityWindow    int
	tok                 tokenizer.Tokenizer
	model               embedding.Model
	sentenceOpts        []sentence.Option
}

// Option configures a Chunker.
type Option func(*options)

// WithChunkSize sets the maximum tokens per packed chunk within a
// similarity group. Required, must be > 0.
func WithChunkSize(size int) Option {
	return func(o *options) { o.chunkSize = size }
}

// WithSimilarityThreshold sets the cosine similarity below which two
// neighboring sentences are considered a semantic boundary. Must be in
// [-1, 1]. A similarity exactly equal to the threshold is NOT a boundary
// (ties favor staying in the same group). Default 0.5.
func WithSimilarityThreshold(threshold float64) Option {
	return func(o *options) { o.similarityThreshold = threshold }
}

// WithMinSentences sets the minimum number of sentences every chunk but
// possibly the last must contain within its similarity group, overriding
// chunk_size when the two conflict. Must be >= 1. Default 1.
func WithMinSentences(n int) Option {
	return func(o *options) { o.minSentences = n }
}

// WithSimilarityWindow sets how many neighboring sentences on each side are
// averaged before comparing similarity, smoothing out single-sentence
// noise. Default 1 (direct adjacent-sentence comparison).
func WithSimilarityWindow(window int) Option {
	return func(o *options) { o.similarityWindow = window }
}

// WithTokenizer sets the tokenizer used for sentence splitting and the
// packing budget. Required.
func WithTokenizer(tok tokenizer.Tokenizer) Option {
	return func(o *options) { o.tok = tok }
}

// WithEmbeddingModel sets the embedding collaborator used to vectorize
// sentences. Required.
func WithEmbeddingModel(model embedding.Model) Option {
	return func(o *options) { o.model = model }
}

// WithSentenceOptions forwards configuration to the underlying sentence
// splitter.
func WithSentenceOptions(opts ...sentence.Option) Option {
	return func(o *options) { o.sentenceOpts = append(o.sentenceOpts, opts...) }
}

// Chunker groups sentences by embedding similarity, then packs each group
// by token budget.
type Chunker struct {
	chunkSize    int
	minSentences int
	threshold    float64
	window       int
	splitter     *sentence.Splitter
	model        embedding.Model
}

// New builds a Chunker.
func New(opts ...Option) (*Chunker, error) {
	cfg := &options{similarityThreshold: 0.5, similarityWindow: 1, minSentences: 1}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.chunkSize <= 0 {
		return nil, chunkerr.WithReason(chunkerr.KindInput, chunkerr.ReasonChunkSizeInvalid,
			component, fmt.Sprintf("chunk size must be > 0, got %d", cfg.chunkSize), nil)
	}
	if cfg.minSentences <= 0 {
		cfg.minSentences = 1
	}
	if cfg.similarityThreshold < -1 || cfg.similarityThreshold > 1 {
		return nil, chunkerr.WithReason(chunkerr.KindInput, chunkerr.ReasonThresholdOutOfRange,
			component, fmt.Sprintf("similarity threshold must be in [-1,1], got %v", cfg.similarityThreshold), nil)
	}
	if cfg.similarityWindow <= 0 {
		cfg.similarityWindow = 1
	}
	if cfg.tok == nil {
		return nil, chunkerr.Configuration(component, "a tokenizer is required", nil)
	}
	if cfg.model == nil {
		return nil, chunkerr.Configuration(component, "an embedding model is required", nil)
	}

	splitter, err := sentence.New(cfg.tok, cfg.sentenceOpts...)
	if err != nil {
		return nil, chunkerr.Configuration(component, "building sentence splitter", err)
	}

	return &Chunker{
		chunkSize:    cfg.chunkSize,
		minSentences: cfg.minSentences,
		threshold:    cfg.similarityThreshold,
		window:       cfg.similarityWindow,
		splitter:     splitter,
		model:        cfg.model,
	}, nil
}

// Chunk splits text into sentences, embeds them, groups consecutive
// sentences by similarity, and packs each group by token budget. Each
// produced chunk's Embedding is the mean-pooled embedding of its sentences.
func (c *Chunker) Chunk(ctx context.Context, text string) ([]chunk.Chunk, error) {
	sents, err := c.splitter.Split(text)
	if err != nil {
		return nil, chunkerr.Tokenizer(component, "splitting into sentences", err)
	}
	if len(sents) == 0 {
		return nil, nil
	}

	texts := make([]string, len(sents))
	for i, s := range sents {
		texts[i] = s.Text
	}
	embeddings, err := c.model.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, chunkerr.Collaborator(component, "embedding sentences", err)
	}
	if len(embeddings) != len(sents) {
		return nil, chunkerr.Collaborator(component,
			fmt.Sprintf("embedding model returned %d vectors for %d sentences", len(embeddings), len(sents)), nil)
	}
	for i := range sents {
		sents[i].Embedding = embeddings[i]
	}

	boundaries := c.findBoundaries(embeddings)

	var chunks []chunk.Chunk
	for g := 0; g < len(boundaries)-1; g++ {
		group := sents[boundaries[g]:boundaries[g+1]]
		packed, err := c.pack(group)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, packed...)
	}
	return chunks, nil
}

// findBoundaries returns sentence indices where a new similarity group
// begins, including 0 and len(embeddings) as the leading/trailing sentinels.
func (c *Chunker) findBoundaries(embeddings [][]float32) []int {
	boundaries := []int{0}
	for i := 1; i < len(embeddings); i++ {
		leftFrom := i - c.window
		if leftFrom < 0 {
			leftFrom = 0
		}
		rightTo := i + c.window
		if rightTo > len(embeddings) {
			rightTo = len(embeddings)
		}

		left := mathutil.MeanPool(embeddings[leftFrom:i])
		right := mathutil.MeanPool(embeddings[i:rightTo])
		similarity := mathutil.CosineSimilarity(left, right)

		if similarity < c.threshold {
			boundaries = append(boundaries, i)
		}
	}
	boundaries = append(boundaries, len(embeddings))
	return boundaries
}

// pack greedily packs consecutive sentences within one similarity group
// into chunks bounded by chunkSize tokens, same accumulate/flush shape as
// the plain sentence chunker.
func (c *Chunker) pack(group []chunk.Sentence) ([]chunk.Chunk, error) {
	var chunks []chunk.Chunk
	i := 0
	for i < len(group) {
		groupStart := group[i].StartIndex
		groupEnd := group[i].EndIndex
		sum := group[i].TokenCount
		vectors := [][]float32{group[i].Embedding}

		j := i + 1
		for j < len(group) {
			if sum+group[j].TokenCount > c.chunkSize {
				break
			}
			sum += group[j].TokenCount
			groupEnd = group[j].EndIndex
			vectors = append(vectors, group[j].Embedding)
			j++
		}

		// min_sentences guarantee overrides chunk_size for every chunk but
		// possibly the group's last: if the budget-bound group is too small
		// and more sentences remain in this similarity group, extend it.
		for j-i < c.minSentences && j < len(group) {
			sum += group[j].TokenCount
			groupEnd = group[j].EndIndex
			vectors = append(vectors, group[j].Embedding)
			j++
		}

		var sb strings.Builder
		for k := i; k < j; k++ {
			sb.WriteString(group[k].Text)
		}
		chunks = append(chunks, chunk.Chunk{
			ID:         chunk.NewID(),
			Text:       sb.String(),
			StartIndex: groupStart,
			EndIndex:   groupEnd,
			TokenCount: sum,
			Embedding:  mathutil.MeanPool(vectors),
		})
		i = j
	}
	return chunks, nil
}
