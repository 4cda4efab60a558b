// Package late implements "late chunking": the whole document is embedded
// in a single pass (so every token embedding already carries full-document
// context). Chunk boundaries come from packing sentences up to the chunk
// size, and each chunk's embedding is the mean of the token embeddings that
// fall inside its span. This differs from the semantic chunker, which embeds
// each sentence independently and therefore never sees context beyond it.
package late

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

const component = "late chunker"

type options struct {
	chunkSize    int
	tok          tokenizer.Tokenizer
	model        embedding.Model
	sentenceOpts []sentence.Option
}

// Option configures a Chunker.
type Option func(*options)

// WithChunkSize sets the maximum tokens packed into a chunk. Required,
// must be > 0.
func WithChunkSize(size int) Option {
	return func(o *options) { o.chunkSize = size }
}

// WithTokenizer sets the tokenizer used for sentence splitting, packing,
// and token-span alignment. Required, and must implement
// tokenizer.AlignedEncoder.
func WithTokenizer(tok tokenizer.Tokenizer) Option {
	return func(o *options) { o.tok = tok }
}

// WithEmbeddingModel sets the embedding collaborator used to embed the
// whole document. Required, and must implement embedding.TokenEmbedder.
func WithEmbeddingModel(model embedding.Model) Option {
	return func(o *options) { o.model = model }
}

// WithSentenceOptions forwards configuration to the underlying sentence
// splitter.
func WithSentenceOptions(opts ...sentence.Option) Option {
	return func(o *options) { o.sentenceOpts = append(o.sentenceOpts, opts...) }
}

// Chunker packs sentences by token budget and pools each chunk's embedding
// from a single whole-document token-level embedding pass.
type Chunker struct {
	chunkSize int
	tok       tokenizer.AlignedEncoder
	model     embedding.TokenEmbedder
	splitter  *sentence.Splitter
}

// New builds a Chunker.
func New(opts ...Option) (*Chunker, error) {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.chunkSize <= 0 {
		return nil, chunkerr.WithReason(chunkerr.KindInput, chunkerr.ReasonChunkSizeInvalid,
			component, fmt.Sprintf("chunk size must be > 0, got %d", cfg.chunkSize), nil)
	}
	if cfg.tok == nil {
		return nil, chunkerr.Configuration(component, "a tokenizer is required", nil)
	}
	if cfg.model == nil {
		return nil, chunkerr.Configuration(component, "an embedding model is required", nil)
	}

	aligned, ok := cfg.tok.(tokenizer.AlignedEncoder)
	if !ok {
		return nil, chunkerr.WithReason(chunkerr.KindTokenizer, chunkerr.ReasonAlignmentUnsupported,
			component, "tokenizer does not implement AlignedEncoder, required for late chunking", nil)
	}
	tokenEmbedder, ok := cfg.model.(embedding.TokenEmbedder)
	if !ok {
		return nil, chunkerr.Configuration(component,
			"embedding model does not implement TokenEmbedder, required for late chunking", nil)
	}

	splitter, err := sentence.New(cfg.tok, cfg.sentenceOpts...)
	if err != nil {
		return nil, chunkerr.Configuration(component, "building sentence splitter", err)
	}

	return &Chunker{
		chunkSize: cfg.chunkSize,
		tok:       aligned,
		model:     tokenEmbedder,
		splitter:  splitter,
	}, nil
}

// Chunk packs sentences into chunkSize-token groups, then pools each
// group's Embedding from the document's single-pass token embeddings.
func (c *Chunker) Chunk(ctx context.Context, text string) ([]chunk.Chunk, error) {
	sents, err := c.splitter.Split(text)
	if err != nil {
		return nil, chunkerr.Tokenizer(component, "splitting into sentences", err)
	}
	if len(sents) == 0 {
		return nil, nil
	}

	_, ranges, err := c.tok.EncodeAligned(text)
	if err != nil {
		return nil, chunkerr.Tokenizer(component, "encoding document for token alignment", err)
	}
	tokenEmbeddings, err := c.model.EmbedTokens(ctx, text)
	if err != nil {
		return nil, chunkerr.Collaborator(component, "embedding document tokens", err)
	}
	if len(tokenEmbeddings) != len(ranges) {
		return nil, chunkerr.Collaborator(component,
			fmt.Sprintf("embedding model returned %d token vectors for %d tokens", len(tokenEmbeddings), len(ranges)), nil)
	}

	var chunks []chunk.Chunk
	i := 0
	for i < len(sents) {
		start := sents[i].StartIndex
		end := sents[i].EndIndex
		sum := sents[i].TokenCount

		j := i + 1
		for j < len(sents) {
			if sum+sents[j].TokenCount > c.chunkSize {
				break
			}
			sum += sents[j].TokenCount
			end = sents[j].EndIndex
			j++
		}

		var sb strings.Builder
		for k := i; k < j; k++ {
			sb.WriteString(sents[k].Text)
		}

		chunks = append(chunks, chunk.Chunk{
			ID:         chunk.NewID(),
			Text:       sb.String(),
			StartIndex: start,
			EndIndex:   end,
			TokenCount: sum,
			Embedding:  pooledEmbedding(ranges, tokenEmbeddings, start, end),
		})
		i = j
	}
	return chunks, nil
}

// pooledEmbedding mean-pools the token embeddings whose rune range falls
// within [start, end).
func pooledEmbedding(ranges [][2]int, embeddings [][]float32, start, end int) []float32 {
	var span [][]float32
	for idx, r := range ranges {
		if r[0] >= start && r[1] <= end {
			span = append(span, embeddings[idx])
		}
	}
	return mathutil.MeanPool(span)
}
