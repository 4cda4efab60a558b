// Package sentencechunker implements the sentence-aware chunker: it splits
// text into sentences and greedily packs consecutive sentences into chunks
// up to a token budget.
package sentencechunker

import (
	"fmt"
	"strings"

	"github.com/wyvernzora/chonkie/pkg/chunk"
	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	"github.com/wyvernzora/chonkie/pkg/sentence"
	"github.com/wyvernzora/chonkie/pkg/tokenizer"
)

const component = "sentence chunker"

type options struct {
	chunkSize    int
	minSentences int
	approximate  bool
	tok          tokenizer.Tokenizer
	sentenceOpts []sentence.Option
	diagnostics  func(string)
}

// Option configures a Chunker.
type Option func(*options)

// WithChunkSize sets the maximum tokens per chunk. Required, must be > 0.
func WithChunkSize(size int) Option {
	return func(o *options) { o.chunkSize = size }
}

// WithMinSentences sets the minimum number of sentences every chunk but
// possibly the last must contain, overriding chunk_size when the two
// conflict. Must be >= 1. Default 1 (no effective minimum beyond one
// sentence per chunk).
func WithMinSentences(n int) Option {
	return func(o *options) { o.minSentences = n }
}

// WithApproximate estimates sentence token counts from rune length instead
// of invoking the tokenizer per sentence. See sentence.WithApproximate.
func WithApproximate(approximate bool) Option {
	return func(o *options) { o.approximate = approximate }
}

// WithTokenizer sets the tokenizer used both for sentence token counts and
// the chunk budget. Required.
func WithTokenizer(tok tokenizer.Tokenizer) Option {
	return func(o *options) { o.tok = tok }
}

// WithSentenceOptions forwards configuration to the underlying sentence
// splitter (e.g. sentence.WithAbbreviations).
func WithSentenceOptions(opts ...sentence.Option) Option {
	return func(o *options) { o.sentenceOpts = append(o.sentenceOpts, opts...) }
}

// WithDiagnostics registers a callback invoked with non-fatal warnings
// (e.g. a single sentence that alone exceeds the chunk budget).
func WithDiagnostics(fn func(string)) Option {
	return func(o *options) { o.diagnostics = fn }
}

// Chunker packs sentences greedily into chunks bounded by a token budget.
type Chunker struct {
	chunkSize    int
	minSentences int
	splitter     *sentence.Splitter
	diagnostics  func(string)
}

// New builds a Chunker.
func New(opts ...Option) (*Chunker, error) {
	cfg := &options{minSentences: 1}
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
	if cfg.tok == nil {
		return nil, chunkerr.Configuration(component, "a tokenizer is required", nil)
	}

	sentenceOpts := cfg.sentenceOpts
	if cfg.approximate {
		sentenceOpts = append(append([]sentence.Option(nil), sentenceOpts...), sentence.WithApproximate(true))
	}
	splitter, err := sentence.New(cfg.tok, sentenceOpts...)
	if err != nil {
		return nil, chunkerr.Configuration(component, "building sentence splitter", err)
	}

	return &Chunker{chunkSize: cfg.chunkSize, minSentences: cfg.minSentences, splitter: splitter, diagnostics: cfg.diagnostics}, nil
}

// Chunk splits text into sentences and greedily packs consecutive sentences
// into chunks whose summed sentence token counts stay within chunkSize. A
// sentence that alone exceeds chunkSize is still emitted as its own chunk
// (never split mid-sentence), with a non-fatal diagnostic.
func (c *Chunker) Chunk(text string) ([]chunk.Chunk, error) {
	sents, err := c.splitter.Split(text)
	if err != nil {
		return nil, chunkerr.Tokenizer(component, "splitting into sentences", err)
	}
	if len(sents) == 0 {
		return nil, nil
	}

	var chunks []chunk.Chunk
	i := 0
	for i < len(sents) {
		groupStart := sents[i].StartIndex
		groupEnd := sents[i].EndIndex
		sum := sents[i].TokenCount

		j := i + 1
		for j < len(sents) {
			if sum+sents[j].TokenCount > c.chunkSize {
				break
			}
			sum += sents[j].TokenCount
			groupEnd = sents[j].EndIndex
			j++
		}

		// min_sentences_per_chunk guarantee overrides chunk_size for every
		// chunk but possibly the last: if the budget-bound group is too
		// small and more sentences remain, extend it anyway.
		for j-i < c.minSentences && j < len(sents) {
			sum += sents[j].TokenCount
			groupEnd = sents[j].EndIndex
			j++
		}

		if sum > c.chunkSize && c.diagnostics != nil {
			c.diagnostics(fmt.Sprintf("sentence chunker: sentence at [%d,%d) exceeds chunk size alone", groupStart, groupEnd))
		}

		var sb strings.Builder
		for k := i; k < j; k++ {
			sb.WriteString(sents[k].Text)
		}
		chunks = append(chunks, chunk.Chunk{
			ID:         chunk.NewID(),
			Text:       sb.String(),
			StartIndex: groupStart,
			EndIndex:   groupEnd,
			TokenCount: sum,
		})
		i = j
	}

	return chunks, nil
}
