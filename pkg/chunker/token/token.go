// Package token implements the token-window chunker: it encodes text to
// token IDs, slides a fixed-size window with configurable overlap across
// them, and decodes each window back to exact source spans.
package token

import (
	"fmt"

	"github.com/wyvernzora/chonkie/pkg/chunk"
	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	"github.com/wyvernzora/chonkie/pkg/tokenizer"
)

const component = "token chunker"

type options struct {
	chunkSize    int
	chunkOverlap int
	tok          tokenizer.Tokenizer
	diagnostics  func(string)
}

// Option configures a Chunker.
type Option func(*options)

// WithChunkSize sets the maximum number of tokens per chunk. Required, must be > 0.
func WithChunkSize(size int) Option {
	return func(o *options) { o.chunkSize = size }
}

// WithChunkOverlap sets the number of tokens shared between consecutive
// chunks. Must be in [0, chunkSize). Default 0.
func WithChunkOverlap(overlap int) Option {
	return func(o *options) { o.chunkOverlap = overlap }
}

// WithTokenizer sets the tokenizer used to encode and decode text. Required,
// and must implement tokenizer.Encoder.
func WithTokenizer(tok tokenizer.Tokenizer) Option {
	return func(o *options) { o.tok = tok }
}

// WithDiagnostics registers a callback invoked with non-fatal warnings
// (e.g. whitespace-only input).
func WithDiagnostics(fn func(string)) Option {
	return func(o *options) { o.diagnostics = fn }
}

// Chunker slides a fixed-size, fixed-overlap window of tokens across text.
type Chunker struct {
	chunkSize   int
	overlap     int
	enc         tokenizer.Encoder
	diagnostics func(string)
}

// New builds a Chunker. Returns a KindInput error for an invalid chunk size
// or overlap, a KindConfiguration error if no tokenizer was supplied, and a
// KindTokenizer/ReasonTokenizerRoundTripUnsupported error if the supplied
// tokenizer does not implement tokenizer.Encoder.
func New(opts ...Option) (*Chunker, error) {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.chunkSize <= 0 {
		return nil, chunkerr.WithReason(chunkerr.KindInput, chunkerr.ReasonChunkSizeInvalid,
			component, fmt.Sprintf("chunk size must be > 0, got %d", cfg.chunkSize), nil)
	}
	if cfg.chunkOverlap < 0 || cfg.chunkOverlap >= cfg.chunkSize {
		return nil, chunkerr.WithReason(chunkerr.KindInput, chunkerr.ReasonOverlapInvalid,
			component, fmt.Sprintf("chunk overlap must be in [0, %d), got %d", cfg.chunkSize, cfg.chunkOverlap), nil)
	}
	if cfg.tok == nil {
		return nil, chunkerr.Configuration(component, "a tokenizer is required", nil)
	}
	enc, ok := cfg.tok.(tokenizer.Encoder)
	if !ok {
		return nil, chunkerr.WithReason(chunkerr.KindTokenizer, chunkerr.ReasonTokenizerRoundTripUnsupported,
			component, "tokenizer does not implement Encode/Decode", nil)
	}

	return &Chunker{chunkSize: cfg.chunkSize, overlap: cfg.chunkOverlap, enc: enc, diagnostics: cfg.diagnostics}, nil
}

// Chunk encodes text and slides a token window across it, decoding each
// window back to an exact rune span. It fails with
// KindTokenizer/ReasonTokenizerRoundTripUnsupported if any decoded window
// does not match the corresponding span of the source text exactly.
func (c *Chunker) Chunk(text string) ([]chunk.Chunk, error) {
	if text == "" {
		return nil, nil
	}

	ids, err := c.enc.Encode(text)
	if err != nil {
		return nil, chunkerr.Tokenizer(component, "encoding input", err)
	}
	if len(ids) == 0 {
		if c.diagnostics != nil {
			c.diagnostics("token chunker: input encoded to zero tokens (likely whitespace-only)")
		}
		return nil, nil
	}

	source := []rune(text)
	step := c.chunkSize - c.overlap

	var chunks []chunk.Chunk
	for start := 0; start < len(ids); start += step {
		end := start + c.chunkSize
		if end > len(ids) {
			end = len(ids)
		}

		prefixText, err := c.enc.Decode(ids[:start])
		if err != nil {
			return nil, chunkerr.Tokenizer(component, "decoding prefix for offset reconstruction", err)
		}
		startIdx := len([]rune(prefixText))

		windowText, err := c.enc.Decode(ids[start:end])
		if err != nil {
			return nil, chunkerr.Tokenizer(component, "decoding window", err)
		}
		endIdx := startIdx + len([]rune(windowText))

		if endIdx > len(source) || string(source[startIdx:endIdx]) != windowText {
			return nil, chunkerr.WithReason(chunkerr.KindTokenizer, chunkerr.ReasonTokenizerRoundTripUnsupported,
				component, "decoded window does not match source span exactly", nil)
		}

		chunks = append(chunks, chunk.Chunk{
			ID:         chunk.NewID(),
			Text:       windowText,
			StartIndex: startIdx,
			EndIndex:   endIdx,
			TokenCount: end - start,
		})

		if end == len(ids) {
			break
		}
	}

	return chunks, nil
}
