// Package recursive implements the hierarchical separator-based chunker: it
// splits text on an ordered list of separators, recursing into oversized
// pieces with progressively finer separators, and falls back to a
// character-level split once separators are exhausted.
package recursive

import (
	"fmt"

	"github.com/wyvernzora/chonkie/pkg/chunk"
	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	"github.com/wyvernzora/chonkie/pkg/tokenizer"
)

const component = "recursive chunker"

// DefaultSeparators is the ordered list of separators tried from coarsest
// to finest. The trailing "" entry triggers the character-level fallback.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

type options struct {
	chunkSize   int
	separators  []string
	tok         tokenizer.Tokenizer
	diagnostics func(string)
}

// Option configures a Chunker.
type Option func(*options)

// WithChunkSize sets the maximum tokens per chunk. Required, must be > 0.
func WithChunkSize(size int) Option {
	return func(o *options) { o.chunkSize = size }
}

// WithSeparators overrides DefaultSeparators. Must end in "" (the
// character-level fallback); New returns a configuration error otherwise.
func WithSeparators(seps []string) Option {
	return func(o *options) { o.separators = seps }
}

// WithTokenizer sets the tokenizer used to measure piece sizes. Required.
func WithTokenizer(tok tokenizer.Tokenizer) Option {
	return func(o *options) { o.tok = tok }
}

// WithDiagnostics registers a callback invoked with non-fatal warnings.
func WithDiagnostics(fn func(string)) Option {
	return func(o *options) { o.diagnostics = fn }
}

// Chunker recursively splits text on an ordered separator list.
type Chunker struct {
	chunkSize   int
	separators  []string
	tok         tokenizer.Tokenizer
	diagnostics func(string)
}

// New builds a Chunker.
func New(opts ...Option) (*Chunker, error) {
	cfg := &options{separators: DefaultSeparators}
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
	if len(cfg.separators) == 0 || cfg.separators[len(cfg.separators)-1] != "" {
		return nil, chunkerr.Configuration(component, "separators must end with \"\" for the character-level fallback", nil)
	}

	return &Chunker{chunkSize: cfg.chunkSize, separators: cfg.separators, tok: cfg.tok, diagnostics: cfg.diagnostics}, nil
}

// leafSpan is a rune range that is small enough to stand as its own chunk,
// or that has been reduced to that size by the character-level fallback.
type leafSpan struct {
	start, end int
}

// pieceSpan is one piece produced by splitting on a separator.
type pieceSpan struct {
	start, end int
	hasSep     bool // true if this piece's tail is the separator itself
}

// Chunk splits text into chunks, each bounded by chunkSize tokens measured
// on its own content (a piece's trailing separator, kept only for lossless
// concatenation, does not count against that bound — see DESIGN.md).
// Adjacent small leaves are then packed together greedily while their
// combined text still fits the budget.
func (c *Chunker) Chunk(text string) ([]chunk.Chunk, error) {
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	leaves, err := c.splitNode(runes, 0, len(runes), 0, false, 0)
	if err != nil {
		return nil, err
	}

	return c.pack(runes, leaves)
}

// splitNode decides whether [start,end) is small enough to stand alone, and
// otherwise splits it on separators[sepIdx], recursing into each piece with
// the next separator. hasTrailingSep/sepLen describe a separator this span
// inherited from its parent split, excluded from the size check.
func (c *Chunker) splitNode(runes []rune, start, end, sepIdx int, hasTrailingSep bool, sepLen int) ([]leafSpan, error) {
	coreEnd := end
	if hasTrailingSep {
		coreEnd = end - sepLen
	}
	coreCount, err := c.tok.Count(string(runes[start:coreEnd]))
	if err != nil {
		return nil, chunkerr.Tokenizer(component, "counting tokens", err)
	}
	if coreCount <= c.chunkSize {
		return []leafSpan{{start, end}}, nil
	}

	if sepIdx >= len(c.separators) {
		return nil, chunkerr.Configuration(component, "separator list exhausted without a character-level fallback", nil)
	}
	sep := c.separators[sepIdx]
	if sep == "" {
		return c.splitByChars(runes, start, end)
	}

	pieces := splitOnSeparator(runes, start, end, []rune(sep))
	var out []leafSpan
	for _, p := range pieces {
		if p.start >= p.end {
			continue // discard empty pieces
		}
		sub, err := c.splitNode(runes, p.start, p.end, sepIdx+1, p.hasSep, len([]rune(sep)))
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// splitByChars is the terminal fallback: it binary-searches, per piece, the
// longest prefix that still fits chunkSize tokens, guaranteeing termination
// and a hard per-leaf size bound regardless of tokenizer shape.
func (c *Chunker) splitByChars(runes []rune, start, end int) ([]leafSpan, error) {
	var out []leafSpan
	cur := start
	for cur < end {
		lo, hi := cur+1, end
		best := cur + 1
		for lo <= hi {
			mid := (lo + hi) / 2
			count, err := c.tok.Count(string(runes[cur:mid]))
			if err != nil {
				return nil, chunkerr.Tokenizer(component, "counting tokens during character fallback", err)
			}
			if count <= c.chunkSize {
				best = mid
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
		out = append(out, leafSpan{cur, best})
		cur = best
	}
	if c.diagnostics != nil && len(out) > 0 {
		c.diagnostics("recursive chunker: fell back to character-level splitting for an oversized piece")
	}
	return out, nil
}

// pack greedily merges adjacent leaves whose combined text still fits
// chunkSize tokens, so runs of small leaves (e.g. single words) aren't each
// emitted as their own chunk.
func (c *Chunker) pack(runes []rune, leaves []leafSpan) ([]chunk.Chunk, error) {
	var chunks []chunk.Chunk
	i := 0
	for i < len(leaves) {
		groupStart := leaves[i].start
		groupEnd := leaves[i].end
		j := i + 1
		for j < len(leaves) {
			count, err := c.tok.Count(string(runes[groupStart:leaves[j].end]))
			if err != nil {
				return nil, chunkerr.Tokenizer(component, "counting tokens while packing", err)
			}
			if count > c.chunkSize {
				break
			}
			groupEnd = leaves[j].end
			j++
		}

		text := string(runes[groupStart:groupEnd])
		count, err := c.tok.Count(text)
		if err != nil {
			return nil, chunkerr.Tokenizer(component, "counting tokens", err)
		}
		chunks = append(chunks, chunk.Chunk{
			ID:         chunk.NewID(),
			Text:       text,
			StartIndex: groupStart,
			EndIndex:   groupEnd,
			TokenCount: count,
		})
		i = j
	}
	return chunks, nil
}

// splitOnSeparator splits runes[start:end] on every occurrence of sep,
// attaching each separator to the end of the piece that precedes it so
// concatenating pieces in order reproduces the original span exactly. The
// final piece (no trailing separator) has hasSep == false.
func splitOnSeparator(runes []rune, start, end int, sep []rune) []pieceSpan {
	var pieces []pieceSpan
	cur := start
	for {
		idx := indexRunes(runes, cur, end, sep)
		if idx == -1 {
			if cur < end {
				pieces = append(pieces, pieceSpan{cur, end, false})
			}
			return pieces
		}
		pieceEnd := idx + len(sep)
		pieces = append(pieces, pieceSpan{cur, pieceEnd, true})
		cur = pieceEnd
	}
}

// indexRunes returns the rune index of the first occurrence of needle
// within runes[start:end], or -1 if absent.
func indexRunes(runes []rune, start, end int, needle []rune) int {
	n := len(needle)
	if n == 0 {
		return -1
	}
	for i := start; i+n <= end; i++ {
		match := true
		for j := 0; j < n; j++ {
			if runes[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
