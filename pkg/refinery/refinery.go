// Package refinery implements post-chunk transformations that enrich or
// rearrange a chunk sequence without touching the source text: prepending
// or appending neighboring context, merging chunks that are too small to
// stand alone, and (as an addition beyond the core modes) annotating
// chunks with caller-supplied metadata.
package refinery

import (
	"context"
	"fmt"
	"strings"

	"github.com/wyvernzora/chonkie/pkg/chunk"
	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	"github.com/wyvernzora/chonkie/pkg/tokenizer"
)

const component = "overlap refinery"

// Mode selects which transformation Refine applies.
type Mode string

const (
	// ModePrefix prepends the tail of the previous chunk into this chunk's
	// Context.
	ModePrefix Mode = "prefix"

	// ModeSuffix appends the head of the next chunk into this chunk's
	// Context.
	ModeSuffix Mode = "suffix"

	// ModeBoth applies both ModePrefix and ModeSuffix.
	ModeBoth Mode = "both"

	// ModeMerge concatenates runs of adjacent chunks whose combined token
	// count still fits within MinOverlap into a single chunk.
	ModeMerge Mode = "merge"

	// ModeAnnotate attaches caller-supplied metadata to each chunk's
	// Context via an Annotator. Not part of the core CHOMP overlap modes;
	// added so the refinery stage can also serve lightweight tagging
	// without a separate pipeline stage.
	ModeAnnotate Mode = "annotate"
)

// Annotator produces the Context string to attach to a single chunk in
// ModeAnnotate.
type Annotator func(ctx context.Context, c chunk.Chunk) (string, error)

type options struct {
	mode        Mode
	contextSize int
	minOverlap  int
	tok         tokenizer.Tokenizer
	annotator   Annotator
}

// Option configures a Refinery.
type Option func(*options)

// WithMode selects the refinement mode. Required.
func WithMode(mode Mode) Option {
	return func(o *options) { o.mode = mode }
}

// WithContextSize sets how many tokens of neighboring context to carry in
// prefix/suffix/both mode. Required by those modes, must be > 0.
func WithContextSize(tokens int) Option {
	return func(o *options) { o.contextSize = tokens }
}

// WithMinOverlap sets the token budget under which adjacent chunks are
// merged in merge mode. Required by that mode, must be > 0.
func WithMinOverlap(tokens int) Option {
	return func(o *options) { o.minOverlap = tokens }
}

// WithTokenizer sets the tokenizer used to trim context windows to an exact
// token count and to re-count tokens after a merge. Required by every mode
// except ModeAnnotate.
func WithTokenizer(tok tokenizer.Tokenizer) Option {
	return func(o *options) { o.tok = tok }
}

// WithAnnotator sets the callback used in ModeAnnotate. Required by that
// mode.
func WithAnnotator(annotator Annotator) Option {
	return func(o *options) { o.annotator = annotator }
}

// Refinery transforms a chunk sequence in place of the chunker, per Mode.
type Refinery struct {
	mode        Mode
	contextSize int
	minOverlap  int
	tok         tokenizer.Tokenizer
	enc         tokenizer.Encoder
	annotator   Annotator
}

// New builds a Refinery.
func New(opts ...Option) (*Refinery, error) {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch cfg.mode {
	case ModePrefix, ModeSuffix, ModeBoth:
		if cfg.contextSize <= 0 {
			return nil, chunkerr.WithReason(chunkerr.KindInput, chunkerr.ReasonChunkSizeInvalid,
				component, fmt.Sprintf("context size must be > 0, got %d", cfg.contextSize), nil)
		}
	case ModeMerge:
		if cfg.minOverlap <= 0 {
			return nil, chunkerr.WithReason(chunkerr.KindInput, chunkerr.ReasonOverlapInvalid,
				component, fmt.Sprintf("min overlap must be > 0, got %d", cfg.minOverlap), nil)
		}
	case ModeAnnotate:
		if cfg.annotator == nil {
			return nil, chunkerr.Configuration(component, "annotate mode requires an Annotator", nil)
		}
	default:
		return nil, chunkerr.Configuration(component, fmt.Sprintf("unknown mode %q", cfg.mode), nil)
	}

	var enc tokenizer.Encoder
	if cfg.mode != ModeAnnotate {
		if cfg.tok == nil {
			return nil, chunkerr.Configuration(component, "a tokenizer is required", nil)
		}
		var ok bool
		enc, ok = cfg.tok.(tokenizer.Encoder)
		if !ok {
			return nil, chunkerr.WithReason(chunkerr.KindTokenizer, chunkerr.ReasonTokenizerRoundTripUnsupported,
				component, "tokenizer does not implement Encoder, required by this mode", nil)
		}
	}

	return &Refinery{
		mode:        cfg.mode,
		contextSize: cfg.contextSize,
		minOverlap:  cfg.minOverlap,
		tok:         cfg.tok,
		enc:         enc,
		annotator:   cfg.annotator,
	}, nil
}

// Refine applies the configured mode to chunks, returning a new slice. The
// input slice is never mutated.
func (r *Refinery) Refine(ctx context.Context, chunks []chunk.Chunk) ([]chunk.Chunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	switch r.mode {
	case ModePrefix:
		return r.applyPrefix(chunks)
	case ModeSuffix:
		return r.applySuffix(chunks)
	case ModeBoth:
		withPrefix, err := r.applyPrefix(chunks)
		if err != nil {
			return nil, err
		}
		return r.applySuffix(withPrefix)
	case ModeMerge:
		return r.applyMerge(chunks)
	case ModeAnnotate:
		return r.applyAnnotate(ctx, chunks)
	default:
		return nil, chunkerr.Configuration(component, fmt.Sprintf("unknown mode %q", r.mode), nil)
	}
}

func (r *Refinery) applyPrefix(chunks []chunk.Chunk) ([]chunk.Chunk, error) {
	out := make([]chunk.Chunk, len(chunks))
	copy(out, chunks)
	for i := 1; i < len(out); i++ {
		tail, err := lastNTokens(r.enc, chunks[i-1].Text, r.contextSize)
		if err != nil {
			return nil, chunkerr.Tokenizer(component, "trimming prefix context", err)
		}
		out[i].Context = mergeContext(out[i].Context, tail, true)
	}
	return out, nil
}

func (r *Refinery) applySuffix(chunks []chunk.Chunk) ([]chunk.Chunk, error) {
	out := make([]chunk.Chunk, len(chunks))
	copy(out, chunks)
	for i := 0; i < len(out)-1; i++ {
		head, err := firstNTokens(r.enc, chunks[i+1].Text, r.contextSize)
		if err != nil {
			return nil, chunkerr.Tokenizer(component, "trimming suffix context", err)
		}
		out[i].Context = mergeContext(out[i].Context, head, false)
	}
	return out, nil
}

// mergeContext appends newText to an existing Context, or sets it if absent.
// prepend controls whether newText goes before or after the existing value,
// so prefix and suffix refinements compose correctly under ModeBoth.
func mergeContext(existing *string, newText string, prepend bool) *string {
	if newText == "" && existing == nil {
		return existing
	}
	var combined string
	switch {
	case existing == nil:
		combined = newText
	case prepend:
		combined = newText + *existing
	default:
		combined = *existing + newText
	}
	return &combined
}

func lastNTokens(enc tokenizer.Encoder, text string, n int) (string, error) {
	ids, err := enc.Encode(text)
	if err != nil {
		return "", err
	}
	if len(ids) > n {
		ids = ids[len(ids)-n:]
	}
	return enc.Decode(ids)
}

func firstNTokens(enc tokenizer.Encoder, text string, n int) (string, error) {
	ids, err := enc.Encode(text)
	if err != nil {
		return "", err
	}
	if len(ids) > n {
		ids = ids[:n]
	}
	return enc.Decode(ids)
}

// applyMerge greedily concatenates runs of adjacent chunks whose combined
// token count still fits within minOverlap, then re-counts the merged
// chunk's tokens from its concatenated text.
func (r *Refinery) applyMerge(chunks []chunk.Chunk) ([]chunk.Chunk, error) {
	var out []chunk.Chunk
	i := 0
	for i < len(chunks) {
		start := chunks[i].StartIndex
		end := chunks[i].EndIndex
		sum := chunks[i].TokenCount
		var sb strings.Builder
		sb.WriteString(chunks[i].Text)

		j := i + 1
		for j < len(chunks) {
			if sum+chunks[j].TokenCount > r.minOverlap {
				break
			}
			sum += chunks[j].TokenCount
			end = chunks[j].EndIndex
			sb.WriteString(chunks[j].Text)
			j++
		}

		if j == i+1 {
			out = append(out, chunks[i])
			i = j
			continue
		}

		mergedText := sb.String()
		count, err := r.tok.Count(mergedText)
		if err != nil {
			return nil, chunkerr.Tokenizer(component, "re-counting tokens of merged chunk", err)
		}
		out = append(out, chunk.Chunk{
			ID:         chunk.NewID(),
			Text:       mergedText,
			StartIndex: start,
			EndIndex:   end,
			TokenCount: count,
		})
		i = j
	}
	return out, nil
}

func (r *Refinery) applyAnnotate(ctx context.Context, chunks []chunk.Chunk) ([]chunk.Chunk, error) {
	out := make([]chunk.Chunk, len(chunks))
	copy(out, chunks)
	for i := range out {
		text, err := r.annotator(ctx, out[i])
		if err != nil {
			return nil, chunkerr.Collaborator(component, "annotating chunk", err)
		}
		if text != "" {
			out[i].Context = &text
		}
	}
	return out, nil
}
