package builtin

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/wyvernzora/chonkie/pkg/tokenizer"
)

type tiktokenConfig struct {
	encodingName string // e.g. "gpt-4o", "cl100k_base", "o200k_base"
}

// TiktokenOption configures the tiktoken tokenizer.
type TiktokenOption func(*tiktokenConfig)

// WithEncoding sets the tiktoken encoding to use.
// Must be a valid encoding name recognized by tiktoken-go.
//
// Common encodings:
//   - "o200k_base": GPT-4o and newer models (default)
//   - "cl100k_base": GPT-4, GPT-3.5-turbo
//   - "p50k_base": Older GPT-3 models
//   - "gpt2": GPT-2 models
//
// See tiktoken documentation for the full list of supported encodings.
func WithEncoding(name string) TiktokenOption {
	return func(cfg *tiktokenConfig) {
		if name != "" {
			cfg.encodingName = name
		}
	}
}

// tiktokenTokenizer wraps a tiktoken-go encoding, implementing Tokenizer,
// tokenizer.Encoder, and tokenizer.AlignedEncoder.
type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenTokenizer returns a Tokenizer backed by tiktoken-go, which provides
// accurate token counting for OpenAI models. The returned value also
// satisfies tokenizer.Encoder and tokenizer.AlignedEncoder, so it works with
// the token and late chunkers as well as plain counting.
//
// Parameters:
//   - opts: Optional configuration via WithEncoding
//
// Default configuration:
//   - encodingName: "o200k_base" (for GPT-4o and newer)
//
// Returns an error if the specified encoding cannot be loaded.
//
// Example:
//
//	tok, err := NewTiktokenTokenizer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	count, _ := tok.Count("Hello, world!")
func NewTiktokenTokenizer(opts ...TiktokenOption) (tokenizer.Tokenizer, error) {
	cfg := &tiktokenConfig{
		encodingName: "o200k_base",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	enc, err := tiktoken.GetEncoding(cfg.encodingName)
	if err != nil {
		return nil, fmt.Errorf("tiktoken: failed to load encoding %q: %w", cfg.encodingName, err)
	}

	return &tiktokenTokenizer{enc: enc}, nil
}

// Count implements tokenizer.Tokenizer.
func (t *tiktokenTokenizer) Count(s string) (int, error) {
	return len(t.enc.Encode(s, nil, nil)), nil
}

// CountBatch implements tokenizer.Tokenizer.
func (t *tiktokenTokenizer) CountBatch(texts []string) ([]int, error) {
	out := make([]int, len(texts))
	for i, s := range texts {
		out[i] = len(t.enc.Encode(s, nil, nil))
	}
	return out, nil
}

// Encode implements tokenizer.Encoder.
func (t *tiktokenTokenizer) Encode(text string) ([]int, error) {
	return t.enc.Encode(text, nil, nil), nil
}

// Decode implements tokenizer.Encoder.
func (t *tiktokenTokenizer) Decode(ids []int) (string, error) {
	return t.enc.Decode(ids), nil
}

// EncodeAligned implements tokenizer.AlignedEncoder by decoding each token
// individually, accumulating byte offsets, and mapping them to rune offsets.
// A token that ends inside a multi-byte character is credited with that
// character; the token(s) completing it get an empty range. This costs one
// Decode call per token, which is acceptable since it's only exercised by the
// late chunker, whose whole-document-then-pool strategy already pays for a
// full encode.
func (t *tiktokenTokenizer) EncodeAligned(text string) ([]int, [][2]int, error) {
	ids := t.enc.Encode(text, nil, nil)
	ranges := make([][2]int, len(ids))

	// runeAt[b] is the number of runes that start before byte offset b.
	runeAt := make([]int, len(text)+1)
	for b := 0; b < len(text); b++ {
		runeAt[b+1] = runeAt[b]
		if utf8.RuneStart(text[b]) {
			runeAt[b+1]++
		}
	}

	cursor := 0
	for i, id := range ids {
		end := min(cursor+len(t.enc.Decode([]int{id})), len(text))
		ranges[i] = [2]int{runeAt[cursor], runeAt[end]}
		cursor = end
	}

	return ids, ranges, nil
}
