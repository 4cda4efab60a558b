package builtin

import (
	"github.com/wyvernzora/chonkie/pkg/tokenizer"
)

type charCountConfig struct {
	charsPerToken float64
}

// CharacterCountOption configures the character count tokenizer.
type CharacterCountOption func(*charCountConfig)

// WithCharsPerToken sets the average characters per token ratio, turning the
// tokenizer from an exact rune counter into a rough estimator.
// Must be greater than 0. Default is 1.0 (exact rune count).
//
// Common values:
//   - 1.0: one token per rune (default, exact character count)
//   - 4.0: standard English-text estimate
//   - 3.0: dense technical content
func WithCharsPerToken(cpt float64) CharacterCountOption {
	return func(cfg *charCountConfig) {
		if cpt > 0 {
			cfg.charsPerToken = cpt
		}
	}
}

// NewCharCountTokenizer returns a Tokenizer that counts Unicode runes (not
// bytes, so multi-byte characters count correctly) and divides by the
// configured characters-per-token ratio.
//
// Parameters:
//   - opts: Optional configuration via WithCharsPerToken
//
// Default configuration:
//   - charsPerToken: 1.0
//
// Example:
//
//	tok := NewCharCountTokenizer()
//	count, _ := tok.Count("Hello, world!") // 13 tokens with default ratio
func NewCharCountTokenizer(opts ...CharacterCountOption) tokenizer.Tokenizer {
	cfg := &charCountConfig{
		charsPerToken: 1.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return tokenizer.MakeTokenizer(func(s string) (int, error) {
		return int(float64(len([]rune(s))) / cfg.charsPerToken), nil
	})
}
