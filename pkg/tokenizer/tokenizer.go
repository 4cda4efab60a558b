// Package tokenizer defines the token-counting contract every chunker in
// this module depends on, plus the optional Encoder and AlignedEncoder
// capability interfaces that some chunkers additionally require.
package tokenizer

// Tokenizer counts tokens in text. It is the minimum contract every
// chunker needs; chunkers that must split or reconstruct token streams
// additionally require the Encoder (or AlignedEncoder) capability below.
type Tokenizer interface {
	// Count returns the number of tokens in s.
	Count(s string) (int, error)

	// CountBatch returns the token count for each string in texts, in order.
	// Implementations backed by a model-level tokenizer may override the
	// naive per-item loop for efficiency.
	CountBatch(texts []string) ([]int, error)
}

// Encoder is an optional capability: a Tokenizer that can turn text into a
// token-ID stream and back. The token chunker requires this round trip to
// cut text at exact token boundaries.
type Encoder interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
}

// AlignedEncoder is an optional capability beyond Encoder: it reports, for
// each token produced by Encode, the rune range of the source text that
// token came from. The late chunker requires this to map token-level pooled
// embeddings back onto character offsets.
type AlignedEncoder interface {
	Encoder

	// EncodeAligned returns, alongside the token IDs, the [start,end) rune
	// range within text that each token corresponds to. len(ranges) ==
	// len(ids), and ranges are in document order with no gaps or overlaps
	// covering [0, len([]rune(text))).
	EncodeAligned(text string) (ids []int, ranges [][2]int, err error)
}

// TokenCounter is a function that counts tokens in a string. It's the
// minimal building block MakeTokenizer needs to produce a Tokenizer.
type TokenCounter func(text string) (int, error)

// tokenizer is the default Tokenizer implementation, backed by a single
// TokenCounter function and a naive per-item CountBatch loop.
type tokenizer struct {
	counter TokenCounter
}

// Count implements Tokenizer.
func (t *tokenizer) Count(s string) (int, error) {
	return t.counter(s)
}

// CountBatch implements Tokenizer by looping Count.
func (t *tokenizer) CountBatch(texts []string) ([]int, error) {
	out := make([]int, len(texts))
	for i, s := range texts {
		n, err := t.counter(s)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// MakeTokenizer builds a Tokenizer from a bare TokenCounter function.
func MakeTokenizer(counter TokenCounter) Tokenizer {
	return &tokenizer{counter: counter}
}
