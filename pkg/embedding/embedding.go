// Package embedding defines the embedding model collaborator contract used
// by the semantic and late chunkers. It ships no concrete provider: wiring
// an actual embedding API is out of scope for this module (see spec
// Non-goals), same as the Fetcher/Chef/Porter contracts in their own
// packages.
package embedding

import "context"

// Model embeds text into fixed-dimension vectors.
type Model interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one embedding vector per input text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the length of vectors this model produces.
	Dimension() int
}

// TokenCounter is an optional capability: a Model that can report token
// counts the way it would bill or bound its own input. The semantic and late
// chunkers do not consult it; they size chunks with their tokenizer.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// TokenEmbedder is an optional capability beyond Model: a model that can
// embed an entire text in a single pass and return one embedding per token,
// in the same order as tokenizer.AlignedEncoder's token ranges. The late
// chunker uses this to pool a chunk's token span into a chunk embedding that
// already carries full-document context, unlike the semantic chunker, which
// embeds each sentence on its own.
type TokenEmbedder interface {
	EmbedTokens(ctx context.Context, text string) ([][]float32, error)
}
