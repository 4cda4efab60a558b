// Package chunk defines the data model shared by every chunker, refinery,
// and porter in the module: Chunk, Document, and the internal Sentence type.
package chunk

import "github.com/google/uuid"

// Chunk is a contiguous, coverage-preserving slice of a Document's content.
//
// StartIndex and EndIndex are Unicode scalar (rune) offsets into the owning
// Document's Content, with the half-open range [StartIndex, EndIndex)
// satisfying []rune(Content)[StartIndex:EndIndex] == []rune(Text).
type Chunk struct {
	// ID identifies this chunk. Not stable across runs; see NewID.
	ID string

	// Text is the chunk's own content, exclusive of any refinery-added context.
	Text string

	// StartIndex is the rune offset of Text's first rune within the source.
	StartIndex int

	// EndIndex is the rune offset one past Text's last rune within the source.
	EndIndex int

	// TokenCount is the token count of Text as measured by the tokenizer that
	// produced this chunk. It does not include Context.
	TokenCount int

	// Context holds refinery-added material (overlap windows, annotations).
	// Nil when no refinery has touched the chunk.
	Context *string

	// Embedding is populated by the semantic and late chunkers, and left nil
	// by chunkers that don't produce one.
	Embedding []float32
}

// NewID generates a fresh, run-unique chunk identifier.
func NewID() string {
	return uuid.NewString()
}

// Len returns the rune length of the chunk's span, i.e. EndIndex-StartIndex.
func (c Chunk) Len() int {
	return c.EndIndex - c.StartIndex
}

// FullText returns Context+Text if Context is set, otherwise just Text.
// This is what a Porter should serialize as the embeddable payload.
func (c Chunk) FullText() string {
	if c.Context == nil {
		return c.Text
	}
	return *c.Context + c.Text
}
