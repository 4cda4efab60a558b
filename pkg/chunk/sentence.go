package chunk

// Sentence is an internal unit produced by pkg/sentence and consumed by the
// sentence, semantic, and late chunkers. It is not part of a Document's
// public output.
type Sentence struct {
	Text       string
	StartIndex int
	EndIndex   int
	TokenCount int

	// Embedding is populated by chunkers that need per-sentence vectors
	// (semantic, late) and left nil otherwise.
	Embedding []float32
}

// Len returns the rune length of the sentence's span.
func (s Sentence) Len() int {
	return s.EndIndex - s.StartIndex
}
