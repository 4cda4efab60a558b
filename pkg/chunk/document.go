package chunk

// Document is a single source text plus the chunks produced from it, and
// whatever metadata a Fetcher/Chef chose to attach along the way.
type Document struct {
	// ID identifies the document. Not stable across runs.
	ID string

	// Content is the full, post-processing text the chunks were cut from.
	Content string

	// Chunks holds the chunks produced for this document, in source order.
	Chunks []Chunk

	// Metadata carries frontmatter, fetcher provenance, or other
	// Chef/Fetcher-supplied key-value data through the pipeline.
	Metadata map[string]any

	// Source identifies where Content came from (a file path, a URL); nil
	// when the document wasn't fetched from an identifiable location.
	Source *string
}

// NewDocument constructs a Document with a fresh ID and non-nil Metadata.
func NewDocument(content string) *Document {
	return &Document{
		ID:       NewID(),
		Content:  content,
		Metadata: make(map[string]any),
	}
}
