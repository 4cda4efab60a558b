// Package porter defines the output-writing collaborator contract: the
// final CHOMP stage, persisting a chunk sequence somewhere.
package porter

import (
	"context"

	"github.com/wyvernzora/chonkie/pkg/chunk"
)

// Porter writes chunks to path, returning whether the export succeeded.
// A false return without an error signals a no-op export (e.g. nothing to
// write); an error signals a hard failure.
type Porter func(ctx context.Context, chunks []chunk.Chunk, path string) (bool, error)

// Record is the chunk serialization spec.md §6 defines: a map with the
// chunk's fields, context/embedding present only when set. Deserializing a
// Record and re-serializing it must reproduce an identical map.
type Record struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	StartIndex int       `json:"start_index"`
	EndIndex   int       `json:"end_index"`
	TokenCount int       `json:"token_count"`
	Context    *string   `json:"context,omitempty"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// ToRecord converts a chunk.Chunk to its wire Record form.
func ToRecord(c chunk.Chunk) Record {
	return Record{
		ID:         c.ID,
		Text:       c.Text,
		StartIndex: c.StartIndex,
		EndIndex:   c.EndIndex,
		TokenCount: c.TokenCount,
		Context:    c.Context,
		Embedding:  c.Embedding,
	}
}
