package sentencechunker

import (
	"testing"

	"github.com/wyvernzora/chonkie/pkg/chunk"
	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	"github.com/wyvernzora/chonkie/pkg/tokenizer/builtin"
)

func TestNew_ChunkSizeInvalid(t *testing.T) {
	_, err := New(WithChunkSize(0), WithTokenizer(builtin.NewCharCountTokenizer()))
	if !chunkerr.IsReason(err, chunkerr.ReasonChunkSizeInvalid) {
		t.Fatalf("expected ReasonChunkSizeInvalid, got %v", err)
	}
}

func TestNew_MissingTokenizer(t *testing.T) {
	_, err := New(WithChunkSize(10))
	if err == nil {
		t.Fatal("expected error for missing tokenizer")
	}
}

// S3: sentence chunker.
func TestChunk_S3(t *testing.T) {
	c, err := New(WithChunkSize(12), WithTokenizer(builtin.NewCharCountTokenizer()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := "One. Two. Three. Four."
	if len([]rune(text)) != 22 {
		t.Fatalf("fixture text must be 22 runes, got %d", len([]rune(text)))
	}

	chunks, err := c.Chunk(text)
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %#v", len(chunks), chunks)
	}
	if chunks[0].StartIndex != 0 || chunks[0].EndIndex != 10 {
		t.Errorf("chunk 0 span = [%d,%d), want [0,10)", chunks[0].StartIndex, chunks[0].EndIndex)
	}
	if chunks[1].StartIndex != 10 || chunks[1].EndIndex != 22 {
		t.Errorf("chunk 1 span = [%d,%d), want [10,22)", chunks[1].StartIndex, chunks[1].EndIndex)
	}
	if err := chunk.ValidateCoverage(text, chunks); err != nil {
		t.Errorf("ValidateCoverage: %v", err)
	}
}

func TestChunk_OversizedSentenceGetsOwnChunk(t *testing.T) {
	var warnings []string
	c, err := New(
		WithChunkSize(5),
		WithTokenizer(builtin.NewCharCountTokenizer()),
		WithDiagnostics(func(msg string) { warnings = append(warnings, msg) }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := "Short. This one single sentence is much longer than the budget."
	chunks, err := c.Chunk(text)
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if len(warnings) == 0 {
		t.Error("expected a diagnostic warning for the oversized sentence")
	}
	if err := chunk.ValidateCoverage(text, chunks); err != nil {
		t.Errorf("ValidateCoverage: %v", err)
	}
}

func TestChunk_MinSentencesExtendsPastChunkSize(t *testing.T) {
	c, err := New(
		WithChunkSize(5),
		WithMinSentences(2),
		WithTokenizer(builtin.NewCharCountTokenizer()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := "One. Two. Three. Four."
	chunks, err := c.Chunk(text)
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	for i, ch := range chunks {
		if i == len(chunks)-1 {
			continue
		}
		sents, err := New(WithChunkSize(1000), WithTokenizer(builtin.NewCharCountTokenizer()))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		got, err := sents.Chunk(ch.Text)
		if err != nil {
			t.Fatalf("Chunk: %v", err)
		}
		if len(got) < 2 {
			t.Errorf("chunk %d (%q) has fewer than min_sentences_per_chunk=2 sentences", i, ch.Text)
		}
	}
	if err := chunk.ValidateCoverage(text, chunks); err != nil {
		t.Errorf("ValidateCoverage: %v", err)
	}
}

func TestChunk_ApproximateAvoidsTokenizer(t *testing.T) {
	c, err := New(
		WithChunkSize(5),
		WithApproximate(true),
		WithTokenizer(&panicTokenizer{}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	chunks, err := c.Chunk("One. Two. Three.")
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
}

// panicTokenizer panics if Count is ever called, proving WithApproximate
// bypasses per-sentence tokenizer calls.
type panicTokenizer struct{}

func (*panicTokenizer) Count(string) (int, error) {
	panic("Count should not be called in approximate mode")
}

func (*panicTokenizer) CountBatch([]string) ([]int, error) {
	panic("CountBatch should not be called in approximate mode")
}

func TestChunk_Empty(t *testing.T) {
	c, err := New(WithChunkSize(10), WithTokenizer(builtin.NewCharCountTokenizer()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	chunks, err := c.Chunk("")
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty input, got %#v", chunks)
	}
}
