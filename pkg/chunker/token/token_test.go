package token

import (
	"testing"

	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	"github.com/wyvernzora/chonkie/pkg/tokenizer/builtin"
)

func TestNew_ChunkSizeInvalid(t *testing.T) {
	_, err := New(WithChunkSize(0), WithTokenizer(builtin.NewCharEncoderTokenizer()))
	if !chunkerr.IsReason(err, chunkerr.ReasonChunkSizeInvalid) {
		t.Fatalf("expected ReasonChunkSizeInvalid, got %v", err)
	}
}

func TestNew_OverlapInvalid(t *testing.T) {
	_, err := New(WithChunkSize(10), WithChunkOverlap(10), WithTokenizer(builtin.NewCharEncoderTokenizer()))
	if !chunkerr.IsReason(err, chunkerr.ReasonOverlapInvalid) {
		t.Fatalf("expected ReasonOverlapInvalid, got %v", err)
	}
}

func TestNew_MissingTokenizer(t *testing.T) {
	_, err := New(WithChunkSize(10))
	if err == nil {
		t.Fatal("expected error for missing tokenizer")
	}
}

func TestNew_TokenizerLacksEncoder(t *testing.T) {
	_, err := New(WithChunkSize(10), WithTokenizer(builtin.NewCharCountTokenizer()))
	if !chunkerr.IsReason(err, chunkerr.ReasonTokenizerRoundTripUnsupported) {
		t.Fatalf("expected ReasonTokenizerRoundTripUnsupported, got %v", err)
	}
}

// S1: token chunker, character tokenizer.
func TestChunk_S1(t *testing.T) {
	c, err := New(
		WithChunkSize(10),
		WithChunkOverlap(2),
		WithTokenizer(builtin.NewCharEncoderTokenizer()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := "Hello world. This is a test."
	if len([]rune(text)) != 28 {
		t.Fatalf("fixture text must be 28 runes, got %d", len([]rune(text)))
	}

	chunks, err := c.Chunk(text)
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}

	// The spec's own S1 text is illustrative ("adjust textually but preserve
	// coverage"); we pin down the endpoints and the structural invariants
	// (4 chunks, step of chunk_size-chunk_overlap, exact text/offset
	// consistency) rather than every intermediate literal string.
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d: %#v", len(chunks), chunks)
	}

	runes := []rune(text)
	for i, ch := range chunks {
		if ch.ID == "" {
			t.Errorf("chunk %d: expected non-empty ID", i)
		}
		if string(runes[ch.StartIndex:ch.EndIndex]) != ch.Text {
			t.Errorf("chunk %d: text %q does not match source span [%d,%d)", i, ch.Text, ch.StartIndex, ch.EndIndex)
		}
		if i > 0 && ch.StartIndex != chunks[i-1].StartIndex+8 {
			t.Errorf("chunk %d starts at %d, want %d (step of 8)", i, ch.StartIndex, chunks[i-1].StartIndex+8)
		}
	}

	if chunks[0].StartIndex != 0 || chunks[0].EndIndex != 10 || chunks[0].Text != "Hello worl" {
		t.Errorf("first chunk = %+v, want [0,10) %q", chunks[0], "Hello worl")
	}
	last := chunks[len(chunks)-1]
	if last.StartIndex != 24 || last.EndIndex != 28 || last.Text != "est." {
		t.Errorf("last chunk = %+v, want [24,28) %q", last, "est.")
	}
}

func TestChunk_Empty(t *testing.T) {
	c, err := New(WithChunkSize(10), WithTokenizer(builtin.NewCharEncoderTokenizer()))
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

func TestChunk_ShorterThanChunkSize(t *testing.T) {
	c, err := New(WithChunkSize(100), WithTokenizer(builtin.NewCharEncoderTokenizer()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	chunks, err := c.Chunk("short text")
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "short text" {
		t.Fatalf("expected single whole-text chunk, got %#v", chunks)
	}
}
