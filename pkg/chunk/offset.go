package chunk

import "fmt"

// Offsets are Unicode scalar values (runes), not bytes, everywhere in this
// module. A single rune-offset unit keeps Chunk.StartIndex/EndIndex directly
// comparable across every chunker, refinery, and tokenizer, regardless of
// which one produced them.

// Validate checks a single chunk's offsets against a rune slice of its
// source text: StartIndex <= EndIndex <= len(source), and the slice of
// source at [StartIndex:EndIndex) equals []rune(c.Text).
func Validate(source []rune, c Chunk) error {
	if c.StartIndex < 0 || c.EndIndex < c.StartIndex || c.EndIndex > len(source) {
		return fmt.Errorf("chunk %s: invalid span [%d,%d) for source of length %d",
			c.ID, c.StartIndex, c.EndIndex, len(source))
	}
	want := string(source[c.StartIndex:c.EndIndex])
	if want != c.Text {
		return fmt.Errorf("chunk %s: text does not match source span [%d,%d)", c.ID, c.StartIndex, c.EndIndex)
	}
	return nil
}

// ValidateCoverage checks that chunks, taken in order, exactly cover the
// source with no gaps and no overlaps: chunks[0].StartIndex == 0,
// chunks[i].EndIndex == chunks[i+1].StartIndex, and the last chunk's
// EndIndex == len([]rune(source)).
//
// Chunkers that intentionally discard content (recursive chunker's
// empty-piece policy aside, which never produces a gap) must not be
// checked with this helper; it is for chunkers whose contract is full
// coverage, per the chunking invariant in spec.md §8.
func ValidateCoverage(source string, chunks []Chunk) error {
	runes := []rune(source)
	if len(chunks) == 0 {
		if len(runes) == 0 {
			return nil
		}
		return fmt.Errorf("no chunks produced for non-empty source of length %d", len(runes))
	}

	if chunks[0].StartIndex != 0 {
		return fmt.Errorf("first chunk starts at %d, want 0", chunks[0].StartIndex)
	}
	for i, c := range chunks {
		if err := Validate(runes, c); err != nil {
			return err
		}
		if i > 0 && chunks[i-1].EndIndex != c.StartIndex {
			return fmt.Errorf("gap or overlap between chunk %d (end %d) and chunk %d (start %d)",
				i-1, chunks[i-1].EndIndex, i, c.StartIndex)
		}
	}
	if last := chunks[len(chunks)-1]; last.EndIndex != len(runes) {
		return fmt.Errorf("last chunk ends at %d, want %d", last.EndIndex, len(runes))
	}
	return nil
}
