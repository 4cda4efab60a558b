// Package tokenizer provides token counting for chunk sizing, with optional
// Encoder and AlignedEncoder capabilities for chunkers that need to cut text
// at exact token boundaries or map tokens back onto character offsets.
//
// # Tokenizer Interface
//
//	type Tokenizer interface {
//	    Count(s string) (int, error)
//	    CountBatch(texts []string) ([]int, error)
//	}
//
// # Optional capabilities
//
// A Tokenizer may additionally implement Encoder (Encode/Decode a token-ID
// round trip) or AlignedEncoder (Encoder plus per-token character ranges).
// Chunkers that require one of these perform a type assertion against the
// Tokenizer they were given and fail with chunkerr.KindTokenizer if absent.
//
// # Built-in Tokenizers
//
// The builtin subpackage provides four implementations:
//
//  1. NewTiktokenTokenizer: wraps tiktoken-go, implements Tokenizer, Encoder,
//     and AlignedEncoder.
//  2. NewWordCountTokenizer: approximates tokens via whitespace word count.
//  3. NewCharCountTokenizer: approximates tokens via rune count.
//  4. NewCharEncoderTokenizer: one token per rune, implements Tokenizer,
//     Encoder, and AlignedEncoder without external data.
//
// # Usage Example
//
//	tok, err := builtin.NewTiktokenTokenizer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	count, err := tok.Count("Hello, world!")
package tokenizer
