package builtin

import (
	"fmt"

	"github.com/wyvernzora/chonkie/pkg/tokenizer"
)

// charEncoderTokenizer treats each Unicode scalar value as exactly one
// token, with the token ID equal to the rune value. It implements
// Tokenizer, tokenizer.Encoder, and tokenizer.AlignedEncoder, making it a
// lossless round-trip tokenizer suitable for exercising the token and late
// chunkers without an external tokenizer dependency.
type charEncoderTokenizer struct{}

// NewCharEncoderTokenizer returns a Tokenizer that encodes text one rune per
// token, with an exact, lossless Encode/Decode round trip and per-token
// alignment. Unlike NewCharCountTokenizer, this also implements
// tokenizer.Encoder and tokenizer.AlignedEncoder.
func NewCharEncoderTokenizer() tokenizer.Tokenizer {
	return charEncoderTokenizer{}
}

func (charEncoderTokenizer) Count(s string) (int, error) {
	return len([]rune(s)), nil
}

func (t charEncoderTokenizer) CountBatch(texts []string) ([]int, error) {
	out := make([]int, len(texts))
	for i, s := range texts {
		out[i] = len([]rune(s))
	}
	return out, nil
}

func (charEncoderTokenizer) Encode(text string) ([]int, error) {
	runes := []rune(text)
	ids := make([]int, len(runes))
	for i, r := range runes {
		ids[i] = int(r)
	}
	return ids, nil
}

func (charEncoderTokenizer) Decode(ids []int) (string, error) {
	runes := make([]rune, len(ids))
	for i, id := range ids {
		if id < 0 || id > 0x10FFFF {
			return "", fmt.Errorf("char encoder: token id %d is not a valid rune", id)
		}
		runes[i] = rune(id)
	}
	return string(runes), nil
}

func (t charEncoderTokenizer) EncodeAligned(text string) ([]int, [][2]int, error) {
	ids, err := t.Encode(text)
	if err != nil {
		return nil, nil, err
	}
	ranges := make([][2]int, len(ids))
	for i := range ids {
		ranges[i] = [2]int{i, i + 1}
	}
	return ids, ranges, nil
}
