// Package sentence splits text into an ordered sequence of sentence spans.
// It is the shared building block for the sentence, semantic, and late
// chunkers.
package sentence

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/wyvernzora/chonkie/pkg/chunk"
	"github.com/wyvernzora/chonkie/pkg/tokenizer"
)

// DefaultAbbreviations is the default list of trailing-period abbreviations
// that do not terminate a sentence.
var DefaultAbbreviations = []string{
	"Mr.", "Mrs.", "Ms.", "Dr.", "Prof.", "Sr.", "Jr.",
	"vs.", "etc.", "e.g.", "i.e.", "St.", "Mt.", "Gen.", "Rev.",
}

// terminatorWindow bounds how many runes of preceding context are checked
// against the abbreviation pattern for each candidate sentence terminator.
const terminatorWindow = 12

type config struct {
	abbreviations []string
	approximate   bool
}

// Option configures a Splitter.
type Option func(*config)

// WithAbbreviations replaces the default abbreviation list. Each entry must
// include its trailing period, e.g. "Dr.".
func WithAbbreviations(abbreviations []string) Option {
	return func(c *config) {
		c.abbreviations = abbreviations
	}
}

// WithApproximate estimates each sentence's TokenCount from its rune length
// instead of invoking the tokenizer per sentence, trading exactness for
// speed on large documents. Off by default.
func WithApproximate(approximate bool) Option {
	return func(c *config) {
		c.approximate = approximate
	}
}

// approximateCharsPerToken is the rough chars-per-token ratio used by
// WithApproximate's estimate; it matches common BPE tokenizers closely
// enough for greedy packing, which only needs an estimate, not an exact count.
const approximateCharsPerToken = 4.0

// Splitter is a deterministic sentence boundary detector.
type Splitter struct {
	tok            tokenizer.Tokenizer
	abbreviationRE *regexp2.Regexp
	approximate    bool
}

// New builds a Splitter. tok is used to fill each produced Sentence's
// TokenCount, unless WithApproximate is set.
func New(tok tokenizer.Tokenizer, opts ...Option) (*Splitter, error) {
	cfg := &config{abbreviations: DefaultAbbreviations}
	for _, opt := range opts {
		opt(cfg)
	}

	escaped := make([]string, len(cfg.abbreviations))
	for i, a := range cfg.abbreviations {
		escaped[i] = regexp.QuoteMeta(a)
	}
	pattern := fmt.Sprintf(`(?:^|\s)(?:%s)$`, strings.Join(escaped, "|"))

	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("sentence: invalid abbreviation pattern: %w", err)
	}

	return &Splitter{tok: tok, abbreviationRE: re, approximate: cfg.approximate}, nil
}

// Split breaks text into sentence spans. Rules:
//   - Terminators are '.', '!', '?', or a run of two or more consecutive
//     line breaks.
//   - A '.'/'!'/'?' preceded by a configured abbreviation does not terminate.
//   - Trailing whitespace after a terminator stays attached to the
//     preceding sentence, so concatenating Sentence.Text in order
//     reproduces text exactly.
func (s *Splitter) Split(text string) ([]chunk.Sentence, error) {
	if text == "" {
		return nil, nil
	}
	runes := []rune(text)
	n := len(runes)

	var splits []int // rune offsets, each the start of the next sentence

	i := 0
	for i < n {
		r := runes[i]
		switch {
		case r == '\n':
			j := i
			for j < n && runes[j] == '\n' {
				j++
			}
			if j-i >= 2 {
				splits = append(splits, absorbTrailingSpace(runes, j))
			}
			i = j
		case r == '.' || r == '!' || r == '?':
			if s.isAbbreviation(runes, i) {
				i++
				continue
			}
			splits = append(splits, absorbTrailingSpace(runes, i+1))
			i++
		default:
			i++
		}
	}

	splits = dedupeAscending(splits, n)
	if len(splits) == 0 {
		return []chunk.Sentence{{Text: text, StartIndex: 0, EndIndex: n}}, nil
	}

	sentences := make([]chunk.Sentence, 0, len(splits))
	start := 0
	for _, end := range splits {
		if end <= start {
			continue
		}
		sentences = append(sentences, chunk.Sentence{
			Text:       string(runes[start:end]),
			StartIndex: start,
			EndIndex:   end,
		})
		start = end
	}
	if start < n {
		sentences = append(sentences, chunk.Sentence{
			Text:       string(runes[start:n]),
			StartIndex: start,
			EndIndex:   n,
		})
	}

	switch {
	case s.approximate:
		for idx := range sentences {
			sentences[idx].TokenCount = estimateTokenCount(sentences[idx].Text)
		}
	case s.tok != nil:
		for idx := range sentences {
			count, err := s.tok.Count(sentences[idx].Text)
			if err != nil {
				return nil, fmt.Errorf("sentence: counting tokens: %w", err)
			}
			sentences[idx].TokenCount = count
		}
	}

	return sentences, nil
}

// estimateTokenCount approximates a token count from rune length, for
// WithApproximate mode.
func estimateTokenCount(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	count := int(float64(n)/approximateCharsPerToken + 0.5)
	if count < 1 {
		count = 1
	}
	return count
}

// isAbbreviation reports whether the rune at index i (a '.', '!', or '?')
// is the end of a configured abbreviation rather than a sentence boundary.
func (s *Splitter) isAbbreviation(runes []rune, i int) bool {
	start := i - terminatorWindow
	if start < 0 {
		start = 0
	}
	window := string(runes[start : i+1])

	ok, err := s.abbreviationRE.MatchString(window)
	return err == nil && ok
}

// absorbTrailingSpace extends a split point forward over any run of
// whitespace so that whitespace stays attached to the preceding sentence.
func absorbTrailingSpace(runes []rune, from int) int {
	j := from
	for j < len(runes) && isSpace(runes[j]) {
		j++
	}
	return j
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// dedupeAscending clamps split offsets to at most max and drops any offset
// not greater than the one kept before it. It does not sort: inputs are
// already produced in document order.
func dedupeAscending(splits []int, max int) []int {
	out := splits[:0]
	last := -1
	for _, v := range splits {
		if v > max {
			v = max
		}
		if v <= last {
			continue
		}
		out = append(out, v)
		last = v
	}
	return out
}
