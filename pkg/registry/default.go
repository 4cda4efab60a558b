package registry

import (
	"fmt"

	"github.com/wyvernzora/chonkie/pkg/chef"
	chefbuiltin "github.com/wyvernzora/chonkie/pkg/chef/builtin"
	"github.com/wyvernzora/chonkie/pkg/chunker/recursive"
	"github.com/wyvernzora/chonkie/pkg/chunker/sentencechunker"
	"github.com/wyvernzora/chonkie/pkg/chunker/token"
	"github.com/wyvernzora/chonkie/pkg/fetcher"
	fetcherbuiltin "github.com/wyvernzora/chonkie/pkg/fetcher/builtin"
	"github.com/wyvernzora/chonkie/pkg/frontmatter"
	"github.com/wyvernzora/chonkie/pkg/porter"
	porterbuiltin "github.com/wyvernzora/chonkie/pkg/porter/builtin"
	"github.com/wyvernzora/chonkie/pkg/refinery"
	"github.com/wyvernzora/chonkie/pkg/tokenizer"
	tokenizerbuiltin "github.com/wyvernzora/chonkie/pkg/tokenizer/builtin"
)

// NewDefault returns a Registry pre-populated with every builtin that needs
// no external collaborator: the LocalFS fetcher, the PlainText/Whitespace/
// Markdown chefs, the token/recursive/sentence chunkers, the prefix/suffix/
// both/merge overlap refinery modes, and the JSONLines/Debug porters.
//
// The semantic and late chunkers are deliberately absent: both require an
// embedding.Model, which this module ships only as a contract (no provider
// is wired, per spec.md's Non-goals around external embedding APIs) — a
// caller with a concrete Model registers them itself via Register.
func NewDefault() *Registry {
	r := New()

	must(r.Register(KindFetcher, "local", fetcherFactory))

	must(r.Register(KindChef, "plaintext", chefFactory(chefbuiltin.PlainText())))
	must(r.Register(KindChef, "whitespace", chefFactory(chefbuiltin.Whitespace())))
	must(r.Register(KindChef, "markdown", markdownChefFactory))

	must(r.Register(KindChunker, "token", tokenChunkerFactory))
	must(r.Register(KindChunker, "recursive", recursiveChunkerFactory))
	must(r.Register(KindChunker, "sentence", sentenceChunkerFactory))

	must(r.Register(KindRefinery, "prefix", refineryFactory(refinery.ModePrefix)))
	must(r.Register(KindRefinery, "suffix", refineryFactory(refinery.ModeSuffix)))
	must(r.Register(KindRefinery, "both", refineryFactory(refinery.ModeBoth)))
	must(r.Register(KindRefinery, "merge", refineryFactory(refinery.ModeMerge)))
	// "annotate" is intentionally absent: it requires a caller-supplied
	// refinery.Annotator callback, which has no representation in a
	// name→value options map — callers register it manually via Register.

	must(r.Register(KindPorter, "jsonlines", porterFactory(porterbuiltin.JSONLines())))
	must(r.Register(KindPorter, "debug", porterFactory(porterbuiltin.Debug())))

	return r
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("registry: NewDefault: %v", err))
	}
}

func fetcherFactory(map[string]any) (any, error) {
	return fetcherbuiltin.LocalFS(), nil
}

func chefFactory(c chef.Chef) Factory {
	return func(map[string]any) (any, error) {
		return c, nil
	}
}

// markdownChefFactory wires the Markdown chef's optional "default_frontmatter"
// (merged into every document, existing keys win) and "require_summary"
// (reject documents missing a non-blank "summary" field) options.
func markdownChefFactory(options map[string]any) (any, error) {
	var opts []chefbuiltin.MarkdownOption
	if m, ok := mapOpt(options, "default_frontmatter"); ok {
		opts = append(opts, chefbuiltin.WithDefaultFrontMatter(m))
	}
	if b, ok := boolOpt(options, "require_summary"); ok && b {
		opts = append(opts, chefbuiltin.WithRequireSummary())
	}
	if style, ok := stringOpt(options, "header_style"); ok && style == "yaml" {
		opts = append(opts, chefbuiltin.WithYAMLFrontMatterHeader())
	}
	return chefbuiltin.Markdown(opts...), nil
}

func porterFactory(p porter.Porter) Factory {
	return func(map[string]any) (any, error) {
		return p, nil
	}
}

func refineryFactory(mode refinery.Mode) Factory {
	return func(options map[string]any) (any, error) {
		// char_encoder, not resolveTokenizer's char_count default: every
		// refinery mode but annotate requires an Encoder, which char_count
		// doesn't implement.
		tok, err := resolveTokenizerDefault(options, "char_encoder")
		if err != nil {
			return nil, err
		}
		opts := []refinery.Option{refinery.WithMode(mode), refinery.WithTokenizer(tok)}
		if n, ok := intOpt(options, "context_size"); ok {
			opts = append(opts, refinery.WithContextSize(n))
		}
		if n, ok := intOpt(options, "min_overlap"); ok {
			opts = append(opts, refinery.WithMinOverlap(n))
		}
		return refinery.New(opts...)
	}
}

func tokenChunkerFactory(options map[string]any) (any, error) {
	tok, err := resolveTokenizer(options)
	if err != nil {
		return nil, err
	}
	opts := []token.Option{token.WithTokenizer(tok)}
	if n, ok := intOpt(options, "chunk_size"); ok {
		opts = append(opts, token.WithChunkSize(n))
	}
	if n, ok := intOpt(options, "chunk_overlap"); ok {
		opts = append(opts, token.WithChunkOverlap(n))
	}
	return token.New(opts...)
}

func recursiveChunkerFactory(options map[string]any) (any, error) {
	tok, err := resolveTokenizer(options)
	if err != nil {
		return nil, err
	}
	opts := []recursive.Option{recursive.WithTokenizer(tok)}
	if n, ok := intOpt(options, "chunk_size"); ok {
		opts = append(opts, recursive.WithChunkSize(n))
	}
	if seps, ok := stringSliceOpt(options, "separators"); ok {
		opts = append(opts, recursive.WithSeparators(seps))
	}
	return recursive.New(opts...)
}

func sentenceChunkerFactory(options map[string]any) (any, error) {
	tok, err := resolveTokenizer(options)
	if err != nil {
		return nil, err
	}
	opts := []sentencechunker.Option{sentencechunker.WithTokenizer(tok)}
	if n, ok := intOpt(options, "chunk_size"); ok {
		opts = append(opts, sentencechunker.WithChunkSize(n))
	}
	if n, ok := intOpt(options, "min_sentences_per_chunk"); ok {
		opts = append(opts, sentencechunker.WithMinSentences(n))
	}
	if b, ok := boolOpt(options, "approximate"); ok {
		opts = append(opts, sentencechunker.WithApproximate(b))
	}
	return sentencechunker.New(opts...)
}

// resolveTokenizer builds a tokenizer.Tokenizer from the "tokenizer" option
// (one of "char_count", "char_encoder", "word_count", "tiktoken"; default
// "char_count"), plus tokenizer-specific options ("encoding" for tiktoken).
func resolveTokenizer(options map[string]any) (tokenizer.Tokenizer, error) {
	return resolveTokenizerDefault(options, "char_count")
}

// resolveTokenizerDefault is resolveTokenizer with a caller-chosen fallback
// name, for components (like the refinery) whose default must satisfy a
// capability the package-wide default tokenizer lacks.
func resolveTokenizerDefault(options map[string]any, defaultName string) (tokenizer.Tokenizer, error) {
	name, _ := stringOpt(options, "tokenizer")
	if name == "" {
		name = defaultName
	}
	switch name {
	case "char_count":
		return tokenizerbuiltin.NewCharCountTokenizer(), nil
	case "char_encoder":
		return tokenizerbuiltin.NewCharEncoderTokenizer(), nil
	case "word_count":
		return tokenizerbuiltin.NewWordCountTokenizer(), nil
	case "tiktoken":
		var tikOpts []tokenizerbuiltin.TiktokenOption
		if enc, ok := stringOpt(options, "encoding"); ok && enc != "" {
			tikOpts = append(tikOpts, tokenizerbuiltin.WithEncoding(enc))
		}
		return tokenizerbuiltin.NewTiktokenTokenizer(tikOpts...)
	default:
		return nil, fmt.Errorf("registry: unknown tokenizer %q", name)
	}
}

func stringOpt(options map[string]any, key string) (string, bool) {
	v, ok := options[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intOpt(options map[string]any, key string) (int, bool) {
	v, ok := options[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func mapOpt(options map[string]any, key string) (frontmatter.FrontMatter, bool) {
	v, ok := options[key]
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case frontmatter.FrontMatter:
		return m, true
	case map[string]any:
		return frontmatter.FrontMatter(m), true
	default:
		return nil, false
	}
}

func boolOpt(options map[string]any, key string) (bool, bool) {
	v, ok := options[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func stringSliceOpt(options map[string]any, key string) ([]string, bool) {
	v, ok := options[key]
	if !ok {
		return nil, false
	}
	switch s := v.(type) {
	case []string:
		return s, true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}
