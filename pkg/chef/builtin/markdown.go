package builtin

import (
	"context"
	"strings"

	"github.com/wyvernzora/chonkie/pkg/chef"
	pctx "github.com/wyvernzora/chonkie/pkg/context"
	"github.com/wyvernzora/chonkie/pkg/frontmatter"
	frontmatterbuiltin "github.com/wyvernzora/chonkie/pkg/frontmatter/builtin"
	"github.com/wyvernzora/chonkie/pkg/header"
	headerbuiltin "github.com/wyvernzora/chonkie/pkg/header/builtin"
	parserbuiltin "github.com/wyvernzora/chonkie/pkg/parser/builtin"
	"github.com/wyvernzora/chonkie/pkg/section"
	sectionbuiltin "github.com/wyvernzora/chonkie/pkg/section/builtin"
)

// titleHeader renders a "Title: ..." line from frontmatter's "title" field
// and a "Source: ..." line from its "file_path" field, each only if present,
// so readers downstream of the chef (chunkers,
// porters) still see the document's identity even though the raw
// frontmatter block itself is stripped.
var titleHeader header.ChunkHeader = headerbuiltin.KeyValueHeader(
	headerbuiltin.OptionalField("title", "Title"),
	headerbuiltin.OptionalField("file_path", "Source"),
)

type markdownConfig struct {
	defaults       frontmatter.FrontMatter
	requireSummary bool
	yamlHeader     bool
}

// MarkdownOption configures Markdown.
type MarkdownOption func(*markdownConfig)

// WithDefaultFrontMatter merges data into every document's frontmatter
// before rendering the title header, filling in fields the document's own
// frontmatter omits without overwriting ones it already sets.
func WithDefaultFrontMatter(data frontmatter.FrontMatter) MarkdownOption {
	return func(c *markdownConfig) { c.defaults = data }
}

// WithRequireSummary rejects any document whose frontmatter lacks a
// non-blank "summary" field, for callers enforcing a documentation standard.
func WithRequireSummary() MarkdownOption {
	return func(c *markdownConfig) { c.requireSummary = true }
}

// WithYAMLFrontMatterHeader renders the document's header as a full
// "---\nkey: value\n---\n" YAML block (the document's complete surviving
// frontmatter) instead of the default "Title: ..."/"Source: ..." lines, for callers that want downstream consumers to see the whole
// frontmatter rather than just its title/path.
func WithYAMLFrontMatterHeader() MarkdownOption {
	return func(c *markdownConfig) { c.yamlHeader = true }
}

// Markdown strips YAML frontmatter, parses the remaining body into a
// heading-structured Section tree, applies the same whitespace transforms
// as Whitespace to every section, and flattens the tree back into plain
// text with heading lines preserved. Most frontmatter fields are discarded
// (a Chef is a pure content-to-text function, spec.md's `process(content)
// -> text`, not a metadata extractor) but a short "Title:"/"Source:" header
// is rendered by a pkg/header generator and prepended once, ahead of the
// body.
func Markdown(opts ...MarkdownOption) chef.Chef {
	cfg := &markdownConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	headerGen := titleHeader
	if cfg.yamlHeader {
		headerGen = headerbuiltin.FrontMatterYamlHeader()
	}

	return func(ctx context.Context, content string) (string, error) {
		root, fm, err := parserbuiltin.DefaultParser(ctx, []byte(content))
		if err != nil {
			return "", err
		}

		transforms := []section.Transform{
			sectionbuiltin.NormalizeNewlinesTransform(),
			sectionbuiltin.NormalizeHardWrapsTransform(),
			sectionbuiltin.CollapseBlankLinesTransform(),
			sectionbuiltin.PruneLeadingBlankLinesTransform(0),
			sectionbuiltin.PruneTrailingBlankLinesTransform(0),
		}
		if fm == nil {
			fm = frontmatter.EmptyFrontMatter()
		}
		if fi, ok := pctx.FileInfoFrom(ctx); ok && fi.Path != "" {
			// best-effort: only runs when the caller (e.g. pipeline.runOne)
			// attached a FileInfo with a real path; a bare context.Background()
			// caller, or a pipeline run over direct text with no source, skips
			// it rather than erroring.
			if err := frontmatter.ApplyTransform(ctx, fm, frontmatterbuiltin.InjectFilePath("file_path")); err != nil {
				return "", err
			}
		}
		if len(cfg.defaults) > 0 {
			if err := frontmatter.ApplyTransform(ctx, fm, frontmatterbuiltin.MergeFrontMatter(cfg.defaults)); err != nil {
				return "", err
			}
		}
		if cfg.requireSummary {
			if err := frontmatter.ApplyTransform(ctx, fm, frontmatterbuiltin.RequireSummary()); err != nil {
				return "", err
			}
		}
		if err := section.ApplyTransform(ctx, fm, root, transforms...); err != nil {
			return "", err
		}

		head, err := headerGen(ctx, fm.View())
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString(head)
		flatten(&sb, root)
		return strings.TrimSpace(sb.String()) + "\n", nil
	}
}

// flatten renders a Section tree depth-first: each non-root section's
// heading line followed by its own content, then its children.
func flatten(sb *strings.Builder, s *section.Section) {
	if !s.IsRoot() {
		sb.WriteString(strings.Repeat("#", s.Level()))
		sb.WriteString(" ")
		sb.WriteString(s.Title())
		sb.WriteString("\n\n")
	}
	if content := s.Content(); content != "" {
		sb.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	for _, child := range s.Children() {
		flatten(sb, child)
	}
}
