package builtin

import (
	"context"

	"github.com/wyvernzora/chonkie/pkg/chef"
	"github.com/wyvernzora/chonkie/pkg/frontmatter"
	"github.com/wyvernzora/chonkie/pkg/section"
	sectionbuiltin "github.com/wyvernzora/chonkie/pkg/section/builtin"
)

// Whitespace normalizes line endings, joins hard-wrapped lines, collapses
// runs of blank lines, and trims leading/trailing blank lines. It wraps
// the whole content in a single synthetic Section so it can reuse the
// same markdown-aware whitespace transforms the Markdown chef applies
// per-section, without requiring heading structure to be present.
func Whitespace() chef.Chef {
	return func(ctx context.Context, content string) (string, error) {
		root := section.NewRoot("")
		root.SetContent(content)

		fm := frontmatter.EmptyFrontMatter()
		transforms := []section.Transform{
			sectionbuiltin.NormalizeNewlinesTransform(),
			sectionbuiltin.NormalizeHardWrapsTransform(),
			sectionbuiltin.CollapseBlankLinesTransform(),
			sectionbuiltin.PruneLeadingBlankLinesTransform(0),
			sectionbuiltin.PruneTrailingBlankLinesTransform(0),
		}
		if err := section.ApplyTransform(ctx, fm, root, transforms...); err != nil {
			return "", err
		}
		return root.Content(), nil
	}
}
