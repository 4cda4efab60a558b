package header

import (
	"context"

	fm "github.com/wyvernzora/chonkie/pkg/frontmatter"
)

// ChunkHeader generates a header block from a document's frontmatter.
// The header typically contains serialized frontmatter but can be customized
// to include additional metadata or use different formatting.
//
// The generator receives a read-only view of the frontmatter and returns
// the header text; the caller decides where to prepend it (the Markdown
// chef prepends it once per document, ahead of chunking).
//
// Example implementations:
//   - YAML frontmatter block: "---\nkey: value\n---\n\n"
//   - JSON frontmatter block: "```json\n{\"key\": \"value\"}\n```\n\n"
//   - Custom metadata format
type ChunkHeader func(ctx context.Context, frontmatter fm.FrontMatterView) (string, error)
