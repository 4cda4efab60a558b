// Package fetcher defines the input-loading collaborator contract: reading
// raw content from outside the process (local files, and anything else a
// caller registers) before the chef and chunk stages run.
package fetcher

import "context"

// Item is one fetched document: its source path, raw content, and any
// loader-supplied metadata (e.g. file size, modification time).
type Item struct {
	Path     string
	Content  string
	Metadata map[string]any
}

// Fetcher loads zero or more items matching pattern under path.
type Fetcher func(ctx context.Context, path, pattern string) ([]Item, error)
