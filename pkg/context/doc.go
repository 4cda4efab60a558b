// Package context provides context utilities for the chonkie module.
//
// It extends the standard context package with typed values for passing
// metadata throughout the chunking pipeline, particularly file information
// and logging.
//
// # FileInfo
//
// FileInfo holds document metadata:
//
//	type FileInfo struct {
//	    Path    string // Logical file path (e.g., "docs/guide.md")
//	    Title   string // Human-readable title
//	    Content []byte // Raw document bytes, if available
//	}
//
// Store and retrieve file info from context:
//
//	ctx = context.WithFileInfo(ctx, context.FileInfo{
//	    Path:  "docs/guide.md",
//	    Title: "User Guide",
//	})
//
//	info, ok := context.FileInfoFrom(ctx)
//	if ok {
//	    fmt.Println(info.Path)
//	}
//
// # Logging
//
// The package provides access to structured logging via slog:
//
//	logger := context.Logger(ctx)
//	logger.Info("processing document",
//	    slog.String("path", path),
//	    slog.Int("chunks", count))
//
// If no logger is configured in the context, a default logger is returned.
//
// # Usage in Pipeline
//
// Context flows through the entire chunking pipeline:
//
//  1. The pipeline attaches a FileInfo (Path from the fetched source) to
//     each document's context
//  2. The parser and chefs receive the context for logging
//  3. Frontmatter and section transforms access FileInfo and Logger
//
// This allows transforms to access document metadata without
// explicit parameter passing:
//
//	func MyTransform(ctx context.Context, fm frontmatter.FrontMatterView, s *section.Section) error {
//	    info, _ := context.FileInfoFrom(ctx)
//	    logger := context.Logger(ctx)
//	    logger.Info("transforming", slog.String("path", info.Path))
//	    // ... transformation logic
//	}
package context
