// Package builtin provides the LocalFS fetcher: the only fetcher builtin,
// reading files from the local filesystem by glob pattern.
package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	"github.com/wyvernzora/chonkie/pkg/fetcher"
)

const component = "local filesystem fetcher"

// LocalFS reads regular files under root matching pattern. pattern is a
// comma-separated list of doublestar glob patterns (supporting "**");
// entries prefixed with "!" exclude previously matched files. Matches
// outside root are rejected. Results are sorted by path for determinism.
func LocalFS() fetcher.Fetcher {
	return func(ctx context.Context, root, pattern string) ([]fetcher.Item, error) {
		files, err := expandGlobs(root, splitPatterns(pattern))
		if err != nil {
			return nil, chunkerr.WithReason(chunkerr.KindCollaborator, chunkerr.ReasonFetchFailed,
				component, fmt.Sprintf("expanding pattern %q under %q", pattern, root), err)
		}

		items := make([]fetcher.Item, 0, len(files))
		for _, rel := range files {
			if err := ctx.Err(); err != nil {
				return nil, chunkerr.WithReason(chunkerr.KindCollaborator, chunkerr.ReasonFetchFailed,
					component, "fetch cancelled", err)
			}

			abs := filepath.Join(root, rel)
			content, err := os.ReadFile(abs)
			if err != nil {
				return nil, chunkerr.WithReason(chunkerr.KindCollaborator, chunkerr.ReasonFetchFailed,
					component, fmt.Sprintf("reading %q", abs), err)
			}
			info, err := os.Stat(abs)
			if err != nil {
				return nil, chunkerr.WithReason(chunkerr.KindCollaborator, chunkerr.ReasonFetchFailed,
					component, fmt.Sprintf("stat %q", abs), err)
			}

			items = append(items, fetcher.Item{
				Path:    rel,
				Content: string(content),
				Metadata: map[string]any{
					"size":     info.Size(),
					"mod_time": info.ModTime(),
				},
			})
		}
		return items, nil
	}
}

func splitPatterns(pattern string) []string {
	parts := strings.Split(pattern, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// expandGlobs expands include/exclude glob patterns into a sorted,
// deduplicated list of regular-file paths relative to root.
func expandGlobs(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var includes, excludes []string
	for _, pattern := range patterns {
		if after, ok := strings.CutPrefix(pattern, "!"); ok {
			excludes = append(excludes, after)
		} else {
			includes = append(includes, pattern)
		}
	}
	if len(includes) == 0 {
		return nil, nil
	}

	fileSet := make(map[string]bool)
	for _, pattern := range includes {
		matches, err := expandGlob(root, pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			fileSet[m] = true
		}
	}
	for _, pattern := range excludes {
		matches, err := expandGlob(root, pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding exclusion glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			delete(fileSet, m)
		}
	}

	files := make([]string, 0, len(fileSet))
	for f := range fileSet {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func expandGlob(root, pattern string) ([]string, error) {
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(root, pattern)
	}

	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %q: %w", root, err)
	}

	var results []string
	for _, match := range matches {
		absMatch, err := filepath.Abs(match)
		if err != nil {
			return nil, fmt.Errorf("resolving match %q: %w", match, err)
		}

		info, err := os.Stat(absMatch)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		rel, err := filepath.Rel(absRoot, absMatch)
		if err != nil {
			return nil, fmt.Errorf("relativizing %q: %w", absMatch, err)
		}
		if strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("match %q is outside root %q", absMatch, absRoot)
		}
		results = append(results, rel)
	}
	return results, nil
}
