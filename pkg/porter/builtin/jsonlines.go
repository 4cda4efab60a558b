// Package builtin provides the JSONLines and Debug porters.
package builtin

import (
	"context"
	"encoding/json"
	"os"

	"github.com/wyvernzora/chonkie/pkg/chunk"
	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	"github.com/wyvernzora/chonkie/pkg/porter"
)

const jsonLinesComponent = "jsonlines porter"

// JSONLines writes one JSON object per chunk, newline-delimited, to path.
// Returns false (with no error) if there are no chunks to write.
func JSONLines() porter.Porter {
	return func(_ context.Context, chunks []chunk.Chunk, path string) (bool, error) {
		if len(chunks) == 0 {
			return false, nil
		}

		f, err := os.Create(path)
		if err != nil {
			return false, chunkerr.WithReason(chunkerr.KindCollaborator, chunkerr.ReasonExportFailed,
				jsonLinesComponent, "creating output file", err)
		}
		defer f.Close()

		enc := json.NewEncoder(f)
		for _, c := range chunks {
			if err := enc.Encode(porter.ToRecord(c)); err != nil {
				return false, chunkerr.WithReason(chunkerr.KindCollaborator, chunkerr.ReasonExportFailed,
					jsonLinesComponent, "encoding chunk", err)
			}
		}
		return true, nil
	}
}
