package builtin

import (
	"context"
	"fmt"
	"os"

	"github.com/sanity-io/litter"
	"github.com/wyvernzora/chonkie/pkg/chunk"
	"github.com/wyvernzora/chonkie/pkg/chunkerr"
	"github.com/wyvernzora/chonkie/pkg/porter"
)

const debugComponent = "debug porter"

var debugLitter = litter.Options{
	Compact:           false,
	StripPackageNames: true,
	HidePrivateFields: true,
}

// Debug pretty-prints each chunk's Record form for local inspection. If
// path is empty, writes to stdout; otherwise creates/truncates the file at
// path. Intended for development, not as a durable export format.
func Debug() porter.Porter {
	return func(_ context.Context, chunks []chunk.Chunk, path string) (bool, error) {
		if len(chunks) == 0 {
			return false, nil
		}

		w := os.Stdout
		if path != "" {
			f, err := os.Create(path)
			if err != nil {
				return false, chunkerr.WithReason(chunkerr.KindCollaborator, chunkerr.ReasonExportFailed,
					debugComponent, "creating output file", err)
			}
			defer f.Close()
			w = f
		}

		for _, c := range chunks {
			if _, err := fmt.Fprintln(w, debugLitter.Sdump(porter.ToRecord(c))); err != nil {
				return false, chunkerr.WithReason(chunkerr.KindCollaborator, chunkerr.ReasonExportFailed,
					debugComponent, "writing debug dump", err)
			}
		}
		return true, nil
	}
}
