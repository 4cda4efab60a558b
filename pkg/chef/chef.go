// Package chef defines the content-normalization collaborator contract:
// a pure function from raw fetched content to plain text, run once per
// document before chunking.
package chef

import "context"

// Chef normalizes raw content into the plain text a chunker consumes. It
// must be pure: the same input always produces the same output, with no
// side effects.
type Chef func(ctx context.Context, content string) (string, error)
