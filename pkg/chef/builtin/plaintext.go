package builtin

import (
	"context"

	"github.com/wyvernzora/chonkie/pkg/chef"
)

// PlainText returns content unchanged. Used when the fetched content is
// already the text a chunker should consume.
func PlainText() chef.Chef {
	return func(_ context.Context, content string) (string, error) {
		return content, nil
	}
}
