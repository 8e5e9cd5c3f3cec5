// Package test is a pipeline of independent passthrough nodes, used to check a project end to end.
package test

import (
	"context"
	"fmt"
	"io"
	"os"
)

// AsIs returns a node function printing its input to w, stdout when w is nil, and returning it
// unchanged. A failed write does not fail the node.
func AsIs[T any](w io.Writer) func(ctx context.Context, v T) (T, error) {
	if w == nil {
		w = os.Stdout
	}

	return func(_ context.Context, v T) (T, error) {
		_, _ = fmt.Fprintln(w, v)

		return v, nil
	}
}
