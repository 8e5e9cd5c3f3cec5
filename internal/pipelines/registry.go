// Package pipelines lists the pipelines of the project.
package pipelines

import (
	"io"
	"sort"

	"github.com/askiada/go-dataproject/internal/pipelines/test"
	"github.com/askiada/go-dataproject/pkg/node"
)

// DefaultPipeline is the name of the pipeline run when none is given.
const DefaultPipeline = "__default__"

// Register returns the project pipelines by name. Node output is written to w, stdout when nil.
// DefaultPipeline is the union of all the others.
func Register(w io.Writer, kwargs map[string]any) (map[string]*node.Pipeline, error) {
	pipes := map[string]*node.Pipeline{
		"test": test.CreatePipelineTo(w, kwargs),
	}

	names := make([]string, 0, len(pipes))
	for name := range pipes {
		names = append(names, name)
	}
	sort.Strings(names)

	def := node.MustPipeline()
	for _, name := range names {
		var err error

		def, err = def.Add(pipes[name])
		if err != nil {
			return nil, err
		}
	}
	pipes[DefaultPipeline] = def

	return pipes, nil
}
