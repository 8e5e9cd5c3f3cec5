package test

import (
	"io"

	"github.com/askiada/go-dataproject/pkg/node"
)

// CreatePipeline returns the test pipeline, printing to stdout. kwargs is ignored.
func CreatePipeline(kwargs map[string]any) *node.Pipeline {
	return CreatePipelineTo(nil, kwargs)
}

// CreatePipelineTo returns the test pipeline, printing to w.
func CreatePipelineTo(w io.Writer, _ map[string]any) *node.Pipeline {
	asIs := node.Unary(AsIs[any](w))

	return node.MustPipeline(
		mustNode(asIs, "data1", "out1", "data1"),
		mustNode(asIs, "data2", "out2", "data2"),
		mustNode(asIs, "data3", "out3", "data3"),
	)
}

func mustNode(fn node.Func, input, output, name string) *node.Node {
	n, err := node.New(fn, []string{input}, []string{output}, node.WithName(name))
	if err != nil {
		panic(err)
	}

	return n
}
