package test_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/askiada/go-dataproject/internal/pipelines/test"
	"github.com/askiada/go-dataproject/pkg/node"
)

func TestAsIsString(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	got, err := test.AsIs[string](buf)(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, "hello\n", buf.String())
}

func TestAsIsInt(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	got, err := test.AsIs[int](buf)(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, "42\n", buf.String())
}

func TestAsIsReturnsInputAndPrintsOnce(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.String().Draw(rt, "v")
		buf := &bytes.Buffer{}
		asIs := test.AsIs[string](buf)

		got, err := asIs(context.Background(), v)
		require.NoError(rt, err)
		assert.Equal(rt, v, got)
		assert.Equal(rt, v+"\n", buf.String())

		// no state is carried between calls
		got, err = asIs(context.Background(), v)
		require.NoError(rt, err)
		assert.Equal(rt, v, got)
		assert.Equal(rt, v+"\n"+v+"\n", buf.String())
	})
}

func TestAsIsSlice(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.SliceOf(rapid.Int()).Draw(rt, "v")
		buf := &bytes.Buffer{}

		got, err := test.AsIs[[]int](buf)(context.Background(), v)
		require.NoError(rt, err)
		assert.Equal(rt, v, got)
		assert.Equal(rt, 1, bytes.Count(buf.Bytes(), []byte("\n")))
	})
}

type datasetLink struct {
	name, input, output string
}

func links(p *node.Pipeline) []datasetLink {
	res := []datasetLink{}
	for _, n := range p.Nodes() {
		res = append(res, datasetLink{name: n.Name(), input: n.Inputs()[0], output: n.Outputs()[0]})
	}

	return res
}

func TestCreatePipeline(t *testing.T) {
	t.Parallel()

	expected := []datasetLink{
		{name: "data1", input: "data1", output: "out1"},
		{name: "data2", input: "data2", output: "out2"},
		{name: "data3", input: "data3", output: "out3"},
	}

	pipe := test.CreatePipeline(nil)
	require.Len(t, pipe.Nodes(), 3)
	assert.Equal(t, expected, links(pipe))
	for _, n := range pipe.Nodes() {
		assert.Len(t, n.Inputs(), 1)
		assert.Len(t, n.Outputs(), 1)
	}

	assert.Equal(t, expected, links(test.CreatePipeline(map[string]any{"extra": "ignored"})))
	assert.Equal(t, links(pipe), links(test.CreatePipeline(nil)))

	assert.Equal(t, []string{"data1", "data2", "data3"}, pipe.Inputs())
	assert.Equal(t, []string{"out1", "out2", "out3"}, pipe.Outputs())
	// the nodes share no dataset so they all run in the first generation
	assert.Len(t, pipe.Grouped(), 1)
}

func TestCreatePipelineNodesPassThrough(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	pipe := test.CreatePipelineTo(buf, nil)

	n, ok := pipe.Node("data2")
	require.True(t, ok)

	got, err := n.Run(context.Background(), []any{"hello"})
	require.NoError(t, err)
	assert.Equal(t, []any{"hello"}, got)
	assert.Equal(t, "hello\n", buf.String())
}
