package pipeline_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-dataproject/pkg/pipeline"
	"github.com/askiada/go-dataproject/pkg/pipeline/drawer"
	"github.com/askiada/go-dataproject/pkg/pipeline/measure"
	"github.com/askiada/go-dataproject/pkg/pipeline/model"
)

func TestAddStepOneToOneNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddStepOneToOne(nil, "step", nil, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	require.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddStepOneToOneNilInput(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	_, err = pipeline.AddStepOneToOne(pipe, "step", nil, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	require.ErrorIs(t, err, pipeline.ErrInputMustBeSet)
}

func TestAddStepOneToOne(t *testing.T) {
	t.Parallel()

	var got []int

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output: createInputChan(t, 10),
	}
	outputChan, err := pipeline.AddStepOneToOne(pipe, "first step", &step, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	require.NoError(t, err)

	done := make(chan struct{})

	go func() {
		got = processOutputChan(t, outputChan.Output)
		done <- struct{}{}
	}()

	err = pipe.Run()
	require.NoError(t, err)
	<-done
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestAddStepOneToOneConcurrent(t *testing.T) {
	t.Parallel()

	var got []int

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output: createInputChan(t, 100),
	}
	outputChan, err := pipeline.AddStepOneToOne(pipe, "first step", &step, func(ctx context.Context, input int) (int, error) {
		return input + 1, nil
	}, pipeline.StepConcurrency[int](4))
	require.NoError(t, err)
	assert.Equal(t, 4, outputChan.Details.Concurrent)

	done := make(chan struct{})

	go func() {
		got = processOutputChan(t, outputChan.Output)
		done <- struct{}{}
	}()

	err = pipe.Run()
	require.NoError(t, err)
	<-done

	expected := make([]int, 100)
	for i := range expected {
		expected[i] = i + 1
	}
	assert.ElementsMatch(t, expected, got)
}

func TestAddStepOneToOneError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output: createInputChan(t, 10),
	}
	outputChan, err := pipeline.AddStepOneToOne(pipe, "failing step", &step, func(ctx context.Context, input int) (int, error) {
		if input == 5 {
			return 0, assert.AnError
		}

		return input, nil
	})
	require.NoError(t, err)

	done := make(chan struct{})

	go func() {
		_ = processOutputChan(t, outputChan.Output)
		done <- struct{}{}
	}()

	err = pipe.Run()
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failing step")
	<-done
}

func TestAddStepOneToOneCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	pipe, err := pipeline.New(ctx)
	require.NoError(t, err)
	step := model.Step[int]{
		Output: createInputChanWithCancel(t, 10, 5, cancel),
	}
	outputChan, err := pipeline.AddStepOneToOne(pipe, "step", &step, func(ctx context.Context, input int) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
			return input, nil
		}
	})
	require.NoError(t, err)

	done := make(chan struct{})

	go func() {
		_ = processOutputChan(t, outputChan.Output)
		done <- struct{}{}
	}()

	err = pipe.Run()
	require.ErrorIs(t, err, context.Canceled)
	<-done
}

func TestAddSinkNilPipe(t *testing.T) {
	t.Parallel()

	err := pipeline.AddSink(nil, "sink", &model.Step[int]{}, func(ctx context.Context, input int) error {
		return nil
	})
	require.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddSinkNilInput(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	err = pipeline.AddSink(pipe, "sink", (*model.Step[int])(nil), func(ctx context.Context, input int) error {
		return nil
	})
	require.ErrorIs(t, err, pipeline.ErrInputMustBeSet)
}

func TestAddSink(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output: createInputChan(t, 10),
	}

	var (
		mu  sync.Mutex
		got []int
	)

	err = pipeline.AddSink(pipe, "sink", &step, func(ctx context.Context, input int) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, input)

		return nil
	})
	require.NoError(t, err)

	err = pipe.Run()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestAddSinkError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output: createInputChan(t, 10),
	}
	err = pipeline.AddSink(pipe, "sink", &step, func(ctx context.Context, input int) error {
		if input == 3 {
			return assert.AnError
		}

		return nil
	})
	require.NoError(t, err)

	err = pipe.Run()
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "sink")
}

func TestCompletePipelineWithOptions(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	m := measure.NewDefaultMeasure()
	pipe, err := pipeline.New(
		context.Background(),
		measure.PipelineMeasure(m),
		drawer.PipelineDrawer(drawer.NewDOTWriterDrawer(buf), m),
	)
	require.NoError(t, err)

	rootStep, err := pipeline.AddRootStep(pipe, "root", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 10 {
			rootChan <- i
		}

		return nil
	})
	require.NoError(t, err)

	step, err := pipeline.AddStepOneToOne(pipe, "square", rootStep, func(ctx context.Context, input int) (int, error) {
		return input * input, nil
	}, pipeline.StepConcurrency[int](2))
	require.NoError(t, err)

	sum := 0
	err = pipeline.AddSink(pipe, "sum", step, func(ctx context.Context, input int) error {
		sum += input

		return nil
	})
	require.NoError(t, err)

	err = pipe.Run()
	require.NoError(t, err)

	assert.Equal(t, 285, sum)
	assert.EqualValues(t, 10, m.GetMetric("square").Count())
	assert.EqualValues(t, 10, m.GetMetric("sum").Count())
	assert.Positive(t, m.GetMetric("sum").GetTotalDuration())
	assert.Contains(t, m.GetMetric("square").AVGTransportDuration(), "root")

	graph := buf.String()
	assert.Contains(t, graph, "strict digraph {")
	assert.Contains(t, graph, `"start" -> "root"`)
	assert.Contains(t, graph, `"root" -> "square"`)
	assert.Contains(t, graph, `"square" -> "sum"`)
	assert.Contains(t, graph, `"sum" -> "end"`)
}
