package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-dataproject/pkg/pipeline"
)

func TestAddRootStepNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddRootStep(nil, "root step", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 10 {
			rootChan <- i
		}

		return nil
	})
	assert.Error(t, err)
}

func TestAddRootStep(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	var got []int

	outputChan, err := pipeline.AddRootStep(pipe, "root step", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 10 {
			rootChan <- i
		}

		return nil
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
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestAddRootStepError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	var got []int

	outputChan, err := pipeline.AddRootStep(pipe, "root step", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 10 {
			if i == 5 {
				return assert.AnError
			}
			rootChan <- i
		}

		return nil
	})
	require.NoError(t, err)

	done := make(chan struct{})

	go func() {
		got = processOutputChan(t, outputChan.Output)
		done <- struct{}{}
	}()

	err = pipe.Run()
	assert.Error(t, err)
	<-done

	_ = got
}

func TestAddRootStepCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	pipe, err := pipeline.New(ctx)
	require.NoError(t, err)

	var got []int

	outputChan, err := pipeline.AddRootStep(pipe, "root step", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 10 {
			if i == 5 {
				cancel()

				return assert.AnError
			}
			rootChan <- i
		}

		return nil
	})

	require.NoError(t, err)

	done := make(chan struct{})

	go func() {
		got = processOutputChan(t, outputChan.Output)
		done <- struct{}{}
	}()

	err = pipe.Run()
	assert.Error(t, err)
	<-done

	_ = got
}

func TestAddRootStepFeedsStep(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	rootStep, err := pipeline.AddRootStep(pipe, "root step", func(ctx context.Context, rootChan chan<- int) error {
		for i := range 5 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case rootChan <- i:
			}
		}

		return nil
	})
	require.NoError(t, err)

	step, err := pipeline.AddStepOneToOne(pipe, "double", rootStep, func(ctx context.Context, input int) (int, error) {
		return input * 2, nil
	})
	require.NoError(t, err)

	var got []int

	done := make(chan struct{})

	go func() {
		got = processOutputChan(t, step.Output)
		done <- struct{}{}
	}()

	err = pipe.Run()
	require.NoError(t, err)
	<-done
	assert.Equal(t, []int{0, 2, 4, 6, 8}, got)
}
