package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-dataproject/pkg/pipeline/model"
)

func sequentialOneToOneFn[I, O any](
	ctx context.Context,
	pipe *Pipeline,
	goIdx int,
	input *model.Step[I],
	output *model.Step[O],
	oneToOneFn func(context.Context, I) (O, error),
) error {
	for {
		startIter := time.Now()
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
		case in, ok := <-input.Output:
			if !ok {
				return nil
			}

			startFn := time.Now()
			out, err := oneToOneFn(ctx, in)
			if err != nil {
				return errors.Wrapf(err, "go routine %d", goIdx)
			}
			endFn := time.Since(startFn)

			// check the context again so no worker pushes once the pipeline is stopping
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
			case output.Output <- out:
			}

			endIter := time.Since(startIter) - endFn
			for _, opt := range pipe.opts {
				err := opt.OnStepOutput(input.Details, output.Details, endIter, endFn)
				if err != nil {
					return errors.Wrap(err, "unable to run on step output function")
				}
			}
		}
	}
}

func oneToOne[I, O any](
	ctx context.Context,
	pipe *Pipeline,
	input *model.Step[I],
	output *model.Step[O],
	oneToOneFn func(context.Context, I) (O, error),
) error {
	if output.Details.Concurrent <= 1 {
		return sequentialOneToOneFn(ctx, pipe, 0, input, output, oneToOneFn)
	}

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(output.Details.Concurrent)
	// each worker stops as soon as one of them fails
	for goIdx := range output.Details.Concurrent {
		errGrp.Go(func() error {
			return sequentialOneToOneFn(dCtx, pipe, goIdx, input, output, oneToOneFn)
		})
	}

	return errGrp.Wait()
}

func prepareStep[I, O any](pipe *Pipeline, name string, input *model.Step[I], opts ...StepOption[O]) (*model.Step[O], error) {
	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type:       model.NormalStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: make(chan O),
	}
	for _, opt := range opts {
		opt(step)
	}

	for _, opt := range pipe.opts {
		err := opt.PrepareStep(input.Details, step.Details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare step function")
		}
	}

	return step, nil
}

// AddStepOneToOne adds a step producing exactly one output element per input element.
// The function runs on as many workers as set with StepConcurrency, so output order is
// only preserved with a single worker.
func AddStepOneToOne[I, O any](
	pipe *Pipeline,
	name string,
	input *model.Step[I],
	oneToOneFn func(context.Context, I) (O, error),
	opts ...StepOption[O],
) (*model.Step[O], error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}
	if input.Details == nil {
		input.Details = model.StartStep.Details
	}

	step, err := prepareStep(pipe, name, input, opts...)
	if err != nil {
		return nil, err
	}

	errC := make(chan error, 1)
	pipe.stages.register(name, errC)

	go func() {
		defer func() {
			close(step.Output)
			close(errC)
		}()
		err := oneToOne(pipe.ctx, pipe, input, step, oneToOneFn)
		if err != nil {
			errC <- err
		}
	}()

	return step, nil
}
